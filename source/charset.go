package source

import "github.com/1313ou/jwik-go/charset"

func decodeCharset(raw []byte, name string) (string, error) {
	return charset.Decode(raw, name)
}
