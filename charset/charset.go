// Package charset resolves the configurable per-content-type character
// set knob (spec.md §6) to a golang.org/x/text decoder. UTF-8 is the
// default and needs no decoding step; ISO-8859-1, "historically common"
// per the spec and the encoding WordNet 2.x-era distributions actually
// shipped in, and Windows-1252 are the non-UTF-8 encodings wired in.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Resolve maps a charset name ("", "utf-8", "iso-8859-1", ...) to a
// decoder. An empty name means UTF-8.
func Resolve(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("charset: unsupported character set %q", name)
}

// Decode converts raw bytes read from a content type's file into a Go
// string, using the decoder for name ("" => UTF-8, the fast path that
// skips the encoding package entirely since raw bytes are already valid
// UTF-8 in that case).
func Decode(raw []byte, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return string(raw), nil
	}
	enc, err := Resolve(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("charset: decode: %w", err)
	}
	return string(out), nil
}
