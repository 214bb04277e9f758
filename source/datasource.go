package source

import (
	"regexp"
	"strings"
	"sync"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/compare"
	"github.com/1313ou/jwik-go/contenttype"
)

// Version is a dictionary version string parsed out of a data source's
// comment header, if one is present (spec.md §4.4).
type Version struct {
	String string
}

var versionPattern = regexp.MustCompile(`\b(\d+\.\d+(?:\.\d+)?)\b`)

func parseVersion(headerLines []string) (Version, bool) {
	for _, l := range headerLines {
		if m := versionPattern.FindStringSubmatch(l); m != nil {
			return Version{String: m[1]}, true
		}
	}
	return Version{}, false
}

// DataSource is the random-access read contract over one file (spec.md
// §4.4): lookup by key, forward iteration, optional full load into RAM.
type DataSource interface {
	Open() error
	Close() error
	Lookup(key string) (line string, ok bool, err error)
	Iterate(fromKey string) (*LineIterator, error)
	IterateAll() (*LineIterator, error)
	Version() (Version, bool)
	Load(blocking bool) error
	IsLoaded() bool
	Path() string
	ContentType() *contenttype.ContentType
}

// base holds the fields and behavior shared by both DataSource variants:
// the per-source mutex serializing descent and hot-swap (spec.md §5), the
// current buffer plus a generation counter iterators use to detect swap,
// and lazily-resolved version info.
type base struct {
	mu      sync.Mutex
	path    string
	ct      *contenttype.ContentType
	buf     Buffer
	gen     uint64
	loaded  bool
	version Version
	hasVer  bool
	verRead bool
}

func (b *base) Path() string                          { return b.path }
func (b *base) ContentType() *contenttype.ContentType { return b.ct }

func (b *base) open() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, err := newMmapBuffer(b.path)
	if err != nil {
		return &jwik.IOError{Path: b.path, Err: err}
	}
	b.buf = buf
	b.gen++
	return nil
}

func (b *base) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf == nil {
		return nil
	}
	err := b.buf.Close()
	b.buf = nil
	return err
}

// currentBuffer returns the live buffer and its generation, under the
// per-source lock.
func (b *base) currentBuffer() ([]byte, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf == nil {
		return nil, b.gen
	}
	return b.buf.Bytes(), b.gen
}

func (b *base) IsLoaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Load reads the entire file into a heap buffer and hot-swaps it in place
// of the mmap buffer (spec.md §4.4, §5). With blocking=true the read and
// swap finish before Load returns (the file provider's background loader
// calls it this way from its own goroutine); with blocking=false Load
// starts them in a new goroutine and returns at once.
func (b *base) Load(blocking bool) error {
	do := func() error {
		heap, err := newHeapBuffer(b.path)
		if err != nil {
			return &jwik.IOError{Path: b.path, Err: err}
		}
		b.mu.Lock()
		old := b.buf
		b.buf = heap
		b.gen++
		b.loaded = true
		b.mu.Unlock()
		if old != nil {
			old.Close()
		}
		return nil
	}
	if blocking {
		return do()
	}
	go func() { _ = do() }()
	return nil
}

func (b *base) resolveVersion() {
	b.mu.Lock()
	if b.verRead {
		b.mu.Unlock()
		return
	}
	b.verRead = true
	buf := b.buf
	b.mu.Unlock()
	if buf == nil {
		return
	}
	data := buf.Bytes()
	var header []string
	pos := 0
	for len(header) < 64 && pos < len(data) {
		line, next, ok := readLineAt(data, pos)
		if !ok {
			break
		}
		if !b.ct.Comparator.IsComment(string(line)) {
			break
		}
		header = append(header, string(line))
		pos = next
	}
	if v, ok := parseVersion(header); ok {
		b.version = v
		b.hasVer = true
	}
}

func (b *base) Version() (Version, bool) {
	b.resolveVersion()
	return b.version, b.hasVer
}

// decodeLine applies the content type's charset to raw line bytes
// (spec.md §4.4 "Line reading"). UTF-8 (the default) needs no copy.
func (b *base) decodeLine(raw []byte) (string, error) {
	if b.ct.Charset == "" {
		return string(raw), nil
	}
	return decodeCharset(raw, b.ct.Charset)
}

// BinarySearchSource implements lookup-by-key via binary search over an
// alphabetically (or numerically) ordered file: index, exception, and
// sense-index files (spec.md §4.4).
type BinarySearchSource struct {
	base
}

func NewBinarySearchSource(path string, ct *contenttype.ContentType) *BinarySearchSource {
	return &BinarySearchSource{base: base{path: path, ct: ct}}
}

func (s *BinarySearchSource) Open() error  { return s.open() }
func (s *BinarySearchSource) Close() error { return s.close() }

// Lookup performs the half-open-window binary descent from spec.md §4.4:
// narrow [start,stop) until it collapses to one candidate line, comparing
// with the content type's comparator at each midpoint; a line past EOF
// compares as greater than any key.
func (s *BinarySearchSource) Lookup(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return "", false, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	start, stop := 0, len(buf)
	for stop-start > 1 {
		mid := (start + stop) / 2
		p := rewindToLineStart(buf, mid)
		raw, _, ok := readLineAt(buf, p)
		if !ok {
			stop = mid
			continue
		}
		line, err := s.decodeLine(raw)
		if err != nil {
			return "", false, err
		}
		cmp := s.ct.Comparator.Compare(line, key)
		switch {
		case cmp == 0:
			return line, true, nil
		case cmp > 0:
			stop = mid
		default:
			start = mid
		}
	}
	return "", false, nil
}

// LookupPrefixPos runs the prefix-iterator descent (spec.md §4.4): the
// same binary search, but it records the offset of the leftmost line
// whose comparator-extracted key starts with prefix, continuing to
// narrow leftward past any match to find the earliest one. getWords uses
// this to seed forward iteration.
func (s *BinarySearchSource) LookupPrefixPos(prefix string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return 0, false
	}
	buf := s.buf.Bytes()
	start, stop := 0, len(buf)
	recorded, found := 0, false
	lowerPrefix := strings.ToLower(prefix)
	for stop-start > 1 {
		mid := (start + stop) / 2
		p := rewindToLineStart(buf, mid)
		raw, _, ok := readLineAt(buf, p)
		if !ok {
			stop = mid
			continue
		}
		line, err := s.decodeLine(raw)
		if err != nil || s.ct.Comparator.IsComment(line) {
			start = mid
			continue
		}
		field := strings.ToLower(compare.FirstField(line))
		if strings.HasPrefix(field, lowerPrefix) {
			recorded, found = p, true
			stop = mid
			continue
		}
		if strings.Compare(field, lowerPrefix) > 0 {
			stop = mid
		} else {
			start = mid
		}
	}
	return recorded, found
}

// Iterate starts a forward line iterator. If fromKey is non-empty, it
// first locates fromKey with Lookup and starts there; otherwise iteration
// starts at the beginning of the file, skipping comments.
func (s *BinarySearchSource) Iterate(fromKey string) (*LineIterator, error) {
	if fromKey == "" {
		return s.IterateAll()
	}
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return nil, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	gen := s.gen
	s.mu.Unlock()

	start, stop := 0, len(buf)
	pos := -1
	for stop-start > 1 {
		mid := (start + stop) / 2
		p := rewindToLineStart(buf, mid)
		raw, _, ok := readLineAt(buf, p)
		if !ok {
			stop = mid
			continue
		}
		line, err := s.decodeLine(raw)
		if err != nil {
			return nil, err
		}
		cmp := s.ct.Comparator.Compare(line, fromKey)
		switch {
		case cmp == 0:
			pos = p
			stop = mid
		case cmp > 0:
			stop = mid
		default:
			start = mid
		}
	}
	if pos < 0 {
		pos = rewindToLineStart(buf, start)
	}
	return newLineIterator(&s.base, buf, gen, pos, true), nil
}

// IteratePrefix starts iteration at the leftmost line whose key starts
// with prefix (spec.md §4.4's getWords support), or returns ok=false if
// no line has that prefix.
func (s *BinarySearchSource) IteratePrefix(prefix string) (*LineIterator, bool) {
	pos, found := s.LookupPrefixPos(prefix)
	if !found {
		return nil, false
	}
	s.mu.Lock()
	buf := s.buf.Bytes()
	gen := s.gen
	s.mu.Unlock()
	return newLineIterator(&s.base, buf, gen, pos, true), true
}

func (s *BinarySearchSource) IterateAll() (*LineIterator, error) {
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return nil, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	gen := s.gen
	s.mu.Unlock()
	return newLineIterator(&s.base, buf, gen, 0, true), nil
}

// DirectAccessSource implements lookup-by-offset for data.<pos> files:
// the key is parsed as a decimal byte offset, the buffer positioned
// there directly, and the resulting line checked to actually begin with
// that offset (spec.md §4.4), guarding against an index desynchronized by
// a CRLF/LF line-ending mismatch.
type DirectAccessSource struct {
	base
}

func NewDirectAccessSource(path string, ct *contenttype.ContentType) *DirectAccessSource {
	return &DirectAccessSource{base: base{path: path, ct: ct}}
}

func (s *DirectAccessSource) Open() error  { return s.open() }
func (s *DirectAccessSource) Close() error { return s.close() }

func (s *DirectAccessSource) Lookup(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return "", false, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	offset, err := parseOffsetKey(key)
	if err != nil {
		return "", false, err
	}
	if offset < 0 || offset >= len(buf) {
		return "", false, nil
	}
	raw, _, ok := readLineAt(buf, offset)
	if !ok {
		return "", false, nil
	}
	line, err := s.decodeLine(raw)
	if err != nil {
		return "", false, err
	}
	if !strings.HasPrefix(line, key) {
		return "", false, nil
	}
	return line, true, nil
}

func (s *DirectAccessSource) Iterate(fromKey string) (*LineIterator, error) {
	if fromKey == "" {
		return s.IterateAll()
	}
	offset, err := parseOffsetKey(fromKey)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return nil, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	gen := s.gen
	s.mu.Unlock()
	return newLineIterator(&s.base, buf, gen, offset, true), nil
}

func (s *DirectAccessSource) IterateAll() (*LineIterator, error) {
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return nil, jwik.ErrObjectClosed
	}
	buf := s.buf.Bytes()
	gen := s.gen
	s.mu.Unlock()
	return newLineIterator(&s.base, buf, gen, 0, true), nil
}

func parseOffsetKey(key string) (int, error) {
	n := 0
	if key == "" {
		return 0, &jwik.InvalidArgumentError{Argument: "offset", Reason: "empty"}
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, &jwik.InvalidArgumentError{Argument: "offset", Reason: "not decimal: " + key}
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
