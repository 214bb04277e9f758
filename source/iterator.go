package source

// LineIterator is a forward, read-only sequence of lines starting at a
// given byte position, skipping comment-header lines via the content
// type's comparator (spec.md §4.4). It holds its own private view onto
// the underlying bytes and does not lock the backing source's mutex while
// advancing (spec.md §5) — only while detecting and following a hot-swap
// of the parent buffer (mmap -> heap, spec.md §4.4 "Iterators").
type LineIterator struct {
	src          *base
	buf          []byte
	gen          uint64
	pos          int
	skipComments bool

	primed   bool
	nextLine string
	nextOK   bool
	err      error
}

func newLineIterator(src *base, buf []byte, gen uint64, pos int, skipComments bool) *LineIterator {
	return &LineIterator{src: src, buf: buf, gen: gen, pos: pos, skipComments: skipComments}
}

// refresh re-derives the iterator's private view if the parent source's
// buffer has been hot-swapped since the last read (identity comparison by
// generation counter, per spec.md §5). The byte position carries over
// unchanged: a hot-swap always replaces the buffer with an exact copy of
// the same file contents, so the same offset still denotes the same byte.
func (it *LineIterator) refresh() {
	buf, gen := it.src.currentBuffer()
	if gen != it.gen {
		it.buf = buf
		it.gen = gen
	}
}

func (it *LineIterator) fill() {
	if it.primed {
		return
	}
	it.primed = true
	it.refresh()
	for {
		raw, next, ok := readLineAt(it.buf, it.pos)
		if !ok {
			it.nextOK = false
			return
		}
		line, err := it.src.decodeLine(raw)
		if err != nil {
			it.err = err
			it.nextOK = false
			return
		}
		it.pos = next
		if it.skipComments && it.src.ct.Comparator.IsComment(line) {
			continue
		}
		it.nextLine = line
		it.nextOK = true
		return
	}
}

// HasNext reports whether another line is available.
func (it *LineIterator) HasNext() bool {
	it.fill()
	return it.err == nil && it.nextOK
}

// Next returns the next line and advances the iterator. Calling Next
// after HasNext returns false returns an empty line and a nil error (or
// the stored error, if advancing failed).
func (it *LineIterator) Next() (string, error) {
	it.fill()
	if it.err != nil {
		return "", it.err
	}
	if !it.nextOK {
		return "", nil
	}
	line := it.nextLine
	it.primed = false
	return line, nil
}

// Err returns the first error encountered while advancing, if any.
func (it *LineIterator) Err() error { return it.err }

// Collect drains the iterator into a slice; intended for tests and small
// fixtures, not production hot paths.
func (it *LineIterator) Collect() ([]string, error) {
	var out []string
	for it.HasNext() {
		line, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, line)
	}
	return out, it.Err()
}
