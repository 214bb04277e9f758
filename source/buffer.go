// Package source implements random-access reading over one WordNet-format
// file: binary search by key, direct seek by byte offset, and forward
// line iteration (spec.md §4.4). Buffers are memory-mapped read-only
// views (golang.org/x/sys/unix.Mmap), hot-swappable to a heap-backed copy
// once a source is fully loaded (spec.md §5).
package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Buffer is a read-only byte view over a data source's file. Both the
// memory-mapped and heap-backed implementations satisfy it, so hot-swap
// (spec.md §5) is just replacing which Buffer a source currently holds.
type Buffer interface {
	Bytes() []byte
	Close() error
}

// mmapBuffer memory-maps a file read-only for its lifetime.
type mmapBuffer struct {
	data []byte
	file *os.File
}

func newMmapBuffer(path string) (*mmapBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &mmapBuffer{data: nil, file: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mmapBuffer{data: data, file: f}, nil
}

func (b *mmapBuffer) Bytes() []byte { return b.data }

func (b *mmapBuffer) Close() error {
	var err error
	if b.data != nil {
		err = unix.Munmap(b.data)
	}
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// heapBuffer is a plain in-memory copy, installed in place of an
// mmapBuffer once DataSource.Load(true) completes (spec.md §4.4, §5).
type heapBuffer struct {
	data []byte
}

func newHeapBuffer(path string) (*heapBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &heapBuffer{data: data}, nil
}

func (b *heapBuffer) Bytes() []byte { return b.data }
func (b *heapBuffer) Close() error  { return nil }

// readLineAt reads bytes from buf starting at pos until the next '\n',
// '\r', or '\r\n' terminator (spec.md §4.4 "Line reading"). It returns the
// line without the terminator and the position immediately past it. ok is
// false if pos is already at the end of the buffer.
func readLineAt(buf []byte, pos int) (line []byte, next int, ok bool) {
	if pos < 0 || pos >= len(buf) {
		return nil, pos, false
	}
	i := pos
	for i < len(buf) && buf[i] != '\n' && buf[i] != '\r' {
		i++
	}
	line = buf[pos:i]
	next = i
	if i < len(buf) {
		if buf[i] == '\r' && i+1 < len(buf) && buf[i+1] == '\n' {
			next = i + 2
		} else {
			next = i + 1
		}
	}
	return line, next, true
}

// rewindToLineStart walks backward from pos to the start of the line pos
// falls within (spec.md §4.4 "Rewind-to-line-start"). If the two bytes at
// (pos-1, pos) are "\r\n", pos is first moved back by one so the scan
// doesn't stop on the '\n' half of that pair.
func rewindToLineStart(buf []byte, pos int) int {
	if pos > len(buf) {
		pos = len(buf)
	}
	if pos >= 1 && pos < len(buf) && buf[pos-1] == '\r' && buf[pos] == '\n' {
		pos--
	}
	i := pos
	for i > 0 && buf[i-1] != '\n' && buf[i-1] != '\r' {
		i--
	}
	return i
}
