package ram

import (
	"sync"

	jwik "github.com/1313ou/jwik-go"
)

// sequence is the minimal shape a hot-swappable iterator wraps: the
// facade's backing-dictionary iterators (source.LineIterator decorated
// with a parser) and Snapshot's own map-backed iterators both qualify.
type sequence[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// HotSwapIterator wraps a backing-dictionary iterator and transparently
// switches to an in-memory snapshot iterator once one becomes available,
// replaying forward to the last item already returned so no element is
// repeated or skipped (spec.md §4.8).
type HotSwapIterator[T any] struct {
	mu       sync.Mutex
	inner    sequence[T]
	snapshot func() (sequence[T], bool)
	equal    func(a, b T) bool

	last    T
	hasLast bool
	swapped bool
	err     error
}

// NewHotSwapIterator builds a HotSwapIterator starting from inner.
// snapshot is polled before every HasNext/Next call; once it returns
// (seq, true), the iterator switches to seq permanently. equal decides
// when a snapshot item matches the last item yielded by inner.
func NewHotSwapIterator[T any](inner sequence[T], snapshot func() (sequence[T], bool), equal func(a, b T) bool) *HotSwapIterator[T] {
	return &HotSwapIterator[T]{inner: inner, snapshot: snapshot, equal: equal}
}

func (h *HotSwapIterator[T]) maybeSwap() {
	if h.swapped || h.err != nil {
		return
	}
	snap, ready := h.snapshot()
	if !ready {
		return
	}
	if !h.hasLast {
		h.inner = snap
		h.swapped = true
		return
	}
	for snap.HasNext() {
		v, err := snap.Next()
		if err != nil {
			h.err = err
			return
		}
		if h.equal(v, h.last) {
			h.inner = snap
			h.swapped = true
			return
		}
	}
	h.err = jwik.ErrInconsistentState
}

// HasNext reports whether another item is available, swapping to the
// snapshot first if one has become ready.
func (h *HotSwapIterator[T]) HasNext() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maybeSwap()
	if h.err != nil {
		return false
	}
	return h.inner.HasNext()
}

// Next returns the next item, recording it as last for future swaps.
func (h *HotSwapIterator[T]) Next() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maybeSwap()
	if h.err != nil {
		var zero T
		return zero, h.err
	}
	v, err := h.inner.Next()
	if err != nil {
		h.err = err
		var zero T
		return zero, err
	}
	h.last, h.hasLast = v, true
	return v, nil
}

// Err returns the first error encountered, including ErrInconsistentState
// if the snapshot swap could not relocate the last item yielded.
func (h *HotSwapIterator[T]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
