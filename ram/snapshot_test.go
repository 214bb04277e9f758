package ram

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/dict"
)

func openTestDictionary(t *testing.T) *dict.Dictionary {
	t.Helper()
	d := dict.New(dict.Options{SourcePath: filepath.Join("..", "internal", "testdata", "wn")})
	require.NoError(t, d.Open(context.Background()))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestBuildSnapshotMirrorsBackingDictionary(t *testing.T) {
	d := openTestDictionary(t)
	snap, err := Build(context.Background(), d.Provider(), d.Registry(), d)
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)
	syn, err := snap.GetSynset(id)
	require.NoError(t, err)
	require.NotNil(t, syn)
	assert.Equal(t, "a member of the genus Canis", syn.Gloss)

	iw, err := snap.GetIndexWord("animal", jwik.NOUN)
	require.NoError(t, err)
	require.NotNil(t, iw)

	key, err := jwik.NewSenseKey("dog", jwik.NOUN, 5, 0, false)
	require.NoError(t, err)
	rw, err := snap.GetWordBySenseKey(key)
	require.NoError(t, err)
	require.NotNil(t, rw)
	assert.Equal(t, "dog", rw.Word.Lemma)
}

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	d := openTestDictionary(t)
	snap, err := Build(context.Background(), d.Provider(), d.Registry(), d)
	require.NoError(t, err)

	var buf bytes.Buffer
	gen, err := snap.Export(&buf)
	require.NoError(t, err)
	assert.NotEqual(t, gen.String(), "00000000-0000-0000-0000-000000000000")

	restored, gotGen, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, gen, gotGen)

	id, err := jwik.NewSynsetID(50, jwik.NOUN)
	require.NoError(t, err)
	syn, err := restored.GetSynset(id)
	require.NoError(t, err)
	require.NotNil(t, syn)
	assert.Equal(t, "a living organism", syn.Gloss)
}

func TestHotSwapIteratorReplaysLastItem(t *testing.T) {
	backing := &sliceSeq[int]{items: []int{1, 2, 3, 4}}
	ready := false
	snap := &sliceSeq[int]{items: []int{1, 2, 3, 4, 5}}

	hs := NewHotSwapIterator[int](backing, func() (sequence[int], bool) {
		if !ready {
			return nil, false
		}
		return snap, true
	}, func(a, b int) bool { return a == b })

	require.True(t, hs.HasNext())
	v, err := hs.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = hs.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	ready = true // snapshot becomes available mid-iteration; must replay to "2" first

	var rest []int
	for hs.HasNext() {
		v, err := hs.Next()
		require.NoError(t, err)
		rest = append(rest, v)
	}
	require.NoError(t, hs.Err())
	assert.Equal(t, []int{3, 4, 5}, rest)
}

func TestHotSwapIteratorSignalsInconsistencyWhenLastIsGone(t *testing.T) {
	backing := &sliceSeq[int]{items: []int{1, 2}}
	ready := false
	snap := &sliceSeq[int]{items: []int{3, 4}} // "2" no longer present

	hs := NewHotSwapIterator[int](backing, func() (sequence[int], bool) {
		if !ready {
			return nil, false
		}
		return snap, true
	}, func(a, b int) bool { return a == b })
	_, err := hs.Next()
	require.NoError(t, err)
	v, err := hs.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	ready = true // snapshot becomes available after "2" was served

	assert.False(t, hs.HasNext())
	assert.ErrorIs(t, hs.Err(), jwik.ErrInconsistentState)
}
