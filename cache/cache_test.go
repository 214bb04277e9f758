package cache

import (
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

func TestCacheHitsAvoidRepeatedParse(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{})
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)

	first, err := c.GetSynset(id)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := c.GetSynset(id)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Same(t, first, second, "second lookup should return the cached pointer, not a freshly parsed record")
}

func TestCacheMissPropagatesNotFound(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{})
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(999999, jwik.NOUN)
	require.NoError(t, err)
	syn, err := c.GetSynset(id)
	require.NoError(t, err)
	assert.Nil(t, syn)
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{MaxCapacity: -1})
	require.NoError(t, err)

	iw, err := c.GetIndexWord("dog", jwik.NOUN)
	require.NoError(t, err)
	require.NotNil(t, iw)
}

func TestCacheSynsetInsertCascadesToMemberWords(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{})
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)
	_, err = c.GetSynset(id)
	require.NoError(t, err)

	key, err := jwik.NewSenseKey("dog", jwik.NOUN, 5, 0, false)
	require.NoError(t, err)
	rw, ok := c.wordsByKey.Get(key)
	require.True(t, ok, "synset insert should have populated wordsByKey for its member words")
	require.NotNil(t, rw)
	assert.Equal(t, "dog", rw.Word.Lemma)
}

func TestCacheObeysFourMapSizeInvariant(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{MaxCapacity: 8})
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)
	_, err = c.GetSynset(id)
	require.NoError(t, err)

	total := c.items.Len() + c.wordsByKey.Len() + c.sensesByKey.Len() + c.arrays.Len()
	assert.LessOrEqual(t, total, 4*8)
}

func TestCachePurge(t *testing.T) {
	d := openTestDictionary(t)
	c, err := New(d, Options{})
	require.NoError(t, err)

	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)
	first, err := c.GetSynset(id)
	require.NoError(t, err)

	c.Purge()

	second, err := c.GetSynset(id)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "after Purge a lookup should re-read from the backing dictionary")
}
