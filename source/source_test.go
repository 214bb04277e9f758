package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/compare"
	"github.com/1313ou/jwik-go/contenttype"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join("..", "internal", "testdata", "wn", name)
}

func dataNounCT() *contenttype.ContentType {
	return &contenttype.ContentType{Key: contenttype.DataNoun, DataType: contenttype.DataTypeSynset, POS: jwik.NOUN, Comparator: compare.DataComparator{}}
}

func indexNounCT() *contenttype.ContentType {
	return &contenttype.ContentType{Key: contenttype.IndexNoun, DataType: contenttype.DataTypeIndex, POS: jwik.NOUN, Comparator: compare.IndexComparator{}}
}

func TestDirectAccessSourceLookup(t *testing.T) {
	s := NewDirectAccessSource(fixture(t, "data.noun"), dataNounCT())
	require.NoError(t, s.Open())
	defer s.Close()

	line, ok, err := s.Lookup("00000100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, line, "dog")

	_, ok, err = s.Lookup("00000999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectAccessSourceIterateAll(t *testing.T) {
	s := NewDirectAccessSource(fixture(t, "data.noun"), dataNounCT())
	require.NoError(t, s.Open())
	defer s.Close()

	it, err := s.IterateAll()
	require.NoError(t, err)
	lines, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "animal")
	assert.Contains(t, lines[1], "dog")
}

func TestBinarySearchSourceLookup(t *testing.T) {
	s := NewBinarySearchSource(fixture(t, "index.noun"), indexNounCT())
	require.NoError(t, s.Open())
	defer s.Close()

	line, ok, err := s.Lookup("dog")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, line, "00000100")

	line, ok, err = s.Lookup("animal")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, line, "00000050")

	_, ok, err = s.Lookup("zebra")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBinarySearchSourceIteratePrefix(t *testing.T) {
	s := NewBinarySearchSource(fixture(t, "index.noun"), indexNounCT())
	require.NoError(t, s.Open())
	defer s.Close()

	it, ok := s.IteratePrefix("do")
	require.True(t, ok)
	lines, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "dog")
}

func TestBinarySearchSourceLoadHotSwap(t *testing.T) {
	s := NewBinarySearchSource(fixture(t, "index.noun"), indexNounCT())
	require.NoError(t, s.Open())
	defer s.Close()

	it, err := s.IterateAll()
	require.NoError(t, err)
	require.True(t, it.HasNext())
	first, err := it.Next()
	require.NoError(t, err)
	assert.Contains(t, first, "animal")

	require.NoError(t, s.Load(true))
	assert.True(t, s.IsLoaded())

	require.True(t, it.HasNext())
	second, err := it.Next()
	require.NoError(t, err)
	assert.Contains(t, second, "dog")
}
