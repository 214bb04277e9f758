package dict

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwik "github.com/1313ou/jwik-go"
)

func testdataDir() string {
	return filepath.Join("..", "internal", "testdata", "wn")
}

func openTestDictionary(t *testing.T) *Dictionary {
	t.Helper()
	d := New(Options{SourcePath: testdataDir()})
	require.NoError(t, d.Open(context.Background()))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDictionaryGetIndexWord(t *testing.T) {
	d := openTestDictionary(t)
	iw, err := d.GetIndexWord("dog", jwik.NOUN)
	require.NoError(t, err)
	require.NotNil(t, iw)
	assert.Len(t, iw.WordIDs, 1)
}

func TestDictionaryGetSynset(t *testing.T) {
	d := openTestDictionary(t)
	id, err := jwik.NewSynsetID(100, jwik.NOUN)
	require.NoError(t, err)
	syn, err := d.GetSynset(id)
	require.NoError(t, err)
	require.NotNil(t, syn)
	assert.Equal(t, "a member of the genus Canis", syn.Gloss)
	assert.Len(t, syn.Words, 2)
}

func TestDictionaryGetSynsetNotFound(t *testing.T) {
	d := openTestDictionary(t)
	id, err := jwik.NewSynsetID(999999, jwik.NOUN)
	require.NoError(t, err)
	syn, err := d.GetSynset(id)
	require.NoError(t, err)
	assert.Nil(t, syn)
}

func TestDictionaryGetWordBySenseKey(t *testing.T) {
	d := openTestDictionary(t)
	key, err := jwik.NewSenseKey("dog", jwik.NOUN, 5, 0, false)
	require.NoError(t, err)
	rw, err := d.GetWordBySenseKey(key)
	require.NoError(t, err)
	require.NotNil(t, rw)
	assert.Equal(t, "dog", rw.Word.Lemma)
	assert.Equal(t, uint32(100), rw.Synset.ID.Offset)
}

func TestDictionaryGetExceptionEntry(t *testing.T) {
	d := openTestDictionary(t)
	entry, err := d.GetExceptionEntry("dogs", jwik.NOUN)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"dog"}, entry.RootForms)
}

func TestDictionaryGetWordsPrefix(t *testing.T) {
	d := openTestDictionary(t)
	words, err := d.GetWords("an", jwik.NOUN, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"animal"}, words)
}

func TestDictionaryRejectsOperationsWhenClosed(t *testing.T) {
	d := New(Options{SourcePath: testdataDir()})
	_, err := d.GetIndexWord("dog", jwik.NOUN)
	assert.ErrorIs(t, err, jwik.ErrObjectClosed)
}

func TestDictionaryOpenTwiceFails(t *testing.T) {
	d := openTestDictionary(t)
	assert.ErrorIs(t, d.Open(context.Background()), jwik.ErrObjectOpen)
}

func TestDictionarySynsetIterator(t *testing.T) {
	d := openTestDictionary(t)
	it, err := d.GetSynsetIterator(jwik.NOUN)
	require.NoError(t, err)
	require.NotNil(t, it)
	var glosses []string
	for it.HasNext() {
		syn, err := it.Next()
		require.NoError(t, err)
		glosses = append(glosses, syn.Gloss)
	}
	assert.Len(t, glosses, 2)
}
