package contenttype

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwik "github.com/1313ou/jwik-go"
)

func TestNewRegistryHasFourteenEntries(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.All(), 14)
}

func TestGetByPOS(t *testing.T) {
	r := NewRegistry()
	ct, err := r.GetData(jwik.NOUN)
	require.NoError(t, err)
	assert.Equal(t, DataNoun, ct.Key)

	ct, err = r.GetIndex(jwik.VERB)
	require.NoError(t, err)
	assert.Equal(t, IndexVerb, ct.Key)

	ct, err = r.GetException(jwik.ADJECTIVE)
	require.NoError(t, err)
	assert.Equal(t, ExceptionAdj, ct.Key)
}

func TestAliasResolves(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Alias("NOUN_INDEX", IndexNoun))
	ct, err := r.Get("NOUN_INDEX")
	require.NoError(t, err)
	assert.Equal(t, IndexNoun, ct.Key)
}

func TestMutationRejectedOnceOpen(t *testing.T) {
	r := NewRegistry()
	r.MarkOpen()
	assert.ErrorIs(t, r.SetCharset(DataNoun, "ISO-8859-1"), jwik.ErrObjectOpen)
	assert.ErrorIs(t, r.Alias("X", IndexNoun), jwik.ErrObjectOpen)
}

func TestSetMatcherOverridesFilenameHints(t *testing.T) {
	r := NewRegistry()
	re := regexp.MustCompile(`^wn-nouns\.dat$`)
	require.NoError(t, r.SetMatcher(DataNoun, re))
	got, ok := r.Matcher(DataNoun)
	require.True(t, ok)
	assert.True(t, got.MatchString("wn-nouns.dat"))
}

func TestFilenameHints(t *testing.T) {
	r := NewRegistry()
	ct, err := r.GetData(jwik.NOUN)
	require.NoError(t, err)
	assert.Contains(t, ct.FilenameHints(), "data")
}
