package stem

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

func TestSimpleNounRules(t *testing.T) {
	assert.Equal(t, []string{"dog"}, Simple("dogs", jwik.NOUN))
	assert.Equal(t, []string{"boxe", "box"}, Simple("boxes", jwik.NOUN))
	assert.Equal(t, []string{"citie", "city"}, Simple("cities", jwik.NOUN))
}

func TestSimpleMergesAllRuleSetsWhenPOSIsZero(t *testing.T) {
	out := Simple("dogs", 0)
	assert.Contains(t, out, "dog")
}

func TestSimpleDedupsResults(t *testing.T) {
	out := Simple("dogs", jwik.NOUN)
	seen := map[string]bool{}
	for _, w := range out {
		require.False(t, seen[w], "duplicate stem %q", w)
		seen[w] = true
	}
}

func TestWordNetAwareStemUsesExceptionEntry(t *testing.T) {
	d := openTestDictionary(t)
	s := New(d)

	roots, err := s.Stem("dogs", jwik.NOUN)
	require.NoError(t, err)
	assert.Contains(t, roots, "dog")
}

func TestWordNetAwareStemFiltersBySimpleRulesWhenNoException(t *testing.T) {
	d := openTestDictionary(t)
	s := New(d)

	roots, err := s.Stem("animal", jwik.NOUN)
	require.NoError(t, err)
	assert.Contains(t, roots, "animal")
}

func TestWordNetAwareStemMergesAllPOSWhenZero(t *testing.T) {
	d := openTestDictionary(t)
	s := New(d)

	roots, err := s.Stem("dogs", 0)
	require.NoError(t, err)
	assert.Contains(t, roots, "dog")
}

func TestWordNetAwareStemNormalizesWhitespaceAndCase(t *testing.T) {
	d := openTestDictionary(t)
	s := New(d)

	roots, err := s.Stem("  Dogs  ", jwik.NOUN)
	require.NoError(t, err)
	assert.Contains(t, roots, "dog")
}
