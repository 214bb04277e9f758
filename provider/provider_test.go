package provider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1313ou/jwik-go/contenttype"
)

func testdataDir() string {
	return filepath.Join("..", "internal", "testdata", "wn")
}

func TestProviderOpenDiscoversOnlyPresentFiles(t *testing.T) {
	registry := contenttype.NewRegistry()
	p := New(testdataDir(), registry)
	require.NoError(t, p.Open(context.Background()))
	defer p.Close()

	_, ok := p.Get(contenttype.DataNoun)
	assert.True(t, ok)
	_, ok = p.Get(contenttype.IndexNoun)
	assert.True(t, ok)
	_, ok = p.Get(contenttype.ExceptionNoun)
	assert.True(t, ok)
	_, ok = p.Get(contenttype.Sense)
	assert.True(t, ok)

	_, ok = p.Get(contenttype.DataVerb)
	assert.False(t, ok, "no verb fixture file exists; provider should skip it rather than fail open")
}

func TestProviderDataNounUsesDirectAccess(t *testing.T) {
	registry := contenttype.NewRegistry()
	p := New(testdataDir(), registry)
	require.NoError(t, p.Open(context.Background()))
	defer p.Close()

	ds, ok := p.Get(contenttype.DataNoun)
	require.True(t, ok)
	line, found, err := ds.Lookup("00000100")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, line, "dog")
}

func TestProviderRejectsDoubleOpen(t *testing.T) {
	registry := contenttype.NewRegistry()
	p := New(testdataDir(), registry)
	require.NoError(t, p.Open(context.Background()))
	defer p.Close()
	assert.Error(t, p.Open(context.Background()))
}

func TestProviderCloseIsIdempotent(t *testing.T) {
	registry := contenttype.NewRegistry()
	p := New(testdataDir(), registry)
	require.NoError(t, p.Open(context.Background()))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, p.IsOpen())
}
