package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwik "github.com/1313ou/jwik-go"
)

func TestParseDataLine(t *testing.T) {
	line := "00000100 05 n 02 dog 0 domestic_dog 0 001 @ 00000050 n 0000 | a member of the genus Canis"
	syn, err := ParseDataLine(line)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), syn.ID.Offset)
	assert.Equal(t, jwik.NOUN, syn.ID.POS)
	assert.False(t, syn.Satellite)
	assert.Equal(t, "a member of the genus Canis", syn.Gloss)
	require.Len(t, syn.Words, 2)
	assert.Equal(t, "dog", syn.Words[0].Lemma)
	assert.Equal(t, "domestic_dog", syn.Words[1].Lemma)
	require.Contains(t, syn.Semantic, jwik.PtrHypernym)
	assert.Equal(t, uint32(50), syn.Semantic[jwik.PtrHypernym][0].Offset)
}

func TestParseDataLineRejectsMissingGloss(t *testing.T) {
	_, err := ParseDataLine("00000100 05 n 01 dog 0 000")
	require.Error(t, err)
	var mfe *jwik.MisformattedLineError
	assert.ErrorAs(t, err, &mfe)
}

func TestParseDataLineAdjectiveMarker(t *testing.T) {
	line := "00000200 00 a 01 quick(ip) 0 000 | moving fast"
	syn, err := ParseDataLine(line)
	require.NoError(t, err)
	require.Len(t, syn.Words, 1)
	assert.True(t, syn.Words[0].HasAdjMarker)
	assert.Equal(t, "ip", syn.Words[0].AdjMarker)
}

func TestParseDataLineRejectsAdjMarkerOnNoun(t *testing.T) {
	_, err := ParseDataLine("00000300 05 n 01 dog(ip) 0 000 | x")
	require.Error(t, err)
}

func TestParseIndexLine(t *testing.T) {
	iw, err := ParseIndexLine("dog n 1 1 @ 1 0 00000100")
	require.NoError(t, err)
	assert.Equal(t, "dog", iw.ID.Lemma)
	assert.Equal(t, jwik.NOUN, iw.ID.POS)
	require.Len(t, iw.WordIDs, 1)
	assert.Equal(t, uint32(100), iw.WordIDs[0].Synset.Offset)
	assert.True(t, iw.PointerKinds[jwik.PtrHypernym])
}

func TestParseExceptionLine(t *testing.T) {
	proxy, err := ParseExceptionLine("dogs dog")
	require.NoError(t, err)
	assert.Equal(t, "dogs", proxy.Surface)
	assert.Equal(t, []string{"dog"}, proxy.RootForms)
}

func TestParseSenseIndexLine(t *testing.T) {
	entry, err := ParseSenseIndexLine("dog%1:05:00:: 00000100 1 0")
	require.NoError(t, err)
	assert.Equal(t, "dog", entry.SenseKey.Lemma)
	assert.Equal(t, uint32(100), entry.SynsetOffset)
	assert.Equal(t, 1, entry.SenseNumber)
}

func TestParseSenseIndexLineSatelliteNeedsHead(t *testing.T) {
	entry, err := ParseSenseIndexLine("fast%5:00:01:quick:00 00000200 3 0")
	require.NoError(t, err)
	assert.True(t, entry.SenseKey.Satellite)
	lemma, lexID, ok := entry.SenseKey.Head()
	require.True(t, ok)
	assert.Equal(t, "quick", lemma)
	assert.Equal(t, 0, lexID)
}
