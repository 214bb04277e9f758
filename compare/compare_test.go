package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexComparatorOrdersByLemma(t *testing.T) {
	c := IndexComparator{}
	assert.Negative(t, c.Compare("animal n 1 0 1 0 00000050", "dog n 1 1 @ 1 0 00000100"))
	assert.Positive(t, c.Compare("dog n 1 1 @ 1 0 00000100", "animal n 1 0 1 0 00000050"))
	assert.Zero(t, c.Compare("dog n 1 1 @ 1 0 00000100", "dog"))
}

func TestIndexComparatorCommentsSortFirst(t *testing.T) {
	c := IndexComparator{}
	assert.Negative(t, c.Compare("  1 a header line", "dog n 1 1 @ 1 0 00000100"))
	assert.True(t, c.IsComment("  1 a header line"))
	assert.False(t, c.IsComment("dog n 1 1 @ 1 0 00000100"))
}

func TestDataComparatorOrdersNumerically(t *testing.T) {
	c := DataComparator{}
	assert.Negative(t, c.Compare("00000050 ...", "00000100 ..."))
	assert.Zero(t, c.Compare("00000100 ...", "00000100"))
}

func TestExceptionComparator(t *testing.T) {
	c := ExceptionComparator{}
	assert.Negative(t, c.Compare("dogs dog", "mice mouse"))
	assert.Zero(t, c.Compare("dogs dog", "dogs"))
}

func TestSenseKeyComparatorCaseInsensitiveByDefault(t *testing.T) {
	c := SenseKeyComparator{}
	assert.Zero(t, c.Compare("Dog%1:05:00:: 1 1 0", "dog%1:05:00:: 1 1 0"))
}

func TestFirstField(t *testing.T) {
	assert.Equal(t, "dog", FirstField("dog n 1 1 @ 1 0 00000100"))
	assert.Equal(t, "solo", FirstField("solo"))
}
