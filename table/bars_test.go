package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleFor(t *testing.T) {
	assert.Equal(t, 2.0, ScaleFor(10, 20))
	assert.Equal(t, 1.0, ScaleFor(0, 20), "zero maximum falls back to unit scale")
	assert.Equal(t, 1.0, ScaleFor(-3, 20), "negative maximum falls back to unit scale")
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(barSegment, 10), renderBar(5, 2))
	assert.Equal(t, "", renderBar(0, 2))
	assert.Equal(t, negativeMarker, renderBar(-0.5, 2))
}

func TestRenderBarRounds(t *testing.T) {
	// 4.4 * 2 = 8.8 rounds to 9
	assert.Equal(t, 9, strings.Count(renderBar(4.4, 2), barSegment))
	// 4.2 * 2 = 8.4 rounds to 8
	assert.Equal(t, 8, strings.Count(renderBar(4.2, 2), barSegment))
}

func TestRenderBarWithRange(t *testing.T) {
	// hour mean 5, quarters between 2 and 8, scale 2:
	// bar of 10 with the min marker at position 4 and the trailing max
	// marker at position 16
	got := renderBarWithRange(5, 2, 8, 2)
	runes := []rune(got)

	assert.Len(t, runes, 17)
	assert.Equal(t, []rune(rangeMarker)[0], runes[4])
	assert.Equal(t, []rune(rangeMarker)[0], runes[16])
	assert.Equal(t, []rune(barSegment)[0], runes[0])
	assert.Equal(t, ' ', runes[10])
}

func TestRenderBarWithRangeMinClampedIntoBar(t *testing.T) {
	// min equal to the mean would land past the last bar rune
	got := renderBarWithRange(5, 5, 5, 2)
	runes := []rune(got)
	assert.Equal(t, []rune(rangeMarker)[0], runes[9], "min marker clamps to the bar end")
	assert.Equal(t, []rune(rangeMarker)[0], runes[len(runes)-1])
}

func TestRenderBarWithRangeNegative(t *testing.T) {
	assert.Equal(t, negativeMarker, renderBarWithRange(-1, -2, 0.5, 2))
}
