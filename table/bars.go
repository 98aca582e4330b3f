package table

import (
	"math"
	"strings"
)

const (
	barSegment = "█"
	// negative prices get a single marker instead of a bar
	negativeMarker = "▾"
	// quarter min/max positions within an hourly bar
	rangeMarker = "▪"
)

// ScaleFor maps the highest price in scope onto the target bar width.
// A non-positive maximum would divide by zero, so it falls back to 1.
func ScaleFor(maxPrice float64, targetWidth int) float64 {
	if maxPrice <= 0 {
		return 1
	}
	return float64(targetWidth) / maxPrice
}

func barLength(price, scale float64) int {
	n := int(math.Round(price * scale))
	if n < 0 {
		return 0
	}
	return n
}

func renderBar(price, scale float64) string {
	if price < 0 {
		return negativeMarker
	}
	return strings.Repeat(barSegment, barLength(price, scale))
}

// renderBarWithRange draws an hourly bar with the quarter minimum
// marked inside it and the quarter maximum as a trailing marker past
// the bar end, both on the same scale as the bar itself.
func renderBarWithRange(price, min, max, scale float64) string {
	if price < 0 {
		return negativeMarker
	}

	bar := []rune(strings.Repeat(barSegment, barLength(price, scale)))

	minPos := barLength(min, scale)
	if len(bar) > 0 {
		if minPos >= len(bar) {
			minPos = len(bar) - 1
		}
		bar[minPos] = []rune(rangeMarker)[0]
	}

	maxPos := barLength(max, scale)
	pad := maxPos - len(bar)
	if pad < 0 {
		pad = 0
	}
	return string(bar) + strings.Repeat(" ", pad) + rangeMarker
}
