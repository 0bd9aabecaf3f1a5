package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// truncateWidth shortens s to at most maxWidth display cells, accounting
// for double-width CJK runes, and appends "…" when anything was cut.
func truncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// padWidth pads s with spaces up to width display cells. Titles mixing
// CJK and ASCII line up only when padding counts cells, not runes.
func padWidth(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// cellWidth is runewidth.StringWidth, named for what callers mean by it.
func cellWidth(s string) int {
	return runewidth.StringWidth(s)
}

// formatCount renders an item count with a thin thousands separator.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatDelta renders a signed heat change for the trend summary.
func formatDelta(d float64) string {
	if d >= 0 {
		return "+" + trimFloat(d)
	}
	return trimFloat(d)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	return strings.TrimSuffix(s, ".0")
}
