// Package heat converts platform heat labels into comparable magnitudes.
//
// Platforms report heat as localized text ("169.4万", "在读：3.2万",
// "6388人气"). Parse extracts the numeric token and applies the
// ten-thousand multiplier when the 万 marker follows it. Heat is a
// ranking hint, not a correctness-critical value: malformed input
// degrades to 0 instead of erroring.
package heat

import (
	"regexp"
	"strconv"
	"strings"
)

var tokenRe = regexp.MustCompile(`^([0-9.]+)\s*(万)?`)

// Wan is the ten-thousand multiplier applied by the 万 unit marker.
const Wan = 10_000

// Parse returns the numeric magnitude of a heat label. It is total:
// empty, missing, or non-numeric input yields 0.
func Parse(label string) float64 {
	if label == "" {
		return 0
	}
	// Drop any leading non-numeric prefix ("在读：", "热度 ", punctuation).
	start := strings.IndexFunc(label, func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '.'
	})
	if start < 0 {
		return 0
	}
	m := tokenRe.FindStringSubmatch(label[start:])
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Trim(m[1], "."), 64)
	if err != nil || v < 0 {
		return 0
	}
	if m[2] != "" {
		v *= Wan
	}
	return v
}

// Format renders a magnitude the way the dashboard labels axes: "X万"
// for values at or above ten thousand, a plain rounded integer below.
func Format(v float64) string {
	if v >= Wan {
		s := strconv.FormatFloat(v/Wan, 'f', 1, 64)
		s = strings.TrimSuffix(s, ".0")
		return s + "万"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
