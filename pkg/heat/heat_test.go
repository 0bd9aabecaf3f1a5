package heat

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	cases := []struct {
		label string
		want  float64
	}{
		{"169.4万", 1694000},
		{"在读：3.2万", 32000},
		{"在读：6388", 6388},
		{"6388人气", 6388},
		{"387.9万字", 3879000},
		{"15938", 15938},
		{"0", 0},
		{"", 0},
		{"暂无数据", 0},
		{"万", 0},
		{"热度：", 0},
		{"1.5 万", 15000},
	}
	for _, tc := range cases {
		if got := Parse(tc.label); got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestParseNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "label")
		if v := Parse(s); v < 0 {
			t.Fatalf("Parse(%q) = %v, negative", s, v)
		}
	})
}

func TestParseScalesByWan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		whole := rapid.IntRange(0, 9999).Draw(t, "whole")
		frac := rapid.IntRange(0, 9).Draw(t, "frac")
		prefix := rapid.SampledFrom([]string{"", "在读：", "热度 "}).Draw(t, "prefix")

		base := fmt.Sprintf("%d.%d", whole, frac)
		plain := Parse(prefix + base)
		scaled := Parse(prefix + base + "万")
		if scaled != plain*Wan {
			t.Fatalf("Parse(%q万) = %v, want %v", base, scaled, plain*Wan)
		}
	})
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{1694000, "169.4万"},
		{32000, "3.2万"},
		{10000, "1万"},
		{6388, "6388"},
		{0, "0"},
		{9999.4, "9999"},
	}
	for _, tc := range cases {
		if got := Format(tc.v); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}
