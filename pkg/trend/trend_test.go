package trend

import (
	"testing"

	"github.com/rankdeck/rankdeck/pkg/model"
)

func pt(date string, v float64) model.TrendPoint {
	return model.TrendPoint{Date: date, HeatValue: v}
}

func TestBuildReordersNewestFirstInput(t *testing.T) {
	s := Build([]model.TrendPoint{
		pt("2026-08-30", 32000),
		pt("2026-08-29", 30000),
		pt("2026-08-27", 25000),
	})
	if s.Empty() {
		t.Fatal("series unexpectedly empty")
	}
	dates := []string{"2026-08-27", "2026-08-29", "2026-08-30"}
	for i, d := range dates {
		if s.Points[i].Date != d {
			t.Fatalf("point %d = %s, want %s", i, s.Points[i].Date, d)
		}
	}
	if s.First != 25000 || s.Latest != 32000 || s.Max != 32000 {
		t.Errorf("summary: first=%v latest=%v max=%v", s.First, s.Latest, s.Max)
	}
	if s.Change == nil || *s.Change != 7000 {
		t.Errorf("change = %v, want 7000", s.Change)
	}
}

func TestBuildDropsDuplicateDates(t *testing.T) {
	s := Build([]model.TrendPoint{
		pt("2026-08-29", 100),
		pt("2026-08-29", 200),
		pt("2026-08-28", 50),
	})
	if len(s.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(s.Points))
	}
	if s.Points[1].HeatValue != 100 {
		t.Errorf("first occurrence per date must win, got %v", s.Points[1].HeatValue)
	}
}

func TestBuildMinimumSkipsZeroDays(t *testing.T) {
	s := Build([]model.TrendPoint{
		pt("2026-08-27", 0),
		pt("2026-08-28", 6388),
		pt("2026-08-29", 32000),
	})
	if s.MinPositive != 6388 {
		t.Errorf("min positive = %v, want 6388 (zero-heat days excluded)", s.MinPositive)
	}
}

func TestBuildSinglePointHasNoChange(t *testing.T) {
	s := Build([]model.TrendPoint{pt("2026-08-29", 100)})
	if s.Change != nil {
		t.Errorf("single-point series must not report a change, got %v", *s.Change)
	}
	if s.First != 100 || s.Latest != 100 {
		t.Errorf("first/latest = %v/%v", s.First, s.Latest)
	}
}

func TestBuildEmpty(t *testing.T) {
	s := Build(nil)
	if !s.Empty() {
		t.Fatal("expected empty-state series")
	}
	if s.Change != nil {
		t.Error("empty series must not report a change")
	}
}

func TestBuildAllZeroSeries(t *testing.T) {
	s := Build([]model.TrendPoint{pt("2026-08-28", 0), pt("2026-08-29", 0)})
	if s.MinPositive != 0 || s.Mean != 0 {
		t.Errorf("all-zero series: min=%v mean=%v, want 0/0", s.MinPositive, s.Mean)
	}
}
