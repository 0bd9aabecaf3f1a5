// Package trend normalizes per-title heat history into plot-ready
// series and summary statistics.
package trend

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rankdeck/rankdeck/pkg/model"
)

// Series is a chronological (oldest-first) heat history for one title,
// with duplicate dates removed, plus its summary statistics.
type Series struct {
	Points []model.TrendPoint

	Latest      float64
	First       float64
	Max         float64
	MinPositive float64 // min over positive magnitudes only; 0 when none
	Mean        float64 // mean over positive magnitudes; 0 when none
	// Change is Latest-First. Nil for single-point series, where a delta
	// would be meaningless.
	Change *float64
}

// Empty reports whether the series carries no points. An empty service
// response yields an empty Series, never an error.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Build normalizes a service-ordered history (typically newest-first)
// into an ascending series and computes its summary. Gap days are
// tolerated: points keep their dates and the chart spaces them equally.
func Build(points []model.TrendPoint) Series {
	if len(points) == 0 {
		return Series{}
	}

	ordered := make([]model.TrendPoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	// Drop duplicate dates, keeping the first occurrence per day.
	deduped := ordered[:0]
	lastDate := ""
	for _, p := range ordered {
		if p.Date == lastDate {
			continue
		}
		deduped = append(deduped, p)
		lastDate = p.Date
	}

	s := Series{Points: deduped}
	s.First = deduped[0].HeatValue
	s.Latest = deduped[len(deduped)-1].HeatValue

	var positive []float64
	for _, p := range deduped {
		if p.HeatValue > s.Max {
			s.Max = p.HeatValue
		}
		if p.HeatValue > 0 {
			positive = append(positive, p.HeatValue)
		}
	}
	if len(positive) > 0 {
		min := positive[0]
		for _, v := range positive[1:] {
			if v < min {
				min = v
			}
		}
		s.MinPositive = min
		s.Mean = stat.Mean(positive, nil)
	}

	if len(deduped) > 1 {
		change := s.Latest - s.First
		s.Change = &change
	}
	return s
}
