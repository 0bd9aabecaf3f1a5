package paginate

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                  string
		count, size, page     int
		start, end, cur, tot  int
	}{
		{"first page", 120, 50, 1, 0, 50, 1, 3},
		{"middle page", 120, 50, 2, 50, 100, 2, 3},
		{"short last page", 120, 50, 3, 100, 120, 3, 3},
		{"page clamped high", 120, 50, 9, 100, 120, 3, 3},
		{"page clamped low", 120, 50, 0, 0, 50, 1, 3},
		{"empty input", 0, 50, 1, 0, 0, 1, 1},
		{"exact multiple", 100, 50, 2, 50, 100, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Paginate(tc.count, tc.size, tc.page)
			if w.Start != tc.start || w.End != tc.end || w.Page != tc.cur || w.TotalPages != tc.tot {
				t.Errorf("Paginate(%d,%d,%d) = %+v, want {%d %d %d %d}",
					tc.count, tc.size, tc.page, w, tc.start, tc.end, tc.cur, tc.tot)
			}
		})
	}
}

func TestPaginateWindowSize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 5000).Draw(t, "count")
		size := rapid.IntRange(1, 200).Draw(t, "size")
		page := rapid.IntRange(-3, 200).Draw(t, "page")

		w := Paginate(count, size, page)
		if w.Page < 1 || w.Page > w.TotalPages {
			t.Fatalf("page %d outside [1,%d]", w.Page, w.TotalPages)
		}
		got := w.End - w.Start
		want := count - (w.Page-1)*size
		if want > size {
			want = size
		}
		if want < 0 {
			want = 0
		}
		if got != want {
			t.Fatalf("window size %d, want %d (%+v)", got, want, w)
		}
	})
}

func tokens(ts []Token) string {
	s := ""
	for i, tk := range ts {
		if i > 0 {
			s += " "
		}
		s += tk.String()
	}
	return s
}

func TestPageRange(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{5, 20, "1 … 4 5 6 … 20"},
		{1, 20, "1 2 … 20"},
		{20, 20, "1 … 19 20"},
		{2, 20, "1 2 3 … 20"},
		{3, 20, "1 2 3 4 … 20"},
		{4, 20, "1 … 3 4 5 … 20"},
		{18, 20, "1 … 17 18 19 20"},
		{1, 1, "1"},
		{3, 5, "1 2 3 4 5"},
		{1, 7, "1 2 3 4 5 6 7"},
		{4, 8, "1 … 3 4 5 … 8"},
	}
	for _, tc := range cases {
		if got := tokens(PageRange(tc.current, tc.total)); got != tc.want {
			t.Errorf("PageRange(%d,%d) = %q, want %q", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestPageRangeInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 500).Draw(t, "total")
		current := rapid.IntRange(1, total).Draw(t, "current")

		ts := PageRange(current, total)
		if ts[0].Ellipsis || ts[0].Page != 1 {
			t.Fatalf("first token must be page 1: %v", ts)
		}
		last := ts[len(ts)-1]
		if last.Ellipsis || last.Page != total {
			t.Fatalf("last token must be page %d: %v", total, ts)
		}
		seenCurrent := false
		prevPage := 0
		for i, tk := range ts {
			if tk.Ellipsis {
				if i == 0 || ts[i-1].Ellipsis {
					t.Fatalf("consecutive or leading ellipsis: %v", ts)
				}
				continue
			}
			if tk.Page <= prevPage {
				t.Fatalf("pages not strictly increasing: %v", ts)
			}
			prevPage = tk.Page
			if tk.Page == current {
				seenCurrent = true
			}
		}
		if !seenCurrent {
			t.Fatalf("current page %d missing from %v", current, ts)
		}
		if total <= 7 && len(ts) != total {
			t.Fatalf("small totals must be contiguous: %v", ts)
		}
	})
}
