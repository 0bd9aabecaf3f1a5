// Package paginate computes visible windows and compact page-index
// ranges for sorted sequences.
package paginate

import "fmt"

// Window is the visible slice of a paginated sequence. Start and End are
// half-open indices into the source slice; Page is clamped into
// [1, TotalPages].
type Window struct {
	Start      int
	End        int
	Page       int
	TotalPages int
}

// Paginate computes the window for the requested page. TotalPages is at
// least 1 even for an empty sequence (page 1 showing nothing).
func Paginate(count, pageSize, page int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	total := (count + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}
	return Window{Start: start, End: end, Page: page, TotalPages: total}
}

// Slice applies the window to items.
func Slice[T any](items []T, w Window) []T {
	return items[w.Start:w.End]
}

// Token is one element of a compact page range: a page number or an
// ellipsis gap marker.
type Token struct {
	Page     int
	Ellipsis bool
}

func (t Token) String() string {
	if t.Ellipsis {
		return "…"
	}
	return fmt.Sprintf("%d", t.Page)
}

// PageRange produces the conventional "1 … 4 5 6 … 20" window: first and
// last page always, current±1, and a single ellipsis bridging any gap
// wider than one. Totals of 7 or fewer come back contiguous with no
// ellipsis.
func PageRange(current, total int) []Token {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= 7 {
		out := make([]Token, total)
		for i := range out {
			out[i] = Token{Page: i + 1}
		}
		return out
	}

	keep := func(p int) bool {
		return p == 1 || p == total || (p >= current-1 && p <= current+1)
	}

	var out []Token
	prev := 0
	for p := 1; p <= total; p++ {
		if !keep(p) {
			continue
		}
		if prev > 0 && p-prev > 1 {
			out = append(out, Token{Ellipsis: true})
		}
		out = append(out, Token{Page: p})
		prev = p
	}
	return out
}
