// Package aggregate derives secondary views from a flat list of ranked
// items: grouped displays, heat orderings, cross-platform match sets,
// and category heat leaderboards.
//
// Every function here is pure. Callers own memoization (pkg/cache) and
// state; nothing in this package reads or mutates ambient state, which
// keeps the whole layer safe for concurrent use.
package aggregate

import (
	"sort"

	"github.com/rankdeck/rankdeck/pkg/heat"
	"github.com/rankdeck/rankdeck/pkg/model"
)

// fallback labels for items the service returned without tags.
const (
	UnknownSource   = "未知来源"
	UnknownCategory = "未分类"
)

// CategoryGroup is one category bucket inside a source group.
type CategoryGroup struct {
	Category string
	Items    []model.RankedItem
}

// SourceGroup is all items of one source, bucketed by category.
// Both levels preserve first-seen insertion order: the upstream rank
// order decides which source and category appear first, not the
// alphabet.
type SourceGroup struct {
	Source     string
	Count      int
	Categories []CategoryGroup
}

// GroupBySourceCategory buckets items source → category, preserving
// first-seen order at both levels.
func GroupBySourceCategory(items []model.RankedItem) []SourceGroup {
	var groups []SourceGroup
	srcIdx := make(map[string]int)
	catIdx := make(map[string]map[string]int)

	for _, it := range items {
		src := it.SourceName
		if src == "" {
			src = UnknownSource
		}
		cat := it.Category
		if cat == "" {
			cat = UnknownCategory
		}

		si, ok := srcIdx[src]
		if !ok {
			si = len(groups)
			srcIdx[src] = si
			catIdx[src] = make(map[string]int)
			groups = append(groups, SourceGroup{Source: src})
		}
		ci, ok := catIdx[src][cat]
		if !ok {
			ci = len(groups[si].Categories)
			catIdx[src][cat] = ci
			groups[si].Categories = append(groups[si].Categories, CategoryGroup{Category: cat})
		}
		groups[si].Categories[ci].Items = append(groups[si].Categories[ci].Items, it)
		groups[si].Count++
	}
	return groups
}

// SortByHeatDesc returns the items ordered by parsed heat, hottest
// first. The sort is stable: equal heat keeps the input order, so the
// upstream rank remains the tiebreak. The input slice is not modified.
func SortByHeatDesc(items []model.RankedItem) []model.RankedItem {
	type keyed struct {
		item model.RankedItem
		heat float64
	}
	pairs := make([]keyed, len(items))
	for i, it := range items {
		pairs[i] = keyed{item: it, heat: heat.Parse(it.HeatText)}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].heat > pairs[j].heat })
	out := make([]model.RankedItem, len(pairs))
	for i, p := range pairs {
		out[i] = p.item
	}
	return out
}

// CrossPlatform groups items by (title, author) and keeps titles seen on
// two or more distinct platforms. Sources are deduplicated in first-seen
// order; entries come out in the order their title first appeared.
func CrossPlatform(items []model.RankedItem) []model.CrossPlatformEntry {
	type group struct {
		entry   model.CrossPlatformEntry
		seenSrc map[string]bool
	}
	var order []model.BookKey
	groups := make(map[model.BookKey]*group)

	for _, it := range items {
		k := it.Key()
		g, ok := groups[k]
		if !ok {
			g = &group{
				entry: model.CrossPlatformEntry{
					Title:    it.Title,
					Author:   it.Author,
					Category: it.Category,
					URL:      it.URL,
				},
				seenSrc: make(map[string]bool),
			}
			groups[k] = g
			order = append(order, k)
		}
		src := it.SourceName
		if src == "" {
			src = UnknownSource
		}
		if !g.seenSrc[src] {
			g.seenSrc[src] = true
			g.entry.Sources = append(g.entry.Sources, src)
		}
		if g.entry.URL == "" {
			g.entry.URL = it.URL
		}
	}

	var out []model.CrossPlatformEntry
	for _, k := range order {
		if g := groups[k]; len(g.entry.Sources) >= 2 {
			out = append(out, g.entry)
		}
	}
	return out
}

// CategoryHeatRank builds the category leaderboard locally, for when the
// service does not pre-aggregate: per category, the top 10 items by heat
// magnitude, their summed heat, and the category's total book count.
// Categories come out descending by total heat; ties keep first-seen
// order.
func CategoryHeatRank(items []model.RankedItem) []model.CategoryHeatEntry {
	var order []string
	byCat := make(map[string][]model.RankedItem)

	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = UnknownCategory
		}
		if _, ok := byCat[cat]; !ok {
			order = append(order, cat)
		}
		byCat[cat] = append(byCat[cat], it)
	}

	entries := make([]model.CategoryHeatEntry, 0, len(order))
	for _, cat := range order {
		all := byCat[cat]
		top := SortByHeatDesc(all)
		if len(top) > 10 {
			top = top[:10]
		}
		var total float64
		for _, it := range top {
			total += heat.Parse(it.HeatText)
		}
		entries = append(entries, model.CategoryHeatEntry{
			Category:  cat,
			TotalHeat: total,
			BookCount: len(all),
			Top10:     top,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].TotalHeat > entries[j].TotalHeat })
	return entries
}
