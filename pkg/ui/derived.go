package ui

import (
	"github.com/rankdeck/rankdeck/pkg/aggregate"
	"github.com/rankdeck/rankdeck/pkg/cache"
	"github.com/rankdeck/rankdeck/pkg/model"
	"github.com/rankdeck/rankdeck/pkg/paginate"
)

// datasetKey identifies the active ResultSet for cache fingerprints.
type datasetKey struct {
	Scope    model.Scope
	SourceID string
	Date     string
}

func (m Model) datasetKey() datasetKey {
	return datasetKey{Scope: m.set.Scope, SourceID: m.set.SourceID, Date: m.set.Date}
}

// heatSorted returns the active items in descending heat order,
// derived client-side and memoized until the next fetch.
func (m Model) heatSorted() []model.RankedItem {
	key := cache.Fingerprint("heat-sorted", m.cache.Version(), m.datasetKey())
	return cache.GetOrCompute(m.cache, key, func() []model.RankedItem {
		return aggregate.SortByHeatDesc(m.set.Items)
	})
}

// groupedView returns the source/category grouping of the active set.
func (m Model) groupedView() []aggregate.SourceGroup {
	if !m.hasResults {
		return nil
	}
	key := cache.Fingerprint("grouped", m.cache.Version(), m.datasetKey())
	return cache.GetOrCompute(m.cache, key, func() []aggregate.SourceGroup {
		return aggregate.GroupBySourceCategory(m.set.Items)
	})
}

// groupedFlat flattens the grouping into display order so the cursor
// and pagination index the same sequence the grouped view prints.
func (m Model) groupedFlat() []model.RankedItem {
	key := cache.Fingerprint("grouped-flat", m.cache.Version(), m.datasetKey())
	return cache.GetOrCompute(m.cache, key, func() []model.RankedItem {
		var out []model.RankedItem
		for _, sg := range m.groupedView() {
			for _, cg := range sg.Categories {
				out = append(out, cg.Items...)
			}
		}
		return out
	})
}

// displayItems is the flat item sequence of the current data view.
// Empty for the category-rank view, which displays aggregate entries
// rather than items.
func (m Model) displayItems() []model.RankedItem {
	if !m.hasResults || m.dataView == ViewCategoryRank {
		return nil
	}
	if m.dataView == ViewHeatList {
		return m.heatSorted()
	}
	return m.groupedFlat()
}

// localCategoryRank aggregates the category leaderboard from the active
// set. Used when the service's precomputed endpoint is unavailable.
func (m Model) localCategoryRank() []model.CategoryHeatEntry {
	if !m.hasResults {
		return nil
	}
	key := cache.Fingerprint("category-rank", m.cache.Version(), m.datasetKey())
	return cache.GetOrCompute(m.cache, key, func() []model.CategoryHeatEntry {
		return aggregate.CategoryHeatRank(m.set.Items)
	})
}

// categoryRank prefers the service's precomputed leaderboard and falls
// back to local aggregation.
func (m Model) categoryRank() []model.CategoryHeatEntry {
	if len(m.catHeat) > 0 {
		return m.catHeat
	}
	return m.localCategoryRank()
}

func (m Model) window() paginate.Window {
	return paginate.Paginate(len(m.displayItems()), m.pageSize(), m.page)
}

// pageItems returns the visible slice for the current page.
func (m Model) pageItems() []model.RankedItem {
	return paginate.Slice(m.displayItems(), m.window())
}

// clampCursor keeps the cursor inside the current page after the page
// contents change.
func (m *Model) clampCursor() {
	n := len(m.pageItems())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
