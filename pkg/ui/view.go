package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rankdeck/rankdeck/pkg/heat"
	"github.com/rankdeck/rankdeck/pkg/model"
	"github.com/rankdeck/rankdeck/pkg/paginate"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(renderHelp(m.width))
		return b.String()
	}
	if m.settings != nil {
		b.WriteString(m.settings.View())
		b.WriteString("\n")
		b.WriteString(m.renderToasts())
		return b.String()
	}

	switch m.tab {
	case TabDashboard:
		b.WriteString(m.renderDashboard())
	default:
		b.WriteString(m.renderRank())
	}

	if t := m.renderToasts(); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("rankdeck")

	var tabs []string
	for t := TabDashboard; t < numTabs; t++ {
		if t == m.tab {
			tabs = append(tabs, tabActiveStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}

	right := ""
	if m.hasResults && m.set.Date != "" {
		right = headerStyle.Render(m.set.Date)
	}
	if m.fetchBusy {
		right = m.spin.View() + headerStyle.Render("抓取中")
	}

	left := title + "  " + strings.Join(tabs, "")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderRank() string {
	var b strings.Builder

	b.WriteString(m.renderSourceChips())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")

	if !m.hasResults {
		if m.fetchBusy {
			b.WriteString(mutedStyle.Render("正在抓取榜单…"))
		} else {
			b.WriteString(mutedStyle.Render("按 enter 抓取榜单，? 查看快捷键"))
		}
		return b.String()
	}

	b.WriteString(m.renderStatsLine())
	b.WriteString("\n")

	switch m.dataView {
	case ViewCategoryRank:
		b.WriteString(m.renderCategoryRank())
	default:
		b.WriteString(m.renderItemList())
		b.WriteString("\n")
		b.WriteString(m.renderPagination())
	}

	if m.trendTitle != "" || m.trendBusy {
		b.WriteString("\n")
		if m.trendBusy {
			b.WriteString(mutedStyle.Render("加载趋势…"))
		} else {
			b.WriteString(renderTrendPanel(m.trendTitle, m.trendSeries, m.width-2, 10))
		}
	}
	return b.String()
}

func (m Model) renderSourceChips() string {
	chips := make([]string, 0, len(m.sources)+1)

	all := "全部来源"
	if m.sourceIdx < 0 {
		chips = append(chips, chipActiveStyle.Render(all))
	} else {
		chips = append(chips, chipStyle.Render(all))
	}
	for i, s := range m.sources {
		label := s.Name
		if s.HasToday {
			// Dot marks sources that already have data today.
			label += " ●"
		}
		if i == m.sourceIdx {
			chips = append(chips, chipActiveStyle.Render(label))
		} else {
			chips = append(chips, chipStyle.Render(label))
		}
	}
	return strings.Join(chips, " ")
}

func (m Model) renderFilterLine() string {
	sort := "排名序"
	if m.sortByHeat {
		sort = "热度序"
	}
	parts := []string{
		"频道 " + genderFilterLabel(m.gender),
		"榜单 " + m.period.Display(),
		"视图 " + m.dataView.String(),
		"排序 " + sort,
	}
	if m.categoryFilter != "" {
		parts = append(parts, "分类 "+m.categoryFilter)
	}
	return headerStyle.Render(strings.Join(parts, " · "))
}

func genderFilterLabel(g model.Gender) string {
	if g == model.GenderUnknown {
		return "全部"
	}
	return g.Display()
}

// renderStatsLine summarizes the active set the way the fetch toast
// cannot: total, category count, freshness, elapsed time.
func (m Model) renderStatsLine() string {
	cats := map[string]struct{}{}
	for _, it := range m.set.Items {
		cats[it.Category] = struct{}{}
	}
	parts := []string{
		fmt.Sprintf("共 %s 条", formatCount(len(m.set.Items))),
		fmt.Sprintf("%d 个分类", len(cats)),
	}
	if m.set.FromCache {
		parts = append(parts, "当日缓存")
	}
	if m.lastElapsed > 0 {
		parts = append(parts, fmt.Sprintf("耗时 %dms", m.lastElapsed.Milliseconds()))
	}
	return statsStyle.Render(strings.Join(parts, " · "))
}

func (m Model) renderItemList() string {
	items := m.pageItems()
	if len(items) == 0 {
		return mutedStyle.Render("没有符合条件的条目")
	}

	var maxHeat float64
	if m.dataView == ViewHeatList {
		for _, it := range items {
			if v := heat.Parse(it.HeatText); v > maxHeat {
				maxHeat = v
			}
		}
	}

	var b strings.Builder
	prevSource, prevCategory := "", ""
	for i, it := range items {
		if m.dataView == ViewGrouped {
			src := it.SourceName
			if src != prevSource {
				if i > 0 {
					b.WriteString("\n")
				}
				b.WriteString(groupHeaderStyle.Render("▌ " + src))
				b.WriteString("\n")
				prevSource = src
				prevCategory = ""
			}
			if it.Category != prevCategory {
				b.WriteString(categoryHeaderStyle.Render("  " + it.Category))
				b.WriteString("\n")
				prevCategory = it.Category
			}
		}
		b.WriteString(m.renderItemRow(it, i == m.cursor, maxHeat))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderItemRow(it model.RankedItem, selected bool, maxHeat float64) string {
	titleWidth := 28
	if m.width >= 110 {
		titleWidth = 36
	}

	cols := []string{
		RenderRankBadge(it.Rank),
		padWidth(truncateWidth(it.Title, titleWidth), titleWidth),
		padWidth(truncateWidth(it.Author, 12), 12),
		RenderGenderBadge(it.Gender),
	}
	if it.HeatText != "" {
		cols = append(cols, heatStyle.Render(padWidth(it.HeatText, 8)))
	} else {
		cols = append(cols, padWidth("", 8))
	}
	if m.dataView == ViewHeatList {
		cols = append(cols, RenderHeatBar(heat.Parse(it.HeatText), maxHeat, 12))
	} else if it.LatestChapter != "" {
		cols = append(cols, mutedStyle.Render(truncateWidth(it.LatestChapter, 24)))
	}

	row := " " + strings.Join(cols, " ")
	if selected {
		return rowSelectedStyle.Render("▸" + row[1:])
	}
	return rowStyle.Render(row)
}

func (m Model) renderCategoryRank() string {
	entries := m.categoryRank()
	if len(entries) == 0 {
		return mutedStyle.Render("暂无分类热度数据")
	}

	var b strings.Builder
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			RenderRankBadge(i+1),
			padWidth(truncateWidth(e.Category, 14), 14),
			heatStyle.Render(padWidth(heat.Format(e.TotalHeat), 10)),
			mutedStyle.Render(fmt.Sprintf("%d 本", e.BookCount)),
		))
		var top []string
		for j, it := range e.Top10 {
			if j >= 3 {
				break
			}
			top = append(top, it.Title)
		}
		if len(top) > 0 {
			b.WriteString(mutedStyle.Render("       " + strings.Join(top, " / ")))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderPagination() string {
	w := m.window()
	if w.TotalPages <= 1 {
		return mutedStyle.Render(fmt.Sprintf("%d-%d / %s",
			displayStart(w.Start, w.End), w.End, formatCount(len(m.displayItems()))))
	}

	var parts []string
	for _, tok := range paginate.PageRange(w.Page, w.TotalPages) {
		switch {
		case tok.Ellipsis:
			parts = append(parts, pageStyle.Render("…"))
		case tok.Page == w.Page:
			parts = append(parts, pageCurrentStyle.Render(itoa(tok.Page)))
		default:
			parts = append(parts, pageStyle.Render(itoa(tok.Page)))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf(" %d-%d / %s",
		displayStart(w.Start, w.End), w.End, formatCount(len(m.displayItems()))))
	return strings.Join(parts, "") + counter
}

func displayStart(start, end int) int {
	if end == 0 {
		return 0
	}
	return start + 1
}

func (m Model) renderDashboard() string {
	if !m.dashLoaded {
		return mutedStyle.Render("正在加载总览…")
	}
	d := m.dash

	var left strings.Builder
	left.WriteString(panelTitleStyle.Render("来源"))
	left.WriteString("\n")
	for _, s := range d.SourceTotals {
		left.WriteString(fmt.Sprintf("%s %s\n",
			padWidth(truncateWidth(s.SourceName, 12), 12),
			formatCount(s.Count)))
	}
	left.WriteString("\n")
	left.WriteString(panelTitleStyle.Render("频道"))
	left.WriteString("\n")
	for _, g := range d.GenderSplit {
		left.WriteString(fmt.Sprintf("%s %s\n",
			padWidth(g.Name, 12), formatCount(g.Count)))
	}

	var mid strings.Builder
	mid.WriteString(panelTitleStyle.Render("男频热度榜"))
	mid.WriteString("\n")
	mid.WriteString(renderLeaders(d.MaleLeaders))
	mid.WriteString("\n")
	mid.WriteString(panelTitleStyle.Render("女频热度榜"))
	mid.WriteString("\n")
	mid.WriteString(renderLeaders(d.FemaleLeaders))

	var right strings.Builder
	right.WriteString(panelTitleStyle.Render("多平台上榜"))
	right.WriteString("\n")
	if len(d.CrossPlatform) == 0 {
		right.WriteString(mutedStyle.Render("无"))
		right.WriteString("\n")
	}
	for i, e := range d.CrossPlatform {
		if i >= 8 {
			break
		}
		right.WriteString(fmt.Sprintf("%s %s\n",
			padWidth(truncateWidth(e.Title, 16), 16),
			mutedStyle.Render(fmt.Sprintf("%d 平台", len(e.Sources)))))
	}

	header := headerStyle.Render(fmt.Sprintf("日期 %s · 共 %s 本", d.Date, formatCount(d.TotalBooks)))

	colW := (m.width - 8) / 3
	if colW < 24 {
		colW = 24
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(colW).Render(strings.TrimRight(left.String(), "\n")),
		panelStyle.Width(colW).Render(strings.TrimRight(mid.String(), "\n")),
		panelStyle.Width(colW).Render(strings.TrimRight(right.String(), "\n")),
	)
	return header + "\n" + row
}

func renderLeaders(items []model.RankedItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("无") + "\n"
	}
	var b strings.Builder
	for i, it := range items {
		if i >= 5 {
			break
		}
		b.WriteString(fmt.Sprintf("%d. %s %s\n",
			i+1,
			padWidth(truncateWidth(it.Title, 14), 14),
			heatStyle.Render(it.HeatText)))
	}
	return b.String()
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		parts = append(parts, t.render())
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	if m.syncSettings.Enabled && m.syncSettings.SyncTime != "" {
		return footerStyle.Render(
			fmt.Sprintf("enter 抓取 · o 排序 · v 视图 · ? 帮助 · q 退出 · 定时同步 %s", m.syncSettings.SyncTime))
	}
	return footerStyle.Render("enter 抓取 · o 排序 · v 视图 · ? 帮助 · q 退出")
}
