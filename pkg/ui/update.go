package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rankdeck/rankdeck/internal/service"
	"github.com/rankdeck/rankdeck/pkg/debug"
	"github.com/rankdeck/rankdeck/pkg/export"
	"github.com/rankdeck/rankdeck/pkg/model"
	"github.com/rankdeck/rankdeck/pkg/trend"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The settings form needs every message type for its internal
	// field navigation, so it runs before the main switch.
	if m.settings != nil {
		switch msg.(type) {
		case tea.WindowSizeMsg, spinner.TickMsg, toastExpiredMsg:
			// Handled below; the form does not need these.
		default:
			form, cmd := m.settings.Update(msg)
			m.settings = form
			cmds = append(cmds, cmd)
			switch {
			case m.settings.Cancelled():
				m.settings = nil
			case m.settings.Done():
				s := m.settings.Result()
				m.settings = nil
				m.syncSettings = s
				cmds = append(cmds, saveSyncSettingsCmd(m.svc, s))
			}
			return m, tea.Batch(cmds...)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case overviewMsg:
		if msg.err != nil {
			return m, m.pushToast(toastError, "加载数据源失败: "+msg.err.Error())
		}
		m.dash = msg.dash
		m.dashLoaded = true
		m.sources = msg.sources
		if m.cfg.UI.DefaultSource != "" {
			for i, s := range m.sources {
				if s.ID == m.cfg.UI.DefaultSource {
					m.sourceIdx = i
					break
				}
			}
		}
		if m.sourceIdx >= 0 && m.sourceIdx < len(m.sources) {
			cmds = append(cmds, categoriesCmd(m.svc, m.sources[m.sourceIdx].ID))
		}
		// Auto-load when the service already has data for today.
		if !m.hasResults && !m.fetchBusy && anyHasToday(m.sources) {
			cmds = append(cmds, m.startFetch(false))
		}
		return m, tea.Batch(cmds...)

	case categoriesMsg:
		if msg.err != nil {
			debug.Log("ui: categories failed: %v", msg.err)
			return m, nil
		}
		m.categories = msg.cats
		return m, nil

	case rankingsMsg:
		if msg.gen != m.fetchGen {
			debug.Log("ui: discarding stale response gen=%d latest=%d", msg.gen, m.fetchGen)
			return m, nil
		}
		m.fetchBusy = false
		if msg.err != nil {
			return m, m.pushToast(toastError, "获取榜单失败: "+msg.err.Error())
		}
		m.set = msg.set
		m.hasResults = true
		m.cache.Invalidate()
		m.catHeat = nil
		m.page = 1
		m.cursor = 0
		if m.sortByHeat {
			m.dataView = ViewHeatList
		} else {
			m.dataView = ViewGrouped
		}
		m.lastElapsed = msg.elapsed
		m.trendTitle = ""
		m.trendSeries = trend.Series{}
		note := fmt.Sprintf("已加载 %s 条", formatCount(len(msg.set.Items)))
		if msg.set.FromCache {
			note += " (当日缓存)"
		}
		return m, m.pushToast(toastSuccess, note)

	case scrapeAllMsg:
		m.fetchBusy = false
		if msg.err != nil {
			return m, m.pushToast(toastError, "全量抓取失败: "+msg.err.Error())
		}
		note := fmt.Sprintf("全量抓取完成，共 %s 条", formatCount(msg.res.Total))
		if len(msg.res.Errors) > 0 {
			note += fmt.Sprintf("，%d 个来源失败", len(msg.res.Errors))
		}
		cmds = append(cmds, m.pushToast(toastSuccess, note))
		m.sourceIdx = -1
		cmds = append(cmds, m.startFetch(false))
		return m, tea.Batch(cmds...)

	case categoryHeatMsg:
		if msg.err != nil {
			// The view falls back to local aggregation.
			debug.Log("ui: category heat rank failed: %v", msg.err)
			return m, nil
		}
		m.catHeat = msg.entries
		return m, nil

	case trendTickMsg:
		if msg.seq != m.trendSeq {
			return m, nil
		}
		item, ok := m.highlightedItem()
		if !ok || item.Title == m.trendTitle {
			return m, nil
		}
		m.trendBusy = true
		return m, trendCmd(m.svc, msg.seq, item.Title, m.trendLimit())

	case trendMsg:
		if msg.seq != m.trendSeq {
			return m, nil
		}
		m.trendBusy = false
		if msg.err != nil {
			debug.Log("ui: trend fetch failed for %q: %v", msg.title, msg.err)
			return m, nil
		}
		m.trendTitle = msg.title
		m.trendSeries = trend.Build(msg.points)
		return m, nil

	case pushDoneMsg:
		if errors.Is(msg.err, service.ErrNotConfigured) {
			return m, m.pushToast(toastInfo, "推送未配置")
		}
		if msg.err != nil {
			return m, m.pushToast(toastError, "推送失败: "+msg.err.Error())
		}
		return m, m.pushToast(toastSuccess, "已推送当前榜单")

	case syncSettingsMsg:
		if msg.err != nil {
			debug.Log("ui: sync settings load failed: %v", msg.err)
			return m, nil
		}
		m.syncSettings = msg.s
		return m, nil

	case syncSavedMsg:
		if msg.err != nil {
			return m, m.pushToast(toastError, "保存同步设置失败: "+msg.err.Error())
		}
		cmds = append(cmds, m.pushToast(toastSuccess, "同步设置已保存"))
		cmds = append(cmds, syncSettingsCmd(m.svc))
		return m, tea.Batch(cmds...)

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.pushToast(toastError, "导出失败: "+msg.err.Error())
		}
		return m, m.pushToast(toastSuccess, "已导出 "+msg.path)

	case configChangedMsg:
		cmds = append(cmds, reloadConfigCmd(m.watcher.Path()))
		cmds = append(cmds, watchConfigCmd(m.watcher))
		return m, tea.Batch(cmds...)

	case configReloadedMsg:
		if msg.err != nil {
			return m, m.pushToast(toastError, "配置重载失败: "+msg.err.Error())
		}
		m.cfg = msg.cfg
		m.clampCursor()
		return m, m.pushToast(toastInfo, "配置已重载")

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.tab = (m.tab + 1) % numTabs
		return m, nil
	case "1":
		m.tab = TabDashboard
		return m, nil
	case "2":
		m.tab = TabRank
		return m, nil

	case "enter", "r":
		return m, m.startFetch(false)
	case "R":
		return m, m.startFetch(true)

	case "A":
		if m.fetchBusy {
			return m, nil
		}
		m.fetchBusy = true
		return m, scrapeAllCmd(m.svc, false)

	case "o":
		// Re-derive client-side, no refetch.
		m.sortByHeat = !m.sortByHeat
		if m.sortByHeat {
			m.dataView = ViewHeatList
		} else {
			m.dataView = ViewGrouped
		}
		m.page = 1
		m.cursor = 0
		return m, nil

	case "v":
		if m.tab != TabRank {
			return m, nil
		}
		m.dataView = (m.dataView + 1) % numDataViews
		m.sortByHeat = m.dataView == ViewHeatList
		m.page = 1
		m.cursor = 0
		if m.dataView == ViewCategoryRank && len(m.catHeat) == 0 {
			return m, categoryHeatCmd(m.svc)
		}
		return m, nil

	case "s", "S":
		if len(m.sources) == 0 {
			return m, nil
		}
		if key == "s" {
			m.sourceIdx++
			if m.sourceIdx >= len(m.sources) {
				m.sourceIdx = -1
			}
		} else {
			m.sourceIdx--
			if m.sourceIdx < -1 {
				m.sourceIdx = len(m.sources) - 1
			}
		}
		m.categoryFilter = ""
		m.categories = nil
		// Selection only re-requests categories; the loaded set
		// stays until an explicit re-fetch.
		if m.sourceIdx >= 0 {
			return m, categoriesCmd(m.svc, m.sources[m.sourceIdx].ID)
		}
		return m, nil

	case "g":
		switch m.gender {
		case model.GenderUnknown:
			m.gender = model.GenderMale
		case model.GenderMale:
			m.gender = model.GenderFemale
		default:
			m.gender = model.GenderUnknown
		}
		return m, nil

	case "p":
		switch m.period {
		case model.PeriodAll:
			m.period = model.PeriodRead
		case model.PeriodRead:
			m.period = model.PeriodNew
		default:
			m.period = model.PeriodAll
		}
		return m, nil

	case "c":
		m.categoryFilter = m.nextCategoryFilter()
		return m, nil

	case "left", "h":
		if m.page > 1 {
			m.page--
			m.cursor = 0
			return m, m.scheduleTrendPreview()
		}
		return m, nil
	case "right", "l":
		if m.page < m.window().TotalPages {
			m.page++
			m.cursor = 0
			return m, m.scheduleTrendPreview()
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m, m.scheduleTrendPreview()
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.pageItems())-1 {
			m.cursor++
			return m, m.scheduleTrendPreview()
		}
		return m, nil

	case "t":
		item, ok := m.highlightedItem()
		if !ok {
			return m, nil
		}
		m.trendSeq++
		m.trendBusy = true
		return m, trendCmd(m.svc, m.trendSeq, item.Title, m.trendLimit())

	case "y":
		item, ok := m.highlightedItem()
		if !ok {
			return m, nil
		}
		text := item.Title
		if item.URL != "" {
			text += " " + item.URL
		}
		if err := clipboard.WriteAll(text); err != nil {
			return m, m.pushToast(toastError, "复制失败: "+err.Error())
		}
		return m, m.pushToast(toastInfo, "已复制 "+item.Title)

	case "E":
		if m.trendSeries.Empty() || m.trendTitle == "" {
			return m, m.pushToast(toastInfo, "先选中书名并加载趋势")
		}
		path := filepath.Join(m.cfg.ExportDir(),
			sanitizeFilename(m.trendTitle)+"_trend."+m.chartFormat())
		return m, exportChartCmd(m.trendSeries, m.trendTitle, path)

	case "D":
		if !m.hasResults {
			return m, m.pushToast(toastInfo, "暂无榜单数据")
		}
		path := filepath.Join(m.cfg.ExportDir(),
			"rankings_"+strings.ReplaceAll(m.set.Date, "-", "")+".db")
		return m, exportSQLiteCmd(m.set, path)

	case "P":
		if !m.hasResults {
			return m, m.pushToast(toastInfo, "暂无榜单数据")
		}
		return m, pushCmd(m.svc, m.set.Items)

	case "x":
		m.settings = newSettingsForm(m.syncSettings)
		return m, m.settings.Init()

	case "esc":
		m.trendTitle = ""
		m.trendSeries = trend.Series{}
		return m, nil
	}

	return m, nil
}

// nextCategoryFilter cycles the category filter through the loaded
// category list, with "" meaning no filter.
func (m Model) nextCategoryFilter() string {
	if len(m.categories) == 0 {
		return ""
	}
	if m.categoryFilter == "" {
		return m.categories[0].Name
	}
	for i, c := range m.categories {
		if c.Name == m.categoryFilter {
			if i+1 < len(m.categories) {
				return m.categories[i+1].Name
			}
			return ""
		}
	}
	return ""
}

func (m Model) trendLimit() int {
	if m.cfg.UI.TrendDays > 0 {
		return m.cfg.UI.TrendDays
	}
	return 30
}

func (m Model) chartFormat() string {
	if m.cfg.Export.Format != "" {
		return m.cfg.Export.Format
	}
	return "png"
}

func anyHasToday(sources []model.Source) bool {
	for _, s := range sources {
		if s.HasToday {
			return true
		}
	}
	return false
}

func exportChartCmd(series trend.Series, title, path string) tea.Cmd {
	return func() tea.Msg {
		opts := export.ChartOptions{Path: path, Title: title, Series: series}
		return exportDoneMsg{path: path, err: export.SaveTrendChart(opts)}
	}
}

func exportSQLiteCmd(set model.ResultSet, path string) tea.Cmd {
	return func() tea.Msg {
		err := export.NewSnapshotExporter(set, path).Export()
		return exportDoneMsg{path: path, err: err}
	}
}

// sanitizeFilename keeps a title usable as a file name.
func sanitizeFilename(s string) string {
	repl := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	out := repl.Replace(s)
	if out == "" {
		out = "untitled"
	}
	return out
}
