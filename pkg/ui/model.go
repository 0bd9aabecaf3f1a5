// Package ui implements the terminal dashboard. A single Bubble Tea
// Model owns the session state: the active ResultSet, filter selections,
// the derived-view cache, pagination cursor, and overlays. All service
// calls run as commands; Update applies their results.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rankdeck/rankdeck/internal/service"
	"github.com/rankdeck/rankdeck/pkg/cache"
	"github.com/rankdeck/rankdeck/pkg/config"
	"github.com/rankdeck/rankdeck/pkg/debug"
	"github.com/rankdeck/rankdeck/pkg/model"
	"github.com/rankdeck/rankdeck/pkg/trend"
	"github.com/rankdeck/rankdeck/pkg/watcher"
)

// trendDebounce delays the preview fetch after a cursor move so that
// scrolling through a page does not fire a request per row.
const trendDebounce = 300 * time.Millisecond

// Tab is a top-level screen.
type Tab int

const (
	TabDashboard Tab = iota
	TabRank
	numTabs
)

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "总览"
	case TabRank:
		return "榜单"
	default:
		return "?"
	}
}

// DataView selects how the rank tab presents the active ResultSet.
type DataView int

const (
	ViewGrouped DataView = iota
	ViewHeatList
	ViewCategoryRank
	numDataViews
)

func (v DataView) String() string {
	switch v {
	case ViewGrouped:
		return "分组"
	case ViewHeatList:
		return "热度"
	case ViewCategoryRank:
		return "分类榜"
	default:
		return "?"
	}
}

// Service is the slice of the ranking service the UI consumes.
// *service.Client satisfies it; tests substitute a stub.
type Service interface {
	Overview(ctx context.Context) (model.Dashboard, []model.Source, error)
	Categories(ctx context.Context, source string) ([]model.Category, error)
	Rankings(ctx context.Context, opts service.FetchOptions) (model.ResultSet, error)
	ScrapeAll(ctx context.Context, force bool) (model.BatchResult, error)
	CategoryHeatRank(ctx context.Context) ([]model.CategoryHeatEntry, error)
	Trend(ctx context.Context, title string, limit int) ([]model.TrendPoint, error)
	Push(ctx context.Context, items []model.RankedItem, clear bool) error
	Notify(ctx context.Context) error
	SyncSettings(ctx context.Context) (model.SyncSettings, error)
	SaveSyncSettings(ctx context.Context, s model.SyncSettings) error
}

// Messages produced by commands.

type overviewMsg struct {
	dash    model.Dashboard
	sources []model.Source
	err     error
}

type categoriesMsg struct {
	cats []model.Category
	err  error
}

type rankingsMsg struct {
	gen     uint64
	set     model.ResultSet
	elapsed time.Duration
	err     error
}

type scrapeAllMsg struct {
	res model.BatchResult
	err error
}

type categoryHeatMsg struct {
	entries []model.CategoryHeatEntry
	err     error
}

type trendTickMsg struct {
	seq int
}

type trendMsg struct {
	seq    int
	title  string
	points []model.TrendPoint
	err    error
}

type pushDoneMsg struct {
	err error
}

type syncSettingsMsg struct {
	s   model.SyncSettings
	err error
}

type syncSavedMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type configChangedMsg struct{}

type configReloadedMsg struct {
	cfg config.Config
	err error
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	svc     Service
	cfg     config.Config
	cache   *cache.Cache
	watcher *watcher.Watcher

	tab      Tab
	dataView DataView

	sources        []model.Source
	sourceIdx      int // -1 selects the all-sources aggregate
	categories     []model.Category
	categoryFilter string
	gender         model.Gender // GenderUnknown means no filter
	period         model.Period
	sortByHeat     bool

	dash       model.Dashboard
	dashLoaded bool
	catHeat    []model.CategoryHeatEntry

	// Active ResultSet. Replaced wholesale on fetch success, kept
	// untouched on failure.
	set         model.ResultSet
	hasResults  bool
	fetchBusy   bool
	fetchGen    uint64
	lastElapsed time.Duration

	page   int
	cursor int

	trendSeq    int
	trendTitle  string
	trendSeries trend.Series
	trendBusy   bool

	syncSettings model.SyncSettings
	settings     *settingsForm
	showHelp     bool

	toasts   []toast
	toastSeq int

	spin   spinner.Model
	width  int
	height int
}

// NewModel builds the initial model. The watcher may be nil when the
// config file cannot be watched.
func NewModel(svc Service, cfg config.Config, w *watcher.Watcher) Model {
	m := Model{
		svc:       svc,
		cfg:       cfg,
		cache:     cache.New(),
		watcher:   w,
		tab:       TabRank,
		dataView:  ViewGrouped,
		sourceIdx: -1,
		gender:    model.ParseGender(cfg.UI.DefaultGender),
		period:    model.ParsePeriod(cfg.UI.DefaultPeriod),
		page:      1,
		width:     80,
		height:    24,
	}
	m.sortByHeat = cfg.UI.DefaultSort == "heat"
	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		overviewCmd(m.svc),
		syncSettingsCmd(m.svc),
		m.spin.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, watchConfigCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// pageSize returns the configured page size with a sane floor.
func (m Model) pageSize() int {
	if m.cfg.UI.PageSize > 0 {
		return m.cfg.UI.PageSize
	}
	return 50
}

// startFetch begins a rankings fetch unless one is already in flight.
// Each fetch carries a generation token; responses from older
// generations are discarded in Update.
func (m *Model) startFetch(force bool) tea.Cmd {
	if m.fetchBusy {
		debug.Log("ui: fetch suppressed, one in flight")
		return nil
	}
	m.fetchBusy = true
	m.fetchGen++
	opts := m.fetchOptions(force)
	debug.Log("ui: fetch gen=%d source=%q force=%v", m.fetchGen, opts.Source, force)
	return fetchRankingsCmd(m.svc, m.fetchGen, opts)
}

func (m Model) fetchOptions(force bool) service.FetchOptions {
	opts := service.FetchOptions{
		Gender: m.gender,
		Period: m.period,
		Sort:   "rank",
		Force:  force,
	}
	if m.sortByHeat {
		opts.Sort = "heat"
	}
	if m.sourceIdx >= 0 && m.sourceIdx < len(m.sources) {
		opts.Source = m.sources[m.sourceIdx].ID
		if m.categoryFilter != "" {
			opts.Categories = []string{m.categoryFilter}
		}
	}
	return opts
}

// scheduleTrendPreview stamps a new debounce sequence and returns the
// tick command. A later cursor move bumps the sequence, which
// invalidates any tick still pending.
func (m *Model) scheduleTrendPreview() tea.Cmd {
	m.trendSeq++
	seq := m.trendSeq
	return tea.Tick(trendDebounce, func(time.Time) tea.Msg {
		return trendTickMsg{seq: seq}
	})
}

// highlightedItem returns the item under the cursor in the current
// flat view, or false when nothing is highlighted.
func (m Model) highlightedItem() (model.RankedItem, bool) {
	items := m.pageItems()
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.RankedItem{}, false
	}
	return items[m.cursor], true
}

// Commands.

func overviewCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		dash, sources, err := svc.Overview(ctx)
		return overviewMsg{dash: dash, sources: sources, err: err}
	}
}

func categoriesCmd(svc Service, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		cats, err := svc.Categories(ctx, source)
		return categoriesMsg{cats: cats, err: err}
	}
}

func fetchRankingsCmd(svc Service, gen uint64, opts service.FetchOptions) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		set, err := svc.Rankings(ctx, opts)
		return rankingsMsg{gen: gen, set: set, elapsed: time.Since(start), err: err}
	}
}

func scrapeAllCmd(svc Service, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		res, err := svc.ScrapeAll(ctx, force)
		return scrapeAllMsg{res: res, err: err}
	}
}

func categoryHeatCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		entries, err := svc.CategoryHeatRank(ctx)
		return categoryHeatMsg{entries: entries, err: err}
	}
}

func trendCmd(svc Service, seq int, title string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		points, err := svc.Trend(ctx, title, limit)
		return trendMsg{seq: seq, title: title, points: points, err: err}
	}
}

func pushCmd(svc Service, items []model.RankedItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		if err := svc.Push(ctx, items, false); err != nil {
			return pushDoneMsg{err: err}
		}
		// The notification hook rides along with a successful push;
		// its failure is not the push's failure.
		if err := svc.Notify(ctx); err != nil {
			debug.Log("notify after push failed: %v", err)
		}
		return pushDoneMsg{}
	}
}

func syncSettingsCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		s, err := svc.SyncSettings(ctx)
		return syncSettingsMsg{s: s, err: err}
	}
}

func saveSyncSettingsCmd(svc Service, s model.SyncSettings) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
		defer cancel()
		return syncSavedMsg{err: svc.SaveSyncSettings(ctx, s)}
	}
}

func watchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return configChangedMsg{}
	}
}

func reloadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadFrom(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}
