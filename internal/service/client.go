// Package service is the HTTP client for the novel-ranking aggregation
// service. Every response arrives in a {code, msg, data} envelope; code
// zero is success. The client decodes payloads into pkg/model types and
// never interprets them further — aggregation and presentation live in
// the pure packages.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rankdeck/rankdeck/pkg/debug"
	"github.com/rankdeck/rankdeck/pkg/model"
)

// DefaultTimeout bounds a single request. Scrape triggers can take a
// while upstream, so this is generous.
const DefaultTimeout = 120 * time.Second

// APIError is a non-success envelope or transport-level failure.
type APIError struct {
	Endpoint string
	Status   int // HTTP status, 0 when the envelope itself failed
	Code     int // service code from the envelope
	Msg      string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Msg)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: service code %d", e.Endpoint, e.Code)
}

// ErrNotConfigured is returned by push endpoints when the service has no
// sink credentials.
var ErrNotConfigured = errors.New("external sink not configured")

// Client talks to one ranking service instance.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the given base URL ("http://host:port").
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewWithHTTPClient injects a custom http.Client (tests, proxies).
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// envelope is the service's uniform response wrapper.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`

	// Extra top-level fields used by the ranking endpoints.
	Total       int    `json:"total"`
	FromStorage bool   `json:"from_storage"`
	Date        string `json:"date"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) (*envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*envelope, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request for %s: %w", path, err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	debug.LogTiming("service "+path, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if env.Code != 0 {
		return &env, &APIError{Endpoint: path, Code: env.Code, Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &env, fmt.Errorf("decode %s payload: %w", path, err)
		}
	}
	return &env, nil
}

// Sources lists the scraping platforms the service knows about.
func (c *Client) Sources(ctx context.Context) ([]model.Source, error) {
	var out []model.Source
	if _, err := c.get(ctx, "/api/sources", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists leaderboard categories, optionally for one source.
func (c *Client) Categories(ctx context.Context, source string) ([]model.Category, error) {
	q := url.Values{}
	if source != "" {
		q.Set("source", source)
	}
	var out []model.Category
	if _, err := c.get(ctx, "/api/categories", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchOptions selects what Rankings retrieves.
type FetchOptions struct {
	Source     string // empty = all-sources aggregate
	Gender     model.Gender
	Period     model.Period
	Sort       string // "rank" | "heat" | "category"
	Categories []string
	Force      bool // bypass the service's day cache
}

func (o FetchOptions) query() url.Values {
	q := url.Values{}
	if o.Gender != "" && o.Gender != model.GenderUnknown {
		q.Set("gender", string(o.Gender))
	}
	if o.Period != model.PeriodAll {
		q.Set("period", string(o.Period))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Force {
		q.Set("force", "1")
	}
	return q
}

// Rankings fetches a ranking snapshot. An empty Source selects the
// all-sources aggregate endpoint; Categories only applies to
// single-source fetches, matching the service contract.
func (c *Client) Rankings(ctx context.Context, opts FetchOptions) (model.ResultSet, error) {
	q := opts.query()
	path := "/api/scrape/all-sources"
	scope := model.ScopeAll
	if opts.Source != "" {
		path = "/api/scrape"
		scope = model.ScopeSingle
		q.Set("source", opts.Source)
		if len(opts.Categories) > 0 {
			q.Set("category", strings.Join(opts.Categories, ","))
		}
	}

	var items []model.RankedItem
	env, err := c.get(ctx, path, q, &items)
	if err != nil {
		return model.ResultSet{}, err
	}
	return model.ResultSet{
		Items:     items,
		Scope:     scope,
		SourceID:  opts.Source,
		FromCache: env.FromStorage,
		Date:      env.Date,
	}, nil
}

// ScrapeAll triggers a full multi-source fetch on the service. Partial
// per-source failures are data, not an error.
func (c *Client) ScrapeAll(ctx context.Context, force bool) (model.BatchResult, error) {
	q := url.Values{}
	if force {
		q.Set("force", "1")
	}
	var out model.BatchResult
	if _, err := c.get(ctx, "/api/scrape/trigger-all", q, &out); err != nil {
		return model.BatchResult{}, err
	}
	return out, nil
}

// Dashboard fetches the precomputed aggregate payload.
func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var out model.Dashboard
	if _, err := c.get(ctx, "/api/dashboard", nil, &out); err != nil {
		return model.Dashboard{}, err
	}
	return out, nil
}

// Overview fetches the dashboard payload and the source list
// concurrently; the two endpoints are independent.
func (c *Client) Overview(ctx context.Context) (model.Dashboard, []model.Source, error) {
	var (
		dash model.Dashboard
		srcs []model.Source
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash, err = c.Dashboard(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		srcs, err = c.Sources(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, nil, err
	}
	return dash, srcs, nil
}

// CategoryBooks fetches the books of one category, optionally ordered by
// heat and truncated to limit.
func (c *Client) CategoryBooks(ctx context.Context, category string, byHeat bool, limit int) ([]model.RankedItem, int, error) {
	q := url.Values{}
	q.Set("category", category)
	if byHeat {
		q.Set("sort", "heat")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var items []model.RankedItem
	env, err := c.get(ctx, "/api/category/books", q, &items)
	if err != nil {
		return nil, 0, err
	}
	return items, env.Total, nil
}

// CategoryHeatRank fetches the precomputed category leaderboard.
func (c *Client) CategoryHeatRank(ctx context.Context) ([]model.CategoryHeatEntry, error) {
	var out []model.CategoryHeatEntry
	if _, err := c.get(ctx, "/api/category/heat-rank", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trend fetches the heat history of one title. The service typically
// returns it newest-first; callers normalize with pkg/trend.
func (c *Client) Trend(ctx context.Context, title string, limit int) ([]model.TrendPoint, error) {
	q := url.Values{}
	q.Set("title", title)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []model.TrendPoint
	if _, err := c.get(ctx, "/api/trend", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Push sends the given items to the service's external sink (e.g. a
// Feishu table), optionally clearing existing rows first.
func (c *Client) Push(ctx context.Context, items []model.RankedItem, clear bool) error {
	body := struct {
		Data  []model.RankedItem `json:"data"`
		Clear bool               `json:"clear"`
	}{Data: items, Clear: clear}
	_, err := c.post(ctx, "/api/feishu/push", body, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Msg, "未配置") {
		return fmt.Errorf("%w: %s", ErrNotConfigured, apiErr.Msg)
	}
	return err
}

// Notify asks the service to send its configured notification.
func (c *Client) Notify(ctx context.Context) error {
	_, err := c.post(ctx, "/api/notify", nil, nil)
	return err
}

// SyncSettings reads the scheduled-sync configuration.
func (c *Client) SyncSettings(ctx context.Context) (model.SyncSettings, error) {
	var out model.SyncSettings
	if _, err := c.get(ctx, "/api/sync/settings", nil, &out); err != nil {
		return model.SyncSettings{}, err
	}
	return out, nil
}

// SaveSyncSettings writes the scheduled-sync configuration.
func (c *Client) SaveSyncSettings(ctx context.Context, s model.SyncSettings) error {
	_, err := c.post(ctx, "/api/sync/settings", s, nil)
	return err
}
