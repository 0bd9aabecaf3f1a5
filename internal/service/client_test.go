package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/rankdeck/rankdeck/pkg/model"
)

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sources" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":[{"id":"fanqie","name":"番茄小说","has_today":true},{"id":"qimao","name":"七猫","has_today":false}]}`))
	}))
	defer srv.Close()

	srcs, err := New(srv.URL).Sources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 2 || srcs[0].ID != "fanqie" || !srcs[0].HasToday {
		t.Errorf("unexpected sources: %+v", srcs)
	}
}

func TestRankingsSingleSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scrape" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("source") != "fanqie" || q.Get("gender") != "male" || q.Get("force") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("category") != "都市,玄幻" {
			t.Errorf("category = %q", q.Get("category"))
		}
		w.Write([]byte(`{"code":0,"from_storage":true,"date":"2026-08-29","total":1,
			"data":[{"title":"t","author":"a","rank":1,"gender":"男频","heat":"3.2万"}]}`))
	}))
	defer srv.Close()

	set, err := New(srv.URL).Rankings(context.Background(), FetchOptions{
		Source:     "fanqie",
		Gender:     model.GenderMale,
		Categories: []string{"都市", "玄幻"},
		Force:      true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !set.FromCache || set.Date != "2026-08-29" || set.Scope != model.ScopeSingle {
		t.Errorf("set meta: %+v", set)
	}
	if len(set.Items) != 1 || set.Items[0].Gender != model.GenderMale {
		t.Errorf("items: %+v (gender must normalize from 男频)", set.Items)
	}
}

func TestRankingsAllSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scrape/all-sources" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":[]}`))
	}))
	defer srv.Close()

	set, err := New(srv.URL).Rankings(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Scope != model.ScopeAll {
		t.Errorf("scope = %v", set.Scope)
	}
	if len(set.Items) != 0 {
		t.Errorf("empty data must yield an empty, valid set")
	}
}

func TestServiceCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1,"msg":"不支持的数据源: nope"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Rankings(context.Background(), FetchOptions{Source: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Code != 1 || apiErr.Msg == "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Sources(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("want APIError with status 502, got %v", err)
	}
}

func TestScrapeAllPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"per_source":{"fanqie":120,"qimao":80},"errors":["纵横: timeout"],"total":200}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).ScrapeAll(context.Background(), false)
	if err != nil {
		t.Fatalf("partial failures must not fail the batch: %v", err)
	}
	if res.Total != 200 || len(res.Errors) != 1 || res.PerSource["fanqie"] != 120 {
		t.Errorf("batch result: %+v", res)
	}
}

func TestOverviewFetchesBothEndpoints(t *testing.T) {
	var dashHits, srcHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard":
			dashHits.Add(1)
			w.Write([]byte(`{"code":0,"data":{"total_books":42,"date":"2026-08-29"}}`))
		case "/api/sources":
			srcHits.Add(1)
			w.Write([]byte(`{"code":0,"data":[{"id":"fanqie","name":"番茄"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	dash, srcs, err := New(srv.URL).Overview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if dash.TotalBooks != 42 || len(srcs) != 1 {
		t.Errorf("dash=%+v srcs=%+v", dash, srcs)
	}
	if dashHits.Load() != 1 || srcHits.Load() != 1 {
		t.Errorf("hits: dash=%d src=%d", dashHits.Load(), srcHits.Load())
	}
}

func TestTrendQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("title") != "诡秘之主" || q.Get("limit") != "30" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"code":0,"data":[{"date":"2026-08-29","heat":"3.2万","heat_value":32000,"rank":1}]}`))
	}))
	defer srv.Close()

	pts, err := New(srv.URL).Trend(context.Background(), "诡秘之主", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 1 || pts[0].HeatValue != 32000 {
		t.Errorf("points: %+v", pts)
	}
}

func TestCategoryBooksQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/category/books" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("category") != "玄幻" || q.Get("sort") != "heat" || q.Get("limit") != "10" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"code":0,"total":37,"data":[{"title":"t","category":"玄幻","heat":"8万"}]}`))
	}))
	defer srv.Close()

	items, total, err := New(srv.URL).CategoryBooks(context.Background(), "玄幻", true, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 37 || len(items) != 1 || items[0].Category != "玄幻" {
		t.Errorf("items=%+v total=%d", items, total)
	}
}

func TestNotify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notify" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Notify(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestPushNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.Write([]byte(`{"code":1,"msg":"飞书凭证未配置"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Push(context.Background(), []model.RankedItem{{Title: "t"}}, true)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestSyncSettingsRoundTrip(t *testing.T) {
	var saved model.SyncSettings
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sync/settings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Method == http.MethodPost {
			if err := jsonDecode(r, &saved); err != nil {
				t.Error(err)
			}
			w.Write([]byte(`{"code":0}`))
			return
		}
		w.Write([]byte(`{"code":0,"data":{"enabled":true,"sync_time":"08:30","last_sync_info":"ok"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	s, err := c.SyncSettings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Enabled || s.SyncTime != "08:30" {
		t.Errorf("settings: %+v", s)
	}

	s.SyncTime = "09:00"
	if err := c.SaveSyncSettings(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if saved.SyncTime != "09:00" {
		t.Errorf("saved: %+v", saved)
	}
}
