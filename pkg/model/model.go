// Package model defines the core data types shared across rankdeck:
// ranked items as returned by the ranking service, result sets, derived
// aggregate entries, and trend points.
package model

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Gender is the channel a ranking belongs to. The service reports it
// either as an English tag or as the localized label (男频/女频);
// both normalize to the closed set below.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender normalizes a service-supplied gender label.
func ParseGender(s string) Gender {
	switch s {
	case "male", "m", "男频", "男":
		return GenderMale
	case "female", "f", "女频", "女":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Display returns the localized label used by the upstream platforms.
func (g Gender) Display() string {
	switch g {
	case GenderMale:
		return "男频"
	case GenderFemale:
		return "女频"
	default:
		return "-"
	}
}

// UnmarshalJSON accepts both normalized and localized labels.
func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = ParseGender(s)
	return nil
}

// Period is the leaderboard flavour (reading vs. new-book). Unrecognized
// upstream labels pass through unchanged so new leaderboards keep working.
type Period string

const (
	PeriodAll  Period = ""
	PeriodRead Period = "read"
	PeriodNew  Period = "new"
)

// ParsePeriod normalizes a service-supplied period label.
func ParsePeriod(s string) Period {
	switch s {
	case "read", "阅读榜":
		return PeriodRead
	case "new", "新书榜":
		return PeriodNew
	case "":
		return PeriodAll
	default:
		return Period(s)
	}
}

// Display returns the localized leaderboard label.
func (p Period) Display() string {
	switch p {
	case PeriodRead:
		return "阅读榜"
	case PeriodNew:
		return "新书榜"
	case PeriodAll:
		return "全部"
	default:
		return string(p)
	}
}

// RankedItem is one entry of a platform leaderboard. Immutable once
// received; identity for grouping and cross-platform matching is
// (Title, Author).
type RankedItem struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	SourceID      string `json:"source"`
	SourceName    string `json:"source_name"`
	Category      string `json:"category"`
	Gender        Gender `json:"gender"`
	Period        Period `json:"period,omitempty"`
	Rank          int    `json:"rank"`
	HeatText      string `json:"heat,omitempty"`
	WordCount     string `json:"word_count,omitempty"`
	Status        string `json:"status,omitempty"`
	LatestChapter string `json:"latest_chapter,omitempty"`
	URL           string `json:"book_url,omitempty"`
}

// BookKey is the grouping identity for a title across platforms.
type BookKey struct {
	Title  string
	Author string
}

// Key returns the item's cross-platform identity.
func (r RankedItem) Key() BookKey {
	return BookKey{Title: r.Title, Author: r.Author}
}

func (r RankedItem) String() string {
	return fmt.Sprintf("[%d] %s - %s (%s)", r.Rank, r.Title, r.Author, r.Category)
}

// Scope says whether a ResultSet came from one source or from the
// all-sources aggregate endpoint.
type Scope int

const (
	ScopeSingle Scope = iota
	ScopeAll
)

// ResultSet is one ranking snapshot. Replaced wholesale on every fetch,
// never mutated in place; all items share the same reference date.
type ResultSet struct {
	Items     []RankedItem
	Scope     Scope
	SourceID  string // empty for ScopeAll
	FromCache bool   // served from the service's day cache
	Date      string // reference date (ISO day)
}

// CategoryHeatEntry is a derived category leaderboard row: the ten
// hottest titles of the category plus their summed heat.
type CategoryHeatEntry struct {
	Category  string       `json:"category"`
	TotalHeat float64      `json:"total_heat"`
	BookCount int          `json:"book_count"`
	Top10     []RankedItem `json:"top10"`
}

// CrossPlatformEntry is a title charting on two or more platforms,
// matched by (title, author). Sources is deduplicated, first-seen order.
type CrossPlatformEntry struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Sources  []string `json:"sources"`
	URL      string   `json:"book_url,omitempty"`
}

// TrendPoint is one day of a title's heat history.
type TrendPoint struct {
	Date       string  `json:"date"`
	HeatText   string  `json:"heat"`
	HeatValue  float64 `json:"heat_value"`
	Rank       int     `json:"rank"`
	SourceName string  `json:"source_name"`
	Category   string  `json:"category"`
}

// Source is a scraping platform known to the service.
type Source struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HasToday bool   `json:"has_today"`
}

// Category is a leaderboard category offered by a source.
type Category struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// SyncSettings is the service-side scheduled sync configuration.
type SyncSettings struct {
	Enabled      bool   `json:"enabled"`
	SyncTime     string `json:"sync_time"`
	LastSyncInfo string `json:"last_sync_info,omitempty"`
}

// SourceStat is a per-source item count for the dashboard.
type SourceStat struct {
	SourceName string `json:"source_name"`
	Count      int    `json:"count"`
}

// NamedCount is a generic label/count pair (gender split, category split).
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Dashboard is the service's precomputed aggregate payload.
type Dashboard struct {
	Date          string               `json:"date"`
	TotalBooks    int                  `json:"total_books"`
	SourceTotals  []SourceStat         `json:"source_totals"`
	GenderSplit   []NamedCount         `json:"gender_split"`
	CategorySplit []NamedCount         `json:"category_split"`
	MaleLeaders   []RankedItem         `json:"male_leaders"`
	FemaleLeaders []RankedItem         `json:"female_leaders"`
	CrossPlatform []CrossPlatformEntry `json:"cross_platform"`
}

// BatchResult reports a multi-source scrape trigger: per-source counts,
// per-source failures, and the grand total. Individual source failures do
// not fail the batch.
type BatchResult struct {
	PerSource map[string]int `json:"per_source"`
	Errors    []string       `json:"errors"`
	Total     int            `json:"total"`
}
