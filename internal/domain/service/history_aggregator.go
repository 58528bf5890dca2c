package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// HistoryAggregator – domain service for the chronological activity feed
// ---------------------------------------------------------------------------

// HistoryGroup is one display bucket of history entries sharing a day label.
type HistoryGroup struct {
	Label string
	Items []model.HistoryEntry
}

// HistoryAggregator filters, sorts, and groups history entries for display.
type HistoryAggregator struct{}

// NewHistoryAggregator returns a new aggregator instance.
func NewHistoryAggregator() *HistoryAggregator {
	return &HistoryAggregator{}
}

// FilterAndGroup applies search and time filtering, sorts entries newest
// first, and buckets them by calendar day relative to now:
//
//	same day as now        -> "TODAY"
//	previous calendar day  -> "YESTERDAY"
//	anything older         -> "Jan 2, 2006" formatted label
//
// Groups keep the first-seen order of their labels, which with the
// newest-first sort means most recent day first. Calendar comparisons use
// now's location.
func (a *HistoryAggregator) FilterAndGroup(
	entries []model.HistoryEntry,
	searchText string,
	filter valueobject.TimeFilter,
	now time.Time,
) []HistoryGroup {
	filtered := make([]model.HistoryEntry, 0, len(entries))
	search := strings.ToLower(strings.TrimSpace(searchText))

	for _, e := range entries {
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if !matchesTimeFilter(e, filter, now) {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TimestampMillis > filtered[j].TimestampMillis
	})

	return groupByDay(filtered, now)
}

// matchesSearch does a case-insensitive substring match against the textual
// forms of the amount and the duration.
func matchesSearch(e model.HistoryEntry, search string) bool {
	if strings.Contains(strings.ToLower(e.Principal.String()), search) {
		return true
	}
	return strings.Contains(strconv.Itoa(e.DurationMonths), search)
}

func matchesTimeFilter(e model.HistoryEntry, filter valueobject.TimeFilter, now time.Time) bool {
	switch filter {
	case valueobject.TimeFilterToday:
		return sameDay(time.UnixMilli(e.TimestampMillis).In(now.Location()), now)
	case valueobject.TimeFilterLast7Days:
		return e.TimestampMillis >= now.Add(-7*24*time.Hour).UnixMilli()
	default:
		return true
	}
}

func groupByDay(entries []model.HistoryEntry, now time.Time) []HistoryGroup {
	yesterday := now.AddDate(0, 0, -1)

	var groups []HistoryGroup
	index := make(map[string]int)

	for _, e := range entries {
		ts := time.UnixMilli(e.TimestampMillis).In(now.Location())

		var label string
		switch {
		case sameDay(ts, now):
			label = "TODAY"
		case sameDay(ts, yesterday):
			label = "YESTERDAY"
		default:
			label = ts.Format("Jan 2, 2006")
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, HistoryGroup{Label: label})
		}
		groups[i].Items = append(groups[i].Items, e)
	}
	return groups
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
