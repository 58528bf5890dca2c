package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// TimeFilter – immutable value object
// ---------------------------------------------------------------------------

// TimeFilter narrows history entries to a time window.
type TimeFilter struct {
	value string
}

const (
	timeFilterAllTime   = "ALL_TIME"
	timeFilterToday     = "TODAY"
	timeFilterLast7Days = "LAST_7_DAYS"
)

var (
	TimeFilterAllTime   = TimeFilter{value: timeFilterAllTime}
	TimeFilterToday     = TimeFilter{value: timeFilterToday}
	TimeFilterLast7Days = TimeFilter{value: timeFilterLast7Days}
)

var validTimeFilters = map[string]TimeFilter{
	timeFilterAllTime:   TimeFilterAllTime,
	timeFilterToday:     TimeFilterToday,
	timeFilterLast7Days: TimeFilterLast7Days,
}

// NewTimeFilter creates a TimeFilter from a raw string. An empty string maps
// to AllTime.
func NewTimeFilter(s string) (TimeFilter, error) {
	if s == "" {
		return TimeFilterAllTime, nil
	}
	v, ok := validTimeFilters[s]
	if !ok {
		return TimeFilter{}, fmt.Errorf("invalid time filter: %q", s)
	}
	return v, nil
}

// String returns the string representation of the filter.
func (f TimeFilter) String() string { return f.value }

// Equal returns true when both filters carry the same value.
func (f TimeFilter) Equal(other TimeFilter) bool { return f.value == other.value }
