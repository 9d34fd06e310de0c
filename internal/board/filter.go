package board

import (
	"strings"
	"time"

	"noteboard/internal/note"
)

// Filter is a named time window over the notes.
type Filter string

const (
	FilterToday Filter = "today"
	FilterWeek  Filter = "week"
	FilterAll   Filter = "all"
)

// WeekSpan is how many days past today the week filter reaches.
const WeekSpan = 7

// Filters lists the navigable filters in display order.
func Filters() []Filter {
	return []Filter{FilterToday, FilterWeek, FilterAll}
}

// ParseFilter coerces v to a known filter. Unknown values become FilterAll.
func ParseFilter(v string) Filter {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, "#")
	switch Filter(v) {
	case FilterToday, FilterWeek, FilterAll:
		return Filter(v)
	default:
		return FilterAll
	}
}

// FilterFromFragment maps a navigation fragment such as "#week" to a filter.
func FilterFromFragment(fragment string) Filter {
	fragment = strings.TrimSpace(fragment)
	if !strings.HasPrefix(fragment, "#") {
		return FilterAll
	}
	return ParseFilter(fragment)
}

// Fragment is the navigation fragment selecting f.
func (f Filter) Fragment() string {
	return "#" + string(f)
}

// FilterNotes returns the notes inside the window f, relative to today.
// The input slice is not modified.
func FilterNotes(notes []note.Note, f Filter, today time.Time) []note.Note {
	if f != FilterToday && f != FilterWeek {
		out := make([]note.Note, len(notes))
		copy(out, notes)
		return out
	}
	start := today.Format(note.DateLayout)
	end := start
	if f == FilterWeek {
		end = today.AddDate(0, 0, WeekSpan).Format(note.DateLayout)
	}
	out := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		// YYYY-MM-DD compares chronologically as a string.
		if n.Date >= start && n.Date <= end {
			out = append(out, n)
		}
	}
	return out
}
