package contact

import (
	"strings"
	"time"
)

type DateRange string

const (
	DateRangeNone       DateRange = ""
	DateRangeToday      DateRange = "today"
	DateRangeLast7Days  DateRange = "last_7_days"
	DateRangeLast30Days DateRange = "last_30_days"
	DateRangeLast90Days DateRange = "last_90_days"
	DateRangeThisYear   DateRange = "this_year"
)

// FilterState is pure view state: the dashboard applies it to the in-memory
// contact set on every change, nothing is persisted.
type FilterState struct {
	Query      string
	Industries []string
	States     []string
	Statuses   []string
	DateRange  DateRange
}

func (f FilterState) IsZero() bool {
	return f.Query == "" &&
		len(f.Industries) == 0 &&
		len(f.States) == 0 &&
		len(f.Statuses) == 0 &&
		f.DateRange == DateRangeNone
}

// Apply runs the filter pipeline over the contact set: free-text search,
// then the three OR-inclusion multi-selects, then the date bucket. Each
// stage is an independent predicate, so the stages commute; order is
// preserved throughout.
func (f FilterState) Apply(contacts []Contact, now time.Time) []Contact {
	filtered := contacts

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		filtered = keep(filtered, func(c Contact) bool {
			return strings.Contains(strings.ToLower(c.Name()), query) ||
				strings.Contains(strings.ToLower(c.Email()), query) ||
				strings.Contains(strings.ToLower(c.CompanyName()), query)
		})
	}

	if len(f.Industries) > 0 {
		filtered = keep(filtered, func(c Contact) bool {
			return c.Industry() != "" && contains(f.Industries, c.Industry())
		})
	}

	if len(f.States) > 0 {
		filtered = keep(filtered, func(c Contact) bool {
			return c.State() != "" && contains(f.States, c.State())
		})
	}

	if len(f.Statuses) > 0 {
		filtered = keep(filtered, func(c Contact) bool {
			return c.Status() != "" && contains(f.Statuses, string(c.Status()))
		})
	}

	if f.DateRange != DateRangeNone {
		filtered = keep(filtered, func(c Contact) bool {
			return inDateRange(f.DateRange, c.CreatedAt(), now)
		})
	}

	return filtered
}

// inDateRange: today/7/30/90 are rolling windows of 24h multiples from
// "now", while this_year is a calendar-year check. The mismatch is
// intentional; clients depend on it.
func inDateRange(r DateRange, createdAt, now time.Time) bool {
	switch r {
	case DateRangeToday:
		return now.Sub(createdAt) < 24*time.Hour
	case DateRangeLast7Days:
		return now.Sub(createdAt) < 7*24*time.Hour
	case DateRangeLast30Days:
		return now.Sub(createdAt) < 30*24*time.Hour
	case DateRangeLast90Days:
		return now.Sub(createdAt) < 90*24*time.Hour
	case DateRangeThisYear:
		return createdAt.Year() == now.Year()
	default:
		return true
	}
}

// Stats are computed from the filtered set, not the full set.
type Stats struct {
	Total int `json:"total"`
	Valid int `json:"valid"`
}

func ComputeStats(contacts []Contact) Stats {
	stats := Stats{Total: len(contacts)}
	for _, c := range contacts {
		if c.Status() == StatusValid {
			stats.Valid++
		}
	}
	return stats
}

func keep(contacts []Contact, pred func(Contact) bool) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
