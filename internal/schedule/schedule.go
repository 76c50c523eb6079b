// Package schedule derives display projections from a booking collection.
// Every function is pure: inputs are never mutated and results are
// deterministic for a fixed input, so callers may run them concurrently.
package schedule

import (
	"sort"
	"time"

	"github.com/servly/booking-api/internal/model"
)

// UnknownDateKey buckets bookings whose start time is missing or was
// unparsable on the wire.
const UnknownDateKey = "unknown"

// DayGroup is one calendar date's worth of bookings in the day view.
type DayGroup struct {
	Date       string           `json:"date"`
	FirstStart *time.Time       `json:"first_start,omitempty"`
	Bookings   []*model.Booking `json:"bookings"`
}

// Filter keeps bookings matching every provided criterion, preserving the
// input order of survivors.
func Filter(bookings []*model.Booking, f model.BookingFilters) []*model.Booking {
	out := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.EmployeeID != nil {
			if b.EmployeeID == nil || *b.EmployeeID != *f.EmployeeID {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// startUnix treats a missing start time as the epoch, so unknown starts
// sort first. The backend's list view has always behaved this way and
// existing clients depend on it.
func startUnix(b *model.Booking) int64 {
	if b.StartTime == nil {
		return 0
	}
	return b.StartTime.Unix()
}

// SortByStart returns the bookings ordered ascending by start time, missing
// start times first. The sort is stable and the input is left untouched.
func SortByStart(bookings []*model.Booking) []*model.Booking {
	out := make([]*model.Booking, len(bookings))
	copy(out, bookings)
	sort.SliceStable(out, func(i, j int) bool {
		return startUnix(out[i]) < startUnix(out[j])
	})
	return out
}

func dateKey(b *model.Booking) string {
	if b.StartTime == nil {
		return UnknownDateKey
	}
	return b.StartTime.UTC().Format("2006-01-02")
}

// GroupByDay partitions the bookings into per-date groups for the day view.
// Every input booking lands in exactly one group. Groups are ordered
// ascending by their first-seen start time with the unknown-date group
// last; bookings within a group follow the SortByStart rule.
func GroupByDay(bookings []*model.Booking) []DayGroup {
	index := make(map[string]int)
	groups := make([]DayGroup, 0)

	for _, b := range bookings {
		key := dateKey(b)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: key, FirstStart: b.StartTime})
		}
		groups[i].Bookings = append(groups[i].Bookings, b)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groupSortKey(groups[i]) < groupSortKey(groups[j])
	})

	for i := range groups {
		groups[i].Bookings = SortByStart(groups[i].Bookings)
	}
	return groups
}

// groupSortKey orders day groups. Unlike the per-booking rule, a group with
// no resolvable start sorts last, not first; the two rules are intentionally
// asymmetric and must stay independent.
func groupSortKey(g DayGroup) int64 {
	if g.FirstStart == nil {
		return int64(1<<63 - 1)
	}
	return g.FirstStart.Unix()
}
