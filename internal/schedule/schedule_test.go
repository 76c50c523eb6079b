package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servly/booking-api/internal/model"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04", value)
	require.NoError(t, err)
	return &parsed
}

func booking(id string, start *time.Time) *model.Booking {
	return &model.Booking{
		ID:           uuid.MustParse(id),
		CustomerName: "customer " + id[:4],
		ServiceName:  "service",
		StartTime:    start,
		Status:       model.BookingStatusPending,
	}
}

const (
	id1 = "00000000-0000-0000-0000-000000000001"
	id2 = "00000000-0000-0000-0000-000000000002"
	id3 = "00000000-0000-0000-0000-000000000003"
	id4 = "00000000-0000-0000-0000-000000000004"
)

func TestFilter(t *testing.T) {
	employee := uuid.New()
	other := uuid.New()

	confirmed := booking(id1, nil)
	confirmed.Status = model.BookingStatusConfirmed
	confirmed.EmployeeID = &employee

	pending := booking(id2, nil)
	pending.EmployeeID = &employee

	unassigned := booking(id3, nil)

	bookings := []*model.Booking{confirmed, pending, unassigned}

	t.Run("no filters keeps everything", func(t *testing.T) {
		assert.Len(t, Filter(bookings, model.BookingFilters{}), 3)
	})

	t.Run("by status", func(t *testing.T) {
		got := Filter(bookings, model.BookingFilters{Status: model.BookingStatusConfirmed})
		require.Len(t, got, 1)
		assert.Equal(t, confirmed.ID, got[0].ID)
	})

	t.Run("by employee", func(t *testing.T) {
		got := Filter(bookings, model.BookingFilters{EmployeeID: &employee})
		assert.Len(t, got, 2)
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		got := Filter(bookings, model.BookingFilters{
			Status:     model.BookingStatusPending,
			EmployeeID: &employee,
		})
		require.Len(t, got, 1)
		assert.Equal(t, pending.ID, got[0].ID)
	})

	t.Run("employee filter excludes unassigned", func(t *testing.T) {
		got := Filter(bookings, model.BookingFilters{EmployeeID: &other})
		assert.Empty(t, got)
	})
}

func TestSortByStartMissingTimesFirst(t *testing.T) {
	late := booking(id1, ts(t, "2025-03-02T09:00"))
	early := booking(id2, ts(t, "2025-03-01T15:00"))
	missing := booking(id3, nil)

	input := []*model.Booking{late, early, missing}
	got := SortByStart(input)

	require.Len(t, got, 3)
	assert.Equal(t, missing.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)

	// input order untouched
	assert.Equal(t, late.ID, input[0].ID)
}

func TestSortByStartStable(t *testing.T) {
	start := ts(t, "2025-03-01T10:00")
	first := booking(id1, start)
	second := booking(id2, start)
	third := booking(id3, nil)
	fourth := booking(id4, nil)

	got := SortByStart([]*model.Booking{first, second, third, fourth})

	assert.Equal(t, third.ID, got[0].ID)
	assert.Equal(t, fourth.ID, got[1].ID)
	assert.Equal(t, first.ID, got[2].ID)
	assert.Equal(t, second.ID, got[3].ID)
}

func TestGroupByDayScenario(t *testing.T) {
	b1 := booking(id1, ts(t, "2025-03-02T09:00"))
	b2 := booking(id2, ts(t, "2025-03-01T15:00"))
	b3 := booking(id3, nil)

	groups := GroupByDay([]*model.Booking{b1, b2, b3})

	require.Len(t, groups, 3)
	assert.Equal(t, "2025-03-01", groups[0].Date)
	require.Len(t, groups[0].Bookings, 1)
	assert.Equal(t, b2.ID, groups[0].Bookings[0].ID)

	assert.Equal(t, "2025-03-02", groups[1].Date)
	require.Len(t, groups[1].Bookings, 1)
	assert.Equal(t, b1.ID, groups[1].Bookings[0].ID)

	assert.Equal(t, UnknownDateKey, groups[2].Date)
	assert.Nil(t, groups[2].FirstStart)
	require.Len(t, groups[2].Bookings, 1)
	assert.Equal(t, b3.ID, groups[2].Bookings[0].ID)
}

func TestGroupByDayUnknownGroupSortsLast(t *testing.T) {
	// Unknown bookings arrive first, yet the unknown group must come last.
	// This is the opposite of the list-view rule, where missing times
	// sort first.
	missing := booking(id1, nil)
	dated := booking(id2, ts(t, "2025-06-10T08:00"))

	groups := GroupByDay([]*model.Booking{missing, dated})

	require.Len(t, groups, 2)
	assert.Equal(t, "2025-06-10", groups[0].Date)
	assert.Equal(t, UnknownDateKey, groups[1].Date)
}

func TestGroupByDayWithinGroupOrdering(t *testing.T) {
	afternoon := booking(id1, ts(t, "2025-03-01T15:00"))
	morning := booking(id2, ts(t, "2025-03-01T09:00"))

	groups := GroupByDay([]*model.Booking{afternoon, morning})

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Bookings, 2)
	assert.Equal(t, morning.ID, groups[0].Bookings[0].ID)
	assert.Equal(t, afternoon.ID, groups[0].Bookings[1].ID)
}

func TestGroupByDayPartitionComplete(t *testing.T) {
	inputs := [][]*model.Booking{
		nil,
		{booking(id1, nil)},
		{booking(id1, ts(t, "2025-01-01T00:00")), booking(id2, nil)},
		{
			booking(id1, ts(t, "2025-01-01T10:00")),
			booking(id2, ts(t, "2025-01-01T11:00")),
			booking(id3, ts(t, "2025-02-01T10:00")),
			booking(id4, nil),
		},
	}

	for _, bookings := range inputs {
		groups := GroupByDay(bookings)

		total := 0
		seen := make(map[uuid.UUID]int)
		for _, g := range groups {
			total += len(g.Bookings)
			for _, b := range g.Bookings {
				seen[b.ID]++
			}
		}

		assert.Equal(t, len(bookings), total)
		for _, b := range bookings {
			assert.Equal(t, 1, seen[b.ID], "booking %s must appear exactly once", b.ID)
		}
	}
}

func TestGroupByDayGroupsNonDecreasing(t *testing.T) {
	bookings := []*model.Booking{
		booking(id1, ts(t, "2025-05-03T10:00")),
		booking(id2, ts(t, "2025-05-01T10:00")),
		booking(id3, nil),
		booking(id4, ts(t, "2025-05-02T10:00")),
	}

	groups := GroupByDay(bookings)
	require.Len(t, groups, 4)

	for i := 1; i < len(groups); i++ {
		if groups[i].FirstStart == nil {
			assert.Equal(t, len(groups)-1, i, "unknown group must be last")
			continue
		}
		require.NotNil(t, groups[i-1].FirstStart)
		assert.False(t, groups[i].FirstStart.Before(*groups[i-1].FirstStart))
	}
}

func TestGroupByDayDeterministic(t *testing.T) {
	bookings := []*model.Booking{
		booking(id1, ts(t, "2025-05-03T10:00")),
		booking(id2, nil),
		booking(id3, ts(t, "2025-05-03T08:00")),
	}

	first := GroupByDay(bookings)
	second := GroupByDay(bookings)
	assert.Equal(t, first, second)
}
