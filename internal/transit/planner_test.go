// SPDX-License-Identifier: MIT

package transit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	codes map[string][]string
	trips []Trip
}

func (s *stubSource) StopCodes(_ context.Context, name string) ([]string, error) {
	return s.codes[name], nil
}

func (s *stubSource) TripsVia(_ context.Context, codes []string, day time.Weekday) ([]Trip, error) {
	want := codeSet(codes)
	var out []Trip
	for _, trip := range s.trips {
		for _, st := range trip.Times {
			if want[st.StopCode] && st.Days.On(day) {
				out = append(out, trip)
				break
			}
		}
	}
	return out, nil
}

func mustTime(t *testing.T, s string) DayTime {
	t.Helper()
	dt, err := ParseDayTime(s)
	require.NoError(t, err)
	return dt
}

func testTrip(t *testing.T, id, route string, days ServiceDays, calls ...string) Trip {
	t.Helper()
	trip := Trip{ID: id, RouteName: route}
	for i := 0; i+1 < len(calls); i += 2 {
		trip.Times = append(trip.Times, StopTime{
			TripID:    id,
			RouteName: route,
			StopCode:  calls[i],
			Arrival:   mustTime(t, calls[i+1]),
			Days:      days,
			Active:    true,
		})
	}
	return trip
}

func testSource(t *testing.T) *stubSource {
	t.Helper()
	return &stubSource{
		codes: map[string][]string{
			"Автовокзал": {"A1", "A2"},
			"Больница":   {"B1"},
			"Победы":     {"D1"},
		},
		trips: []Trip{
			testTrip(t, "r1_trip_001", "1", Daily,
				"A1", "07:00", "C1", "07:10", "B1", "07:20"),
			testTrip(t, "r1_trip_002", "1", Daily,
				"A1", "08:00", "C1", "08:10", "B1", "08:20"),
			testTrip(t, "r2_trip_001", "2", Weekdays,
				"C1", "07:15", "D1", "07:30"),
		},
	}
}

func TestPlannerDirect(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Больница",
		After:       mustTime(t, "06:00"),
		Day:         time.Monday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Direct())
	assert.Equal(t, "07:00", got[0].Departure.String())
	assert.Equal(t, "07:20", got[0].Arrival.String())
	assert.Equal(t, 20*time.Minute, got[0].Duration)
	assert.Equal(t, "08:00", got[1].Departure.String())
}

func TestPlannerAfterFilter(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Больница",
		After:       mustTime(t, "07:30"),
		Day:         time.Monday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "08:00", got[0].Departure.String())
}

func TestPlannerTransfer(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Победы",
		After:       mustTime(t, "06:00"),
		Day:         time.Monday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	j := got[0]
	assert.Equal(t, 1, j.Transfers)
	require.Len(t, j.Segments, 2)
	assert.Equal(t, "1", j.Segments[0].RouteName)
	assert.Equal(t, "2", j.Segments[1].RouteName)
	assert.Equal(t, "C1", j.Segments[0].To.StopCode)
	assert.Equal(t, "07:00", j.Departure.String())
	assert.Equal(t, "07:30", j.Arrival.String())
	assert.Equal(t, 30*time.Minute, j.Duration)
}

func TestPlannerTransferPastClosedStop(t *testing.T) {
	// A closed stop between the origin and the interchange must not hide
	// the transfer behind it.
	first := testTrip(t, "r1_trip_001", "1", Daily,
		"O1", "08:00", "X1", "08:05", "C1", "08:10")
	first.Times[1].Active = false
	src := &stubSource{
		codes: map[string][]string{
			"Автовокзал": {"O1"},
			"Победы":     {"D1"},
		},
		trips: []Trip{
			first,
			testTrip(t, "r2_trip_001", "2", Daily,
				"C1", "08:20", "D1", "08:35"),
		},
	}
	p := NewPlanner(src)

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Победы",
		After:       mustTime(t, "07:00"),
		Day:         time.Monday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	j := got[0]
	assert.Equal(t, 1, j.Transfers)
	require.Len(t, j.Segments, 2)
	assert.Equal(t, "C1", j.Segments[0].To.StopCode)
	assert.Equal(t, "08:00", j.Departure.String())
	assert.Equal(t, "08:35", j.Arrival.String())
}

func TestPlannerServiceDay(t *testing.T) {
	p := NewPlanner(testSource(t))

	// Route 2 does not run on weekends, so no transfer journey exists.
	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Победы",
		After:       mustTime(t, "06:00"),
		Day:         time.Saturday,
		Max:         3,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlannerMax(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Больница",
		After:       mustTime(t, "06:00"),
		Day:         time.Monday,
		Max:         1,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "07:00", got[0].Departure.String())
}

func TestPlannerUnknownStop(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Нет такой",
		Destination: "Больница",
		Day:         time.Monday,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlannerArriveBy(t *testing.T) {
	p := NewPlanner(testSource(t))

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Больница",
		After:       mustTime(t, "07:30"),
		ArriveBy:    true,
		Day:         time.Monday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1, "only the 07:00 run arrives by 07:30")
	assert.Equal(t, "07:20", got[0].Arrival.String())
}

func TestPlannerMidnightCrossing(t *testing.T) {
	src := &stubSource{
		codes: map[string][]string{
			"Автовокзал": {"A1"},
			"Больница":   {"B1"},
		},
		trips: []Trip{
			testTrip(t, "n1_trip_001", "Н1", Daily,
				"A1", "23:50", "B1", "00:10"),
		},
	}
	p := NewPlanner(src)

	got, err := p.Find(context.Background(), Query{
		Origin:      "Автовокзал",
		Destination: "Больница",
		After:       mustTime(t, "23:00"),
		Day:         time.Friday,
		Max:         3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20*time.Minute, got[0].Duration)
}
