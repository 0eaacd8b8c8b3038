// SPDX-License-Identifier: MIT

package transit

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Source supplies schedule data to the planner. The sqlite repository
// implements it; tests use an in-memory stub.
type Source interface {
	// StopCodes resolves a display stop name to the physical stop codes
	// grouped under it.
	StopCodes(ctx context.Context, displayName string) ([]string, error)
	// TripsVia returns every trip that calls at at least one of the given
	// stop codes on the given weekday, each with its full ordered stop
	// sequence.
	TripsVia(ctx context.Context, codes []string, day time.Weekday) ([]Trip, error)
}

// Query describes one journey search. After is the earliest departure, or,
// when ArriveBy is set, the latest acceptable arrival.
type Query struct {
	Origin      string // display stop name
	Destination string // display stop name
	After       DayTime
	ArriveBy    bool
	Day         time.Weekday
	Max         int
}

// departureCutoff is the earliest boarding time to consider while scanning.
func (q Query) departureCutoff() DayTime {
	if q.ArriveBy {
		return 0
	}
	return q.After
}

// Planner finds journeys between display stops, directly or with one
// transfer.
type Planner struct {
	src Source
}

// NewPlanner wires a planner to its schedule source.
func NewPlanner(src Source) *Planner {
	return &Planner{src: src}
}

// Find returns up to q.Max journeys departing at or after q.After, ordered by
// transfers, then duration, then departure time. Transfer journeys are only
// considered when fewer than q.Max direct ones exist.
func (p *Planner) Find(ctx context.Context, q Query) ([]Journey, error) {
	if q.Max <= 0 {
		q.Max = 3
	}
	originCodes, err := p.src.StopCodes(ctx, q.Origin)
	if err != nil {
		return nil, fmt.Errorf("resolve origin %q: %w", q.Origin, err)
	}
	destCodes, err := p.src.StopCodes(ctx, q.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination %q: %w", q.Destination, err)
	}
	if len(originCodes) == 0 || len(destCodes) == 0 {
		return nil, nil
	}

	originSet := codeSet(originCodes)
	destSet := codeSet(destCodes)

	originTrips, err := p.src.TripsVia(ctx, originCodes, q.Day)
	if err != nil {
		return nil, fmt.Errorf("load trips via origin: %w", err)
	}

	journeys := directJourneys(originTrips, originSet, destSet, q)

	if len(journeys) < q.Max {
		destTrips, err := p.src.TripsVia(ctx, destCodes, q.Day)
		if err != nil {
			return nil, fmt.Errorf("load trips via destination: %w", err)
		}
		journeys = append(journeys, transferJourneys(originTrips, destTrips, originSet, destSet, q)...)
	}

	if q.ArriveBy {
		filtered := journeys[:0]
		for _, j := range journeys {
			if j.Arrival <= q.After {
				filtered = append(filtered, j)
			}
		}
		journeys = filtered
	}

	journeys = dedup(journeys)
	sort.Slice(journeys, func(i, j int) bool { return journeys[i].Less(journeys[j]) })
	if len(journeys) > q.Max {
		journeys = journeys[:q.Max]
	}
	return journeys, nil
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// directJourneys scans each trip for an origin stop followed by a destination
// stop on the same run.
func directJourneys(trips []Trip, origin, dest map[string]bool, q Query) []Journey {
	var out []Journey
	for _, trip := range trips {
		for i, from := range trip.Times {
			if !from.Active || !origin[from.StopCode] {
				continue
			}
			if !from.Days.On(q.Day) || from.Arrival < q.departureCutoff() {
				continue
			}
			for _, to := range trip.Times[i+1:] {
				if !to.Active || !dest[to.StopCode] {
					continue
				}
				out = append(out, makeJourney(segment(trip.RouteName, from, to)))
				break
			}
			break // earliest valid boarding per trip is enough
		}
	}
	return out
}

// transferJourneys joins a trip through the origin with a trip through the
// destination at a shared interchange stop.
func transferJourneys(originTrips, destTrips []Trip, origin, dest map[string]bool, q Query) []Journey {
	// Index second-leg boardings by interchange stop code.
	type boarding struct {
		trip Trip
		pos  int
	}
	byStop := make(map[string][]boarding)
	for _, trip := range destTrips {
		for i, st := range trip.Times {
			if !st.Active || origin[st.StopCode] || dest[st.StopCode] {
				continue
			}
			if !st.Days.On(q.Day) {
				continue
			}
			// Only usable if the trip reaches the destination afterwards.
			if !reaches(trip.Times[i+1:], dest) {
				continue
			}
			byStop[st.StopCode] = append(byStop[st.StopCode], boarding{trip: trip, pos: i})
		}
	}
	if len(byStop) == 0 {
		return nil
	}

	var out []Journey
	for _, trip := range originTrips {
		for i, from := range trip.Times {
			if !from.Active || !origin[from.StopCode] {
				continue
			}
			if !from.Days.On(q.Day) || from.Arrival < q.departureCutoff() {
				continue
			}
			for _, mid := range trip.Times[i+1:] {
				if dest[mid.StopCode] {
					break // a direct trip; already covered
				}
				if !mid.Active {
					continue
				}
				for _, b := range byStop[mid.StopCode] {
					if b.trip.ID == trip.ID || b.trip.RouteName == trip.RouteName {
						continue
					}
					board := b.trip.Times[b.pos]
					if board.Arrival < mid.Arrival {
						continue // second bus already gone
					}
					for _, to := range b.trip.Times[b.pos+1:] {
						if !to.Active || !dest[to.StopCode] {
							continue
						}
						out = append(out, makeJourney(
							segment(trip.RouteName, from, mid),
							segment(b.trip.RouteName, board, to),
						))
						break
					}
				}
			}
			break
		}
	}
	return out
}

func reaches(rest []StopTime, dest map[string]bool) bool {
	for _, st := range rest {
		if st.Active && dest[st.StopCode] {
			return true
		}
	}
	return false
}

func segment(route string, from, to StopTime) Segment {
	return Segment{
		RouteName: route,
		From:      from,
		To:        to,
		Duration:  from.Arrival.Until(to.Arrival),
	}
}

func makeJourney(segs ...Segment) Journey {
	j := Journey{
		Segments:  segs,
		Departure: segs[0].From.Arrival,
		Arrival:   segs[len(segs)-1].To.Arrival,
		Transfers: len(segs) - 1,
	}
	j.Duration = j.Departure.Until(j.Arrival)
	return j
}

func dedup(journeys []Journey) []Journey {
	seen := make(map[string]bool, len(journeys))
	out := journeys[:0]
	for _, j := range journeys {
		k := j.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, j)
	}
	return out
}
