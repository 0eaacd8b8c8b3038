// SPDX-License-Identifier: MIT

// Package transit holds the bus network domain model and the journey planner.
package transit

import (
	"fmt"
	"strings"
	"time"
)

// Stop is a physical bus stop. Stops on opposite sides of the road share a
// display name but carry distinct codes and a side identifier.
type Stop struct {
	Code      string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Side      string
	Active    bool
}

// DisplayStop is the user-facing stop name grouping one or more physical
// stops. Search holds the normalized haystack used for fuzzy matching.
type DisplayStop struct {
	Name   string
	Search string
}

// Route is a bus line.
type Route struct {
	Name            string
	OriginCode      string
	DestinationCode string
	Description     string
	Color           string
	Active          bool
}

// RouteStop pins a stop to a route at a fixed position.
type RouteStop struct {
	RouteName string
	StopCode  string
	Order     int
}

// StopTime is one scheduled arrival of a trip at a stop.
type StopTime struct {
	TripID    string
	RouteName string
	StopCode  string
	StopName  string
	Arrival   DayTime
	Days      ServiceDays
	Active    bool
}

// Trip is the ordered sequence of stop times sharing a trip ID.
type Trip struct {
	ID        string
	RouteName string
	Times     []StopTime
}

// Segment is one bus ride within a journey.
type Segment struct {
	RouteName string
	From      StopTime
	To        StopTime
	Duration  time.Duration
}

// Journey is a complete trip from origin to destination, possibly with
// transfers.
type Journey struct {
	Segments  []Segment
	Departure DayTime
	Arrival   DayTime
	Duration  time.Duration
	Transfers int
}

// Direct reports whether the journey has no transfers.
func (j Journey) Direct() bool {
	return len(j.Segments) == 1
}

// Key identifies a journey for deduplication: same route chain, same times.
func (j Journey) Key() string {
	var b strings.Builder
	for _, s := range j.Segments {
		b.WriteString(s.RouteName)
		b.WriteByte('|')
	}
	fmt.Fprintf(&b, "%s|%s", j.Departure, j.Arrival)
	return b.String()
}

// Less orders journeys: fewer transfers first, then shorter, then earlier.
func (j Journey) Less(other Journey) bool {
	if j.Transfers != other.Transfers {
		return j.Transfers < other.Transfers
	}
	if j.Duration != other.Duration {
		return j.Duration < other.Duration
	}
	if j.Departure != other.Departure {
		return j.Departure < other.Departure
	}
	return j.Arrival < other.Arrival
}
