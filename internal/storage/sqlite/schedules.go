// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vpolyany/polyansky-bot/internal/transit"
)

// ScheduleRepository persists per-stop arrival times grouped into trips.
// It is the planner's schedule source.
type ScheduleRepository struct {
	db    *sql.DB
	stops *StopRepository
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db, stops: NewStopRepository(db)}
}

// StopCodes resolves a display name to its active stop codes.
func (r *ScheduleRepository) StopCodes(ctx context.Context, displayName string) ([]string, error) {
	return r.stops.StopCodes(ctx, displayName)
}

// TripsVia returns every trip calling at one of the given stop codes on the
// given weekday, each with its full ordered stop sequence.
func (r *ScheduleRepository) TripsVia(ctx context.Context, codes []string, day time.Weekday) ([]transit.Trip, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	query := fmt.Sprintf(`
        SELECT ss.trip_id, ss.route_name, ss.stop_code, s.name, ss.arrival, ss.days, ss.is_active
          FROM stop_schedules ss
          JOIN stops s ON s.code = ss.stop_code
         WHERE ss.is_active = 1
           AND ss.trip_id IN (
               SELECT DISTINCT trip_id
                 FROM stop_schedules
                WHERE stop_code IN (%s)
                  AND is_active = 1
                  AND (days & ?) != 0
           )
         ORDER BY ss.trip_id, ss.position
    `, placeholders)

	args := make([]any, 0, len(codes)+1)
	for _, c := range codes {
		args = append(args, c)
	}
	args = append(args, int(transit.DayBit(day)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trips via stops: %w", err)
	}
	defer rows.Close()

	var trips []transit.Trip
	for rows.Next() {
		var (
			st   transit.StopTime
			raw  string
			days int
		)
		if err := rows.Scan(&st.TripID, &st.RouteName, &st.StopCode, &st.StopName, &raw, &days, &st.Active); err != nil {
			return nil, fmt.Errorf("scan stop time: %w", err)
		}
		st.Arrival, err = transit.ParseDayTime(raw)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", st.TripID, err)
		}
		st.Days = transit.ServiceDays(days)

		if n := len(trips); n == 0 || trips[n-1].ID != st.TripID {
			trips = append(trips, transit.Trip{ID: st.TripID, RouteName: st.RouteName})
		}
		last := &trips[len(trips)-1]
		last.Times = append(last.Times, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stop times: %w", err)
	}
	return trips, nil
}

// ReplaceTrip rewrites the full stop sequence of one trip.
func (r *ScheduleRepository) ReplaceTrip(ctx context.Context, trip transit.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace trip %s: begin: %w", trip.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM stop_schedules WHERE trip_id = ?`, trip.ID); err != nil {
		return fmt.Errorf("replace trip %s: clear: %w", trip.ID, err)
	}

	const insert = `
        INSERT INTO stop_schedules (trip_id, route_name, stop_code, position, arrival, days, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	for i, st := range trip.Times {
		if _, err := tx.ExecContext(ctx, insert,
			trip.ID, trip.RouteName, st.StopCode, i, st.Arrival.String(), int(st.Days), st.Active,
		); err != nil {
			return fmt.Errorf("replace trip %s: insert stop %s: %w", trip.ID, st.StopCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace trip %s: commit: %w", trip.ID, err)
	}
	return nil
}
