// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vpolyany/polyansky-bot/internal/transit"
)

// RouteRepository persists bus routes and their stop sequences.
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository constructs the repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// List returns all active routes ordered by name.
func (r *RouteRepository) List(ctx context.Context) ([]transit.Route, error) {
	const query = `
        SELECT name, origin_code, destination_code, description, color, is_active
          FROM routes
         WHERE is_active = 1
         ORDER BY name
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var result []transit.Route
	for rows.Next() {
		var rt transit.Route
		if err := rows.Scan(&rt.Name, &rt.OriginCode, &rt.DestinationCode, &rt.Description, &rt.Color, &rt.Active); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		result = append(result, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	return result, nil
}

// ByName fetches one route.
func (r *RouteRepository) ByName(ctx context.Context, name string) (transit.Route, error) {
	const query = `
        SELECT name, origin_code, destination_code, description, color, is_active
          FROM routes
         WHERE name = ?
    `

	var rt transit.Route
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&rt.Name,
		&rt.OriginCode,
		&rt.DestinationCode,
		&rt.Description,
		&rt.Color,
		&rt.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transit.Route{}, transit.ErrNotFound
		}
		return transit.Route{}, fmt.Errorf("route by name: %w", err)
	}
	return rt, nil
}

// StopNames returns the display names along a route in travel order.
func (r *RouteRepository) StopNames(ctx context.Context, routeName string) ([]string, error) {
	const query = `
        SELECT s.name
          FROM route_stops rs
          JOIN stops s ON s.code = rs.stop_code
         WHERE rs.route_name = ?
         ORDER BY rs.stop_order
    `

	rows, err := r.db.QueryContext(ctx, query, routeName)
	if err != nil {
		return nil, fmt.Errorf("route stops for %q: %w", routeName, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan route stop: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read route stops: %w", err)
	}
	return names, nil
}

// Departures lists the scheduled departures of a route from its origin.
func (r *RouteRepository) Departures(ctx context.Context, routeName string) ([]transit.DayTime, error) {
	const query = `
        SELECT departure
          FROM route_schedules
         WHERE route_name = ? AND is_active = 1
         ORDER BY departure
    `

	rows, err := r.db.QueryContext(ctx, query, routeName)
	if err != nil {
		return nil, fmt.Errorf("departures for %q: %w", routeName, err)
	}
	defer rows.Close()

	var result []transit.DayTime
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan departure: %w", err)
		}
		dt, err := transit.ParseDayTime(raw)
		if err != nil {
			return nil, fmt.Errorf("departure for %q: %w", routeName, err)
		}
		result = append(result, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read departures: %w", err)
	}
	return result, nil
}

// UpsertRoute inserts or refreshes a route.
func (r *RouteRepository) UpsertRoute(ctx context.Context, rt transit.Route) error {
	const query = `
        INSERT INTO routes (name, origin_code, destination_code, description, color, is_active)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (name) DO UPDATE SET
            origin_code      = excluded.origin_code,
            destination_code = excluded.destination_code,
            description      = excluded.description,
            color            = excluded.color,
            is_active        = excluded.is_active
    `
	if _, err := r.db.ExecContext(ctx, query, rt.Name, rt.OriginCode, rt.DestinationCode, rt.Description, rt.Color, rt.Active); err != nil {
		return fmt.Errorf("upsert route %q: %w", rt.Name, err)
	}
	return nil
}

// UpsertRouteStop pins a stop to a route position.
func (r *RouteRepository) UpsertRouteStop(ctx context.Context, rs transit.RouteStop) error {
	const query = `
        INSERT INTO route_stops (route_name, stop_code, stop_order)
        VALUES (?, ?, ?)
        ON CONFLICT (route_name, stop_code) DO UPDATE SET stop_order = excluded.stop_order
    `
	if _, err := r.db.ExecContext(ctx, query, rs.RouteName, rs.StopCode, rs.Order); err != nil {
		return fmt.Errorf("upsert route stop %s/%s: %w", rs.RouteName, rs.StopCode, err)
	}
	return nil
}

// UpsertDeparture records one origin departure of a route.
func (r *RouteRepository) UpsertDeparture(ctx context.Context, routeName string, departure transit.DayTime, days transit.ServiceDays) error {
	const query = `
        INSERT INTO route_schedules (route_name, departure, days, is_active)
        VALUES (?, ?, ?, 1)
        ON CONFLICT (route_name, departure) DO UPDATE SET days = excluded.days, is_active = 1
    `
	if _, err := r.db.ExecContext(ctx, query, routeName, departure.String(), int(days)); err != nil {
		return fmt.Errorf("upsert departure %s %s: %w", routeName, departure, err)
	}
	return nil
}
