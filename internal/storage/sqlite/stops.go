// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vpolyany/polyansky-bot/internal/transit"
)

// StopRepository persists physical stops and their display groupings.
type StopRepository struct {
	db *sql.DB
}

// NewStopRepository constructs the repository.
func NewStopRepository(db *sql.DB) *StopRepository {
	return &StopRepository{db: db}
}

// ByCode fetches one physical stop.
func (r *StopRepository) ByCode(ctx context.Context, code string) (transit.Stop, error) {
	const query = `
        SELECT code, name, address, latitude, longitude, side, is_active
          FROM stops
         WHERE code = ?
    `

	var s transit.Stop
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&s.Code,
		&s.Name,
		&s.Address,
		&s.Latitude,
		&s.Longitude,
		&s.Side,
		&s.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transit.Stop{}, transit.ErrNotFound
		}
		return transit.Stop{}, fmt.Errorf("stop by code: %w", err)
	}
	return s, nil
}

// DisplayStops lists the display stop names that have at least one active
// physical stop, ordered by Russian alphabet.
func (r *StopRepository) DisplayStops(ctx context.Context) ([]transit.DisplayStop, error) {
	const query = `
        SELECT DISTINCT d.name, d.search
          FROM display_stops d
          JOIN stops s ON s.name = d.name
         WHERE s.is_active = 1
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list display stops: %w", err)
	}
	defer rows.Close()

	var result []transit.DisplayStop
	for rows.Next() {
		var ds transit.DisplayStop
		if err := rows.Scan(&ds.Name, &ds.Search); err != nil {
			return nil, fmt.Errorf("scan display stop: %w", err)
		}
		result = append(result, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read display stops: %w", err)
	}

	// SQLite cannot collate Cyrillic, so order in memory.
	c := collate.New(language.Russian)
	c.Sort(displayStopsByName(result))
	return result, nil
}

type displayStopsByName []transit.DisplayStop

func (s displayStopsByName) Len() int           { return len(s) }
func (s displayStopsByName) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s displayStopsByName) Bytes(i int) []byte { return []byte(s[i].Name) }

// StopCodes resolves a display name to its active physical stop codes.
// Part of the planner's schedule source.
func (r *StopRepository) StopCodes(ctx context.Context, displayName string) ([]string, error) {
	const query = `
        SELECT code
          FROM stops
         WHERE name = ? AND is_active = 1
         ORDER BY code
    `

	rows, err := r.db.QueryContext(ctx, query, displayName)
	if err != nil {
		return nil, fmt.Errorf("stop codes for %q: %w", displayName, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan stop code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stop codes: %w", err)
	}
	return codes, nil
}

// ActiveStops returns every active physical stop.
func (r *StopRepository) ActiveStops(ctx context.Context) ([]transit.Stop, error) {
	const query = `
        SELECT code, name, address, latitude, longitude, side, is_active
          FROM stops
         WHERE is_active = 1
         ORDER BY code
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	defer rows.Close()

	var result []transit.Stop
	for rows.Next() {
		var s transit.Stop
		if err := rows.Scan(&s.Code, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.Side, &s.Active); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stops: %w", err)
	}
	return result, nil
}

// Nearest returns up to limit active stops closest to the given point.
func (r *StopRepository) Nearest(ctx context.Context, lat, lon float64, limit int) ([]transit.StopDistance, error) {
	stops, err := r.ActiveStops(ctx)
	if err != nil {
		return nil, err
	}
	return transit.Nearest(stops, lat, lon, limit), nil
}

// UpsertDisplayStop inserts or refreshes a display stop grouping.
func (r *StopRepository) UpsertDisplayStop(ctx context.Context, ds transit.DisplayStop) error {
	const query = `
        INSERT INTO display_stops (name, search) VALUES (?, ?)
        ON CONFLICT (name) DO UPDATE SET search = excluded.search
    `
	if _, err := r.db.ExecContext(ctx, query, ds.Name, ds.Search); err != nil {
		return fmt.Errorf("upsert display stop %q: %w", ds.Name, err)
	}
	return nil
}

// UpsertStop inserts or refreshes a physical stop.
func (r *StopRepository) UpsertStop(ctx context.Context, s transit.Stop) error {
	const query = `
        INSERT INTO stops (code, name, address, latitude, longitude, side, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (code) DO UPDATE SET
            name      = excluded.name,
            address   = excluded.address,
            latitude  = excluded.latitude,
            longitude = excluded.longitude,
            side      = excluded.side,
            is_active = excluded.is_active
    `
	if _, err := r.db.ExecContext(ctx, query, s.Code, s.Name, s.Address, s.Latitude, s.Longitude, s.Side, s.Active); err != nil {
		return fmt.Errorf("upsert stop %q: %w", s.Code, err)
	}
	return nil
}
