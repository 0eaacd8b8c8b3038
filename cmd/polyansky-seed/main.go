// SPDX-License-Identifier: MIT

// polyansky-seed imports the bus network reference data (stops, routes and
// schedules) from CSV files into the bot database.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vpolyany/polyansky-bot/internal/config"
	"github.com/vpolyany/polyansky-bot/internal/log"
	"github.com/vpolyany/polyansky-bot/internal/storage/sqlite"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

func main() {
	dbPath := flag.String("db", "", "path to the SQLite database (defaults to POLYANSKY_DB_PATH)")
	dataDir := flag.String("data", "data", "directory with the CSV files")
	flag.Parse()

	log.Configure(log.Config{Level: "info", Service: "polyansky-seed"})
	logger := log.WithComponent("seed").With().
		Str("batch_id", uuid.NewString()).
		Logger()

	path := *dbPath
	if path == "" {
		path = config.ParseString("POLYANSKY_DB_PATH", config.Defaults().DBPath)
	}

	ctx := context.Background()

	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	if err != nil {
		logger.Fatal().Err(err).Str("db_path", path).Msg("cannot open database")
	}
	defer db.Close()

	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	imp := &importer{
		stops:         sqlite.NewStopRepository(db),
		routes:        sqlite.NewRouteRepository(db),
		schedules:     sqlite.NewScheduleRepository(db),
		logger:        logger,
		stopNames:     make(map[string]string),
		stopsPerRoute: make(map[string]int),
		routeNames:    make(map[string]bool),
	}

	if err := imp.run(ctx, *dataDir); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
	logger.Info().Str("event", "seed.done").Msg("import completed")
}

type importer struct {
	stops     *sqlite.StopRepository
	routes    *sqlite.RouteRepository
	schedules *sqlite.ScheduleRepository
	logger    zerolog.Logger

	stopNames     map[string]string // code -> display name
	stopsPerRoute map[string]int
	routeNames    map[string]bool
}

func (imp *importer) run(ctx context.Context, dataDir string) error {
	if err := imp.loadStops(ctx, filepath.Join(dataDir, "stops.csv")); err != nil {
		return err
	}
	if err := imp.loadRoutes(ctx, filepath.Join(dataDir, "routes.csv")); err != nil {
		return err
	}
	if err := imp.loadRouteStops(ctx, filepath.Join(dataDir, "route_stops.csv")); err != nil {
		return err
	}

	// Route departure boards are optional.
	routeSchedules := filepath.Join(dataDir, "route_schedules.csv")
	if _, err := os.Stat(routeSchedules); err == nil {
		if err := imp.loadRouteSchedules(ctx, routeSchedules); err != nil {
			return err
		}
	} else {
		imp.logger.Info().Str("path", routeSchedules).Msg("no route schedules file, skipping")
	}

	return imp.loadStopSchedules(ctx, filepath.Join(dataDir, "stop_schedules.csv"))
}

// loadStops imports physical stops and derives one display stop per distinct
// name.
func (imp *importer) loadStops(ctx context.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	seenNames := make(map[string]bool)
	count := 0
	for _, row := range rows {
		lat, err := strconv.ParseFloat(row["latitude"], 64)
		if err != nil {
			imp.logger.Warn().Str("code", row["code"]).Msg("bad latitude, skipping stop")
			continue
		}
		lon, err := strconv.ParseFloat(row["longitude"], 64)
		if err != nil {
			imp.logger.Warn().Str("code", row["code"]).Msg("bad longitude, skipping stop")
			continue
		}

		name := row["name"]
		if !seenNames[name] {
			ds := transit.DisplayStop{Name: name, Search: strings.ToLower(name)}
			if err := imp.stops.UpsertDisplayStop(ctx, ds); err != nil {
				return err
			}
			seenNames[name] = true
		}

		stop := transit.Stop{
			Code:      row["code"],
			Name:      name,
			Address:   row["address"],
			Latitude:  lat,
			Longitude: lon,
			Side:      row["side_identifier"],
			Active:    parseBool(row["is_active"]),
		}
		if err := imp.stops.UpsertStop(ctx, stop); err != nil {
			return err
		}
		imp.stopNames[stop.Code] = name
		count++
	}

	imp.logger.Info().
		Int("stops", count).
		Int("display_stops", len(seenNames)).
		Str("event", "seed.stops").
		Msg("stops imported")
	return nil
}

func (imp *importer) loadRoutes(ctx context.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	for _, row := range rows {
		route := transit.Route{
			Name:            row["name"],
			OriginCode:      row["origin_stop_code"],
			DestinationCode: row["destination_stop_code"],
			Description:     row["description"],
			Color:           row["color"],
			Active:          parseBool(row["is_active"]),
		}
		if err := imp.routes.UpsertRoute(ctx, route); err != nil {
			return err
		}
		imp.routeNames[route.Name] = true
	}

	imp.logger.Info().
		Int("routes", len(imp.routeNames)).
		Str("event", "seed.routes").
		Msg("routes imported")
	return nil
}

func (imp *importer) loadRouteStops(ctx context.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	count := 0
	for _, row := range rows {
		routeName := row["route_name"]
		stopCode := row["stop_code"]
		if !imp.routeNames[routeName] {
			imp.logger.Warn().Str("route", routeName).Msg("unknown route, skipping route stop")
			continue
		}
		if _, ok := imp.stopNames[stopCode]; !ok {
			imp.logger.Warn().Str("stop_code", stopCode).Msg("unknown stop, skipping route stop")
			continue
		}
		order, err := strconv.Atoi(row["stop_order"])
		if err != nil {
			return fmt.Errorf("%s: bad stop_order %q", path, row["stop_order"])
		}

		rs := transit.RouteStop{RouteName: routeName, StopCode: stopCode, Order: order}
		if err := imp.routes.UpsertRouteStop(ctx, rs); err != nil {
			return err
		}
		imp.stopsPerRoute[routeName]++
		count++
	}

	imp.logger.Info().
		Int("route_stops", count).
		Str("event", "seed.route_stops").
		Msg("route stop configurations imported")
	return nil
}

func (imp *importer) loadRouteSchedules(ctx context.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	count := 0
	for _, row := range rows {
		routeName := row["route_name"]
		if !imp.routeNames[routeName] {
			imp.logger.Warn().Str("route", routeName).Msg("unknown route, skipping departure")
			continue
		}
		departure, err := transit.ParseDayTime(row["departure_time"])
		if err != nil {
			imp.logger.Warn().
				Str("route", routeName).
				Str("departure_time", row["departure_time"]).
				Msg("bad departure time, skipping")
			continue
		}
		if err := imp.routes.UpsertDeparture(ctx, routeName, departure, parseServiceDays(row["service_days"])); err != nil {
			return err
		}
		count++
	}

	imp.logger.Info().
		Int("departures", count).
		Str("event", "seed.route_schedules").
		Msg("route departure boards imported")
	return nil
}

// stopScheduleRow is one arrival before trip assignment.
type stopScheduleRow struct {
	routeName string
	stopCode  string
	arrival   transit.DayTime
	days      transit.ServiceDays
	active    bool
}

type tripGroup struct {
	routeName string
	days      transit.ServiceDays
}

// loadStopSchedules imports per-stop arrivals and groups them into trips.
// Arrivals sharing a route and service days are sorted by time; every N
// consecutive rows form one trip, where N is the number of stops on the
// route.
func (imp *importer) loadStopSchedules(ctx context.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	groups := make(map[tripGroup][]stopScheduleRow)
	skipped := 0
	for _, row := range rows {
		routeName := row["route_name"]
		stopCode := row["stop_code"]
		if !imp.routeNames[routeName] {
			skipped++
			continue
		}
		if _, ok := imp.stopNames[stopCode]; !ok {
			skipped++
			continue
		}
		arrival, err := transit.ParseDayTime(row["arrival_time"])
		if err != nil {
			imp.logger.Warn().
				Str("arrival_time", row["arrival_time"]).
				Msg("bad arrival time, skipping")
			skipped++
			continue
		}

		days := parseServiceDays(row["service_days"])
		key := tripGroup{routeName: routeName, days: days}
		groups[key] = append(groups[key], stopScheduleRow{
			routeName: routeName,
			stopCode:  stopCode,
			arrival:   arrival,
			days:      days,
			active:    parseBool(row["is_active"]),
		})
	}

	// Deterministic trip numbering across runs.
	keys := make([]tripGroup, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].routeName != keys[j].routeName {
			return keys[i].routeName < keys[j].routeName
		}
		return keys[i].days < keys[j].days
	})

	trips := 0
	arrivals := 0
	// Trip numbers run per route across all service-day groups, so a
	// weekday and a weekend group of the same route never share an ID.
	tripSeq := make(map[string]int)
	for _, key := range keys {
		rows := groups[key]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].arrival < rows[j].arrival
		})

		numStops := imp.stopsPerRoute[key.routeName]
		if numStops < 1 {
			numStops = 1
		}

		for start := 0; start < len(rows); start += numStops {
			end := start + numStops
			if end > len(rows) {
				end = len(rows)
			}
			tripSeq[key.routeName]++
			trip := transit.Trip{
				ID:        fmt.Sprintf("%s_trip_%03d", key.routeName, tripSeq[key.routeName]),
				RouteName: key.routeName,
			}
			for _, r := range rows[start:end] {
				trip.Times = append(trip.Times, transit.StopTime{
					TripID:    trip.ID,
					RouteName: r.routeName,
					StopCode:  r.stopCode,
					Arrival:   r.arrival,
					Days:      r.days,
					Active:    r.active,
				})
			}
			if err := imp.schedules.ReplaceTrip(ctx, trip); err != nil {
				return err
			}
			trips++
			arrivals += len(trip.Times)
		}
	}

	ev := imp.logger.Info().
		Int("trips", trips).
		Int("arrivals", arrivals).
		Str("event", "seed.stop_schedules")
	if skipped > 0 {
		ev = ev.Int("skipped", skipped)
	}
	ev.Msg("stop schedules imported")
	return nil
}

// readCSV loads a header-keyed CSV file with whitespace-trimmed fields.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, field := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(field)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseServiceDays defaults to daily service when the column is absent.
func parseServiceDays(s string) transit.ServiceDays {
	if s == "" {
		return transit.Daily
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > int(transit.Daily) {
		return transit.Daily
	}
	return transit.ServiceDays(n)
}
