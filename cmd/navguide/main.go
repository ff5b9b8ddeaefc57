// cmd/navguide/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// navguide loads a flight plan from a navigation database, positions the
// aircraft, and prints the resulting readback and approach guidance. It
// is mostly useful for checking navigation data and guidance behavior
// without a simulator attached.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goforj/godump"
	av "github.com/skyvoice/navguide/aviation"
	"github.com/skyvoice/navguide/config"
	"github.com/skyvoice/navguide/log"
	"github.com/skyvoice/navguide/math"
	"github.com/skyvoice/navguide/nav"
)

var (
	configFile       = flag.String("config", "", "YAML configuration file")
	navDataFile      = flag.String("navdata", "", "navigation database (.json or .msgpack.zst)")
	convertFile      = flag.String("convert", "", "write the navigation database as zstd-compressed msgpack to this file and exit")
	departure        = flag.String("dep", "", "departure airport ICAO code")
	arrival          = flag.String("arr", "", "arrival airport ICAO code")
	runway           = flag.String("rwy", "", "arrival runway")
	sid              = flag.Int("sid", 0, "SID procedure id")
	star             = flag.Int("star", 0, "STAR procedure id")
	approach         = flag.Int("approach", 0, "approach procedure id")
	position         = flag.String("pos", "", "aircraft position, e.g. \"47.30, -122.50\"")
	altitude         = flag.Float64("alt", 0, "aircraft altitude (feet MSL)")
	heading          = flag.Float64("hdg", 0, "aircraft magnetic heading")
	visual           = flag.Bool("visual", false, "report visual approach guidance instead of ILS guidance")
	track            = flag.String("track", "", "track waypoints in slots, e.g. \"1:HAWKZ,3:JAWBN\"")
	find             = flag.String("find", "", "look up a waypoint in the flight plan")
	snapshotFile     = flag.String("snapshot", "", "write the final flight plan snapshot to this file")
	dump             = flag.Bool("dump", false, "dump the flight plan snapshot and guidance")
	logLevel         = flag.String("loglevel", "", "logging level: debug, info, warn, error")
	logDir           = flag.String("logdir", "", "log file directory")
	navLog           = flag.Bool("navlog", false, "enable navigation logging")
	navLogCategories = flag.String("navlog-categories", "all", "navigation log categories (comma-separated: ils,visual,plan)")
)

// printSink prints each published flight plan.
type printSink struct{}

func (printSink) PublishFlightPlan(s av.Snapshot) {
	if s.Plan.IsEmpty() {
		fmt.Printf("Flight plan empty (revision %d)\n", s.Seq)
		return
	}
	fmt.Printf("Flight plan (%d waypoints, revision %d)\n", s.Plan.Count(), s.Seq)
	for _, wp := range s.Plan.GetAllWaypoints() {
		fmt.Printf("  %-16s %-8s %s\n", wp.Section, wp.Marker, wp)
	}
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *configFile, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logDir != "" {
		cfg.Log.Dir = *logDir
	}
	if *navDataFile != "" {
		cfg.NavData = *navDataFile
	}

	// Initialize the logging system first and foremost.
	lg := log.New(cfg.Log.Level, cfg.Log.Dir)
	nav.InitNavLog(*navLog, *navLogCategories, *runway)

	if cfg.NavData == "" {
		fatalf(lg, "No navigation database specified; use -navdata or set %s", config.EnvNavData)
	}
	db, err := loadNavData(cfg.NavData)
	if err != nil {
		fatalf(lg, "%s: %v", cfg.NavData, err)
	}
	lg.Info("loaded navigation data", "path", cfg.NavData, "airports", len(db.Airports),
		"procedures", len(db.Procedures))

	if *convertFile != "" {
		if err := saveNavData(db, *convertFile); err != nil {
			fatalf(lg, "%s: %v", *convertFile, err)
		}
		return
	}

	provider := av.NewCachingProvider(db, cfg.Cache.Size, cfg.Cache.TTL)
	m := av.NewFlightPlanManager(provider, provider, lg)

	if err := loadFlightPlan(m); err != nil {
		fatalf(lg, "%v", err)
	}

	var pos av.Position
	if *position != "" {
		p, err := math.ParseLatLong([]byte(*position))
		if err != nil {
			fatalf(lg, "%v", err)
		}
		pos = av.Position{Location: p, Altitude: *altitude, Heading: *heading}

		magVar := cfg.MagneticVariation
		if arr, ok := m.Current().Arrival(); ok {
			magVar = arr.Airport.MagneticVariation
		} else if dep, ok := m.Current().Departure(); ok {
			magVar = dep.MagneticVariation
		}
		m.UpdateAircraftPosition(p, magVar)
	}

	snap := m.PublishTo(printSink{})
	fp := snap.Plan

	if *position != "" {
		if wp, ok := fp.NextWaypoint(pos.Heading); ok {
			if hour, ok := wp.ClockPosition(pos.Heading); ok {
				fmt.Printf("Next waypoint: %s, %d o'clock\n", wp, hour)
			} else {
				fmt.Printf("Next waypoint: %s\n", wp)
			}
		}
		if *visual {
			r := cfg.Visual.EvaluatePlan(nav.VisualResult{}, fp, pos)
			reportGuidance(r.Announcement(), r)
		} else {
			r := cfg.ILS.EvaluatePlan(nav.GuidanceResult{}, fp, pos)
			reportGuidance(r.Announcement(), r)
		}
	}

	if *find != "" {
		wps, suggestions := fp.FindWaypoint(*find)
		for _, wp := range wps {
			fmt.Println(wp)
		}
		if len(wps) == 0 {
			fmt.Printf("%s: %s", *find, av.ErrWaypointNotInFlightPlan)
			if len(suggestions) > 0 {
				fmt.Printf(" (did you mean %s?)", strings.Join(suggestions, ", "))
			}
			fmt.Println()
		}
	}

	if *track != "" {
		tracker := av.NewWaypointTracker(lg)
		if err := trackWaypoints(tracker, fp, *track); err != nil {
			fatalf(lg, "%v", err)
		}
		for slot := 1; slot <= av.NumTrackerSlots; slot++ {
			if _, ok, _ := tracker.Tracked(slot); ok {
				fmt.Printf("Slot %d: %s\n", slot, tracker.Describe(slot, fp))
			}
		}
	}

	if *dump {
		fmt.Println(snap.Dump())
	}

	if *snapshotFile != "" {
		if err := writeSnapshot(snap, *snapshotFile); err != nil {
			fatalf(lg, "%s: %v", *snapshotFile, err)
		}
	}
}

// fatalf logs the error and also reports it on stderr, since the log
// only goes to a file.
func fatalf(lg *log.Logger, format string, args ...any) {
	lg.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadNavData(path string) (*av.StaticDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return av.ReadStaticDBJSON(f)
	}
	return av.LoadStaticDB(f)
}

func saveNavData(db *av.StaticDB, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := db.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSnapshot(s av.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadFlightPlan(m *av.FlightPlanManager) error {
	if *departure != "" {
		if err := m.LoadDeparture(*departure); err != nil {
			return fmt.Errorf("departure: %w", err)
		}
	}
	if *sid != 0 {
		if err := m.LoadSID(*sid); err != nil {
			return fmt.Errorf("SID: %w", err)
		}
	}
	if *star != 0 {
		if err := m.LoadSTAR(*star); err != nil {
			return fmt.Errorf("STAR: %w", err)
		}
	}
	if *arrival != "" {
		if err := m.LoadArrival(*arrival, *runway); err != nil {
			return fmt.Errorf("arrival: %w", err)
		}
	}
	if *approach != 0 {
		if err := m.LoadApproach(*approach); err != nil {
			return fmt.Errorf("approach: %w", err)
		}
	}
	return nil
}

// trackWaypoints handles a comma-separated list of slot:ident pairs.
func trackWaypoints(tracker *av.WaypointTracker, fp av.FlightPlan, spec string) error {
	for _, entry := range strings.Split(spec, ",") {
		slotStr, ident, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return fmt.Errorf("%s: expected slot:waypoint", entry)
		}
		slot, err := strconv.Atoi(slotStr)
		if err != nil {
			return fmt.Errorf("%s: %w", slotStr, err)
		}

		wps, _ := fp.FindWaypoint(ident)
		if len(wps) == 0 {
			return fmt.Errorf("%s: %w", ident, av.ErrWaypointNotInFlightPlan)
		}
		if err := tracker.Track(slot, &wps[0]); err != nil {
			return err
		}
	}
	return nil
}

func reportGuidance(announcement string, result any) {
	if announcement == "" {
		fmt.Println("No approach guidance: no arrival runway loaded")
	} else {
		fmt.Println(announcement)
	}
	if *dump {
		godump.Dump(result)
	}
}
