// aviation/db.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/skyvoice/navguide/math"
	"github.com/skyvoice/navguide/util"
	"github.com/vmihailenco/msgpack/v5"
)

// StaticDB is an in-memory NavDataProvider holding airports keyed by ICAO
// code and procedures keyed by id.
type StaticDB struct {
	Airports   map[string]Airport `json:"airports"`
	Procedures map[int]Procedure  `json:"procedures"`
}

func (db *StaticDB) Airport(icao string) (Airport, error) {
	ap, ok := db.Airports[strings.ToUpper(strings.TrimSpace(icao))]
	if !ok {
		return Airport{}, fmt.Errorf("%s: %w", icao, ErrUnknownAirport)
	}
	return ap, nil
}

func (db *StaticDB) Procedure(id int) (Procedure, error) {
	p, ok := db.Procedures[id]
	if !ok {
		return Procedure{}, fmt.Errorf("%d: %w", id, ErrUnknownProcedure)
	}
	return p, nil
}

// ReadStaticDBJSON reads a StaticDB from its JSON representation.
// Duplicate keys are reported as errors along with any validation
// failures.
func ReadStaticDBJSON(r io.Reader) (*StaticDB, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var db StaticDB
	if err := util.UnmarshalJSONBytes(b, &db); err != nil {
		return nil, err
	}

	var e util.ErrorLogger
	e.Push("JSON")
	for _, dup := range util.FindDuplicateJSONKeys(b) {
		e.ErrorString("%q: duplicate key %q", dup.Path, dup.Key)
	}
	if err := db.PostDeserialize(); err != nil {
		e.Error(err)
	}
	return &db, e.Err()
}

// LoadStaticDB reads a StaticDB stored as zstd-compressed msgpack, as
// written by Save.
func LoadStaticDB(r io.Reader) (*StaticDB, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var db StaticDB
	if err := msgpack.NewDecoder(zr).Decode(&db); err != nil {
		return nil, fmt.Errorf("failed to decode navigation data: %w", err)
	}
	return &db, db.PostDeserialize()
}

func (db *StaticDB) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(db); err != nil {
		return fmt.Errorf("failed to encode navigation data: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// PostDeserialize normalizes identifiers, fills in runway headings that
// the source omitted, and checks the data for consistency. All problems
// found are reported together.
func (db *StaticDB) PostDeserialize() error {
	var e util.ErrorLogger

	airports := make(map[string]Airport, len(db.Airports))
	for _, key := range util.SortedMapKeys(db.Airports) {
		ap := db.Airports[key]
		icao := strings.ToUpper(key)
		if ap.ICAO == "" {
			ap.ICAO = icao
		}

		e.Push("Airport " + icao)
		if !strings.EqualFold(ap.ICAO, icao) {
			e.ErrorString("ICAO code %q doesn't match key", ap.ICAO)
		}
		if ap.Location.IsZero() {
			e.ErrorString("no location")
		}

		ap.Runways = util.DuplicateSlice(ap.Runways)
		for i := range ap.Runways {
			rwy := &ap.Runways[i]
			e.Push("Runway " + rwy.Id)
			if rwy.Threshold.IsZero() || rwy.End.IsZero() {
				e.ErrorString("missing threshold or end")
			} else if rwy.Threshold == rwy.End {
				e.ErrorString("threshold and end are the same point")
			} else if rwy.TrueHeading == 0 && rwy.MagneticHeading == 0 {
				rwy.TrueHeading = math.TrueBearing2LL(rwy.Threshold, rwy.End)
				rwy.MagneticHeading = math.NormalizeHeading(rwy.TrueHeading - ap.MagneticVariation)
			}
			e.Pop()
		}
		e.Pop()

		airports[icao] = ap
	}
	db.Airports = airports

	for _, id := range util.SortedMapKeys(db.Procedures) {
		p := db.Procedures[id]
		if p.Id == 0 {
			p.Id = id
		}
		p.Airport = strings.ToUpper(p.Airport)

		e.Push("Procedure " + strconv.Itoa(id) + " " + p.Name)
		if p.Id != id {
			e.ErrorString("id %d doesn't match key", p.Id)
		}
		if len(p.Waypoints) == 0 {
			e.Error(ErrEmptyProcedure)
		}
		for _, wp := range p.Waypoints {
			if wp.Ident == "" {
				e.ErrorString("waypoint without identifier")
			}
		}
		if p.Airport != "" {
			if ap, ok := db.Airports[p.Airport]; !ok {
				e.ErrorString("%s: unknown airport", p.Airport)
			} else if p.Runway != "" {
				if _, ok := ap.Runway(p.Runway); !ok {
					e.ErrorString("%s: unknown runway at %s", p.Runway, p.Airport)
				}
			}
		}
		e.Pop()

		db.Procedures[id] = p
	}

	return e.Err()
}
