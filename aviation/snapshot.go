// aviation/snapshot.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"io"
	"time"

	"github.com/goforj/godump"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is an immutable copy of a flight plan as of a particular
// change, for handing to components outside the navigation core.
type Snapshot struct {
	ID    uuid.UUID  `json:"id"`
	Seq   uint64     `json:"seq"`
	Taken time.Time  `json:"taken"`
	Plan  FlightPlan `json:"plan"`
}

type snapshotRecord struct {
	ID    string
	Seq   uint64
	Taken time.Time
	Plan  flightPlanRecord
}

// Encode writes the snapshot as zstd-compressed msgpack.
func (s Snapshot) Encode(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	rec := snapshotRecord{ID: s.ID.String(), Seq: s.Seq, Taken: s.Taken, Plan: s.Plan.record()}
	if err := msgpack.NewEncoder(zw).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return zw.Close()
}

func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var rec snapshotRecord
	if err := msgpack.NewDecoder(zr).Decode(&rec); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot id: %w", err)
	}
	return Snapshot{ID: id, Seq: rec.Seq, Taken: rec.Taken, Plan: rec.Plan.flightPlan()}, nil
}

// Dump returns a human-readable dump of the snapshot for debugging.
func (s Snapshot) Dump() string {
	return godump.DumpStr(snapshotRecord{ID: s.ID.String(), Seq: s.Seq, Taken: s.Taken, Plan: s.Plan.record()})
}
