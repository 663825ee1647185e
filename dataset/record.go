package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Unassigned is the cluster id of a record that was never assigned.
const Unassigned = -1

// Record is one labeled feature vector.
type Record struct {
	ID     string
	Coords []float64

	// Cluster is the assigned cluster id in [0, k), or Unassigned.
	Cluster int
	// BestDistance is the distance to the assigned centroid; +Inf until assigned.
	BestDistance float64
}

// NewRecord returns an unassigned record holding a copy of coords.
func NewRecord(id string, coords []float64) Record {
	return Record{
		ID:           id,
		Coords:       slices.Clone(coords),
		Cluster:      Unassigned,
		BestDistance: math.Inf(1),
	}
}

// Dim returns the dimensionality of the record.
func (r Record) Dim() int { return len(r.Coords) }

// Assigned reports whether the record carries a cluster id.
func (r Record) Assigned() bool { return r.Cluster != Unassigned }

// Clone returns a deep copy.
func (r Record) Clone() Record {
	r.Coords = slices.Clone(r.Coords)
	return r
}

// ErrInvalidID is returned for identifiers the file format cannot represent.
var ErrInvalidID = errors.New("invalid identifier")

// ValidateID rejects identifiers that are empty or would corrupt a line.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if i := strings.IndexAny(id, ",\r\n"); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidID, id, id[i])
	}
	return nil
}

// Dedupe returns records with every identifier kept once, first occurrence wins.
// The input slice is not modified.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
