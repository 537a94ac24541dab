// Package tracker folds a stream of fixes into the growing line of the
// current walk.
package tracker

import (
	"math"
	"slices"
	"sync"

	"github.com/rotblauer/transectd/geo"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/track"
)

// Accumulator appends every fix it is given as exactly one track
// point, carrying cumulative ground distance. It never filters: jitter
// at a standstill and zero-length legs are recorded as-is, that is the
// caller's raw record of the walk.
//
// Safe for concurrent use. The zero value is ready.
type Accumulator struct {
	mu       sync.Mutex
	points   []track.TrackPoint
	distance float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append records the fix and returns the resulting track point. The
// first point is at distance zero; each later point adds the haversine
// leg from its predecessor.
func (a *Accumulator) Append(f fix.Fix) track.TrackPoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.points); n > 0 {
		prev := a.points[n-1]
		leg := geo.DistanceMeters(prev.Lat, prev.Lng, f.Lat, f.Lng)
		if !math.IsNaN(leg) {
			a.distance += leg
		}
	}
	tp := track.FromFix(f, a.distance)
	a.points = append(a.points, tp)
	return tp
}

// Snapshot returns a value copy of the accumulated track. Later
// appends, or writes through the returned slice, do not affect it.
func (a *Accumulator) Snapshot() track.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return track.Snapshot{
		Points:   slices.Clone(a.points),
		Distance: a.distance,
	}
}

func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.points)
}

// Distance is the cumulative ground distance in meters.
func (a *Accumulator) Distance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.distance
}

// Reset drops the accumulated line. Idempotent; resetting an empty
// accumulator is a no-op.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.points = nil
	a.distance = 0
}
