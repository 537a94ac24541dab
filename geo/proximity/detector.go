// Package proximity decides which points of interest a position has
// newly entered, and remembers what it has already announced.
package proximity

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rotblauer/transectd/geo"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/poi"
)

// A Hit is one POI whose geofence the current position is inside,
// paired with the measured distance in meters.
type Hit struct {
	POI    poi.POI `json:"poi"`
	Meters float64 `json:"meters"`
}

// Detector is the stateful half of proximity checking: it filters a POI
// list against a position and suppresses anything it has already
// returned. Suppression policy comes from the config: by default a POI
// fires at most once per detector lifetime; with RearmAfter set, a POI
// re-arms that long after it fired.
//
// The zero value is not usable; use NewDetector.
type Detector struct {
	config params.ProximityConfig

	mu    sync.Mutex
	fired map[string]time.Time
	rearm *ttlcache.Cache[string, time.Time]
}

func NewDetector(config params.ProximityConfig) *Detector {
	d := &Detector{
		config: config,
		fired:  map[string]time.Time{},
	}
	if config.RearmAfter > 0 {
		d.rearm = ttlcache.New[string, time.Time](
			ttlcache.WithTTL[string, time.Time](config.RearmAfter),
			ttlcache.WithDisableTouchOnHit[string, time.Time](),
		)
	}
	return d
}

// Evaluate returns the POIs newly entered at (lat, lng): active, within
// their notification radius, and not currently suppressed. Every POI
// returned is suppressed immediately, before any caller-side
// persistence happens, so a repeat call at the same or a closer
// position returns nothing.
//
// Results preserve the input list's order. An empty or nil list yields
// an empty result. POIs with non-finite coordinates are skipped, never
// fatal.
func (d *Detector) Evaluate(lat, lng float64, pois []poi.POI) []Hit {
	hits := []Hit{}
	if len(pois) == 0 {
		return hits
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	for _, p := range pois {
		if !p.Active {
			continue
		}
		if !p.HasFiniteCoordinates() {
			continue
		}
		if d.suppressed(p.ID) {
			continue
		}
		dist := geo.DistanceMeters(lat, lng, p.Lat, p.Lng)
		if math.IsNaN(dist) || dist > p.NotificationRadius() {
			continue
		}
		d.suppress(p.ID, now)
		hits = append(hits, Hit{POI: p, Meters: dist})
	}
	return hits
}

// MarkVisited suppresses a POI as if it had just been returned by
// Evaluate. Idempotent. Callers use it to seed a fresh detector from
// persisted visited flags, keeping a recreated instance consistent.
func (d *Detector) MarkVisited(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suppress(id, time.Now())
}

// Suppressed reports whether the POI is currently muted.
func (d *Detector) Suppressed(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suppressed(id)
}

// Reset forgets all suppressions. Everything can fire again.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fired = map[string]time.Time{}
	if d.rearm != nil {
		d.rearm.DeleteAll()
	}
}

func (d *Detector) suppress(id string, at time.Time) {
	if d.rearm != nil {
		d.rearm.Set(id, at, ttlcache.DefaultTTL)
		return
	}
	if _, ok := d.fired[id]; !ok {
		d.fired[id] = at
	}
}

func (d *Detector) suppressed(id string) bool {
	if d.rearm != nil {
		return d.rearm.Get(id) != nil
	}
	_, ok := d.fired[id]
	return ok
}

// SortHitsByDistance orders hits nearest first, for presentation.
// Evaluate itself never sorts; callers that care about input-order
// stability get it by default.
func SortHitsByDistance(hits []Hit) {
	slices.SortStableFunc(hits, func(a, b Hit) int {
		if a.Meters < b.Meters {
			return -1
		}
		if a.Meters > b.Meters {
			return 1
		}
		return 0
	})
}
