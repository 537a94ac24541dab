package proximity

import (
	"math"
	"slices"

	"github.com/golang/geo/s2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/poi"
)

// Index buckets POIs by S2 cell so a position check scans a
// neighborhood instead of the whole list. At the default level 13 the
// minimum cell edge is around 850 meters, so a 3x3 cell patch around
// the query point is guaranteed to contain every POI whose fence radius
// is at most IndexCoverage meters. POIs with larger fences go to an
// overflow list that is always scanned.
//
// Candidate sets come back in the POI list's original order, so
// evaluating them yields the same hits, in the same order, as a scan of
// the full list.
type Index struct {
	level    int
	coverage float64
	pois     []poi.POI
	cells    map[s2.CellID][]int
	overflow []int
	cache    *lru.Cache[s2.CellID, []int]
}

func NewIndex(pois []poi.POI, config params.ProximityConfig) (*Index, error) {
	cache, err := lru.New[s2.CellID, []int](config.IndexCacheSize)
	if err != nil {
		return nil, err
	}
	idx := &Index{
		level:    config.IndexLevel,
		coverage: config.IndexCoverage,
		pois:     pois,
		cells:    map[s2.CellID][]int{},
		cache:    cache,
	}
	for i, p := range pois {
		if !p.HasFiniteCoordinates() {
			continue
		}
		if p.NotificationRadius() > idx.coverage {
			idx.overflow = append(idx.overflow, i)
			continue
		}
		cell := idx.cellAt(p.Lat, p.Lng)
		idx.cells[cell] = append(idx.cells[cell], i)
	}
	return idx, nil
}

func (x *Index) Len() int { return len(x.pois) }

// Near returns the POIs that could possibly contain (lat, lng), in
// their original list order. A non-finite query falls back to the full
// list.
func (x *Index) Near(lat, lng float64) []poi.POI {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return x.pois
	}
	center := x.cellAt(lat, lng)
	indices, ok := x.cache.Get(center)
	if !ok {
		indices = x.gather(center)
		x.cache.Add(center, indices)
	}
	out := make([]poi.POI, len(indices))
	for i, n := range indices {
		out[i] = x.pois[n]
	}
	return out
}

func (x *Index) gather(center s2.CellID) []int {
	indices := []int{}
	indices = append(indices, x.cells[center]...)
	for _, neighbor := range center.AllNeighbors(x.level) {
		indices = append(indices, x.cells[neighbor]...)
	}
	indices = append(indices, x.overflow...)
	slices.Sort(indices)
	return slices.Compact(indices)
}

func (x *Index) cellAt(lat, lng float64) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(x.level)
}
