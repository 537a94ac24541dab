package testdata

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
)

// StartTime anchors every generated stream. Fixed so that distances,
// durations, and file names come out the same on every run.
var StartTime = time.Date(2025, 4, 14, 9, 30, 0, 0, time.UTC)

// One degree of latitude on the spherical earth the distance math
// assumes (R=6371km).
const metersPerDegreeLat = 6371000 * (3.141592653589793 / 180)

// Walk fabricates a steady northward walk: n fixes, stepMeters apart
// on the ground, interval apart in time, starting at start and
// StartTime.
func Walk(name string, start orb.Point, n int, stepMeters float64, interval time.Duration) []fix.Fix {
	fixes := make([]fix.Fix, n)
	for i := range fixes {
		fixes[i] = fix.Fix{
			Name:      name,
			UUID:      "walk-gen",
			Lat:       start.Lat() + float64(i)*stepMeters/metersPerDegreeLat,
			Lng:       start.Lon(),
			Elevation: 1000 + float64(i)*0.1,
			Accuracy:  5,
			Speed:     stepMeters / interval.Seconds(),
			Time:      StartTime.Add(time.Duration(i) * interval),
		}
	}
	return fixes
}

// POINear plants an active POI a few meters north of at, fenced at
// radius meters.
func POINear(id string, at orb.Point, radius float64) poi.POI {
	return poi.POI{
		ID:       id,
		Name:     fmt.Sprintf("poi-%s", id),
		Category: poi.CategoryNatural,
		Lat:      at.Lat() + 3/metersPerDegreeLat,
		Lng:      at.Lon(),
		Radius:   radius,
		Active:   true,
		Source:   "testdata",
	}
}
