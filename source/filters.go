package source

import (
	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/types/fix"
)

// FilterPoorAccuracy keeps fixes with a reported accuracy under the
// threshold. Zero or negative accuracy means the device did not say,
// and those do not pass.
func FilterPoorAccuracy(threshold float64) func(fix.Fix) bool {
	return func(f fix.Fix) bool {
		return f.Accuracy > 0 && f.Accuracy < threshold
	}
}

// FilterUltraHighSpeed keeps fixes with reasonable reported speeds,
// for surveyors on foot or in vehicles.
func FilterUltraHighSpeed(threshold float64) func(fix.Fix) bool {
	return func(f fix.Fix) bool {
		return f.Speed < threshold
	}
}

// FilterWildElevation keeps fixes with plausible elevations.
func FilterWildElevation(f fix.Fix) bool {
	deepestDive := -100.0
	return f.Elevation > common.ElevationOfDeadSea-deepestDive &&
		f.Elevation < common.ElevationCommercialFlight*1.2
}
