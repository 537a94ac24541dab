package track

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/transectd/common"
)

// Stats summarizes a snapshot. Speeds are meters per second, distances
// and elevations meters, all rounded to centimeter precision.
type Stats struct {
	Count         int           `json:"count"`
	Meters        float64       `json:"meters"`
	Duration      time.Duration `json:"duration"`
	SpeedMean     float64       `json:"speedMean"`
	SpeedMax      float64       `json:"speedMax"`
	ElevationMin  float64       `json:"elevationMin"`
	ElevationMax  float64       `json:"elevationMax"`
	ElevationGain float64       `json:"elevationGain"`
	ElevationLoss float64       `json:"elevationLoss"`
}

func (s Snapshot) Stats() Stats {
	out := Stats{
		Count:    len(s.Points),
		Meters:   common.DecimalToFixed(s.Distance, 2),
		Duration: s.Duration(),
	}
	if s.IsEmpty() {
		return out
	}
	speeds := make([]float64, len(s.Points))
	elevations := make([]float64, len(s.Points))
	for i, tp := range s.Points {
		speeds[i] = tp.Speed
		elevations[i] = tp.Elevation
	}
	// stats errors only on empty input, which is handled above.
	speedMean, _ := stats.Mean(speeds)
	speedMax, _ := stats.Max(speeds)
	elevMin, _ := stats.Min(elevations)
	elevMax, _ := stats.Max(elevations)
	out.SpeedMean = common.DecimalToFixed(speedMean, 2)
	out.SpeedMax = common.DecimalToFixed(speedMax, 2)
	out.ElevationMin = common.DecimalToFixed(elevMin, 2)
	out.ElevationMax = common.DecimalToFixed(elevMax, 2)

	gain, loss := 0.0, 0.0
	for i := 1; i < len(elevations); i++ {
		delta := elevations[i] - elevations[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	out.ElevationGain = common.DecimalToFixed(gain, 2)
	out.ElevationLoss = common.DecimalToFixed(loss, 2)
	return out
}
