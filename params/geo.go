package params

import (
	"time"

	"github.com/rotblauer/transectd/common"
)

type ProximityConfig struct {
	// RearmAfter re-arms a notified POI after this long.
	// Zero means a POI notifies at most once per detector lifetime.
	RearmAfter time.Duration

	// IndexThreshold is the POI count above which evaluation consults
	// an S2 cell index instead of scanning the whole set per fix.
	IndexThreshold int

	// IndexLevel is the S2 cell level for index buckets.
	// Level 13 cells are about a kilometer across.
	IndexLevel int

	// IndexCoverage is the largest notification radius, in meters,
	// the cell neighborhood lookup is guaranteed to cover. POIs with
	// a larger fence are always checked, bypassing the index.
	IndexCoverage float64

	// IndexCacheSize caps the cell -> candidate LRU.
	IndexCacheSize int
}

var DefaultProximityConfig = ProximityConfig{
	RearmAfter:     0,
	IndexThreshold: 512,
	IndexLevel:     13,
	IndexCoverage:  500,
	IndexCacheSize: 4096,
}

type SourceConfig struct {
	// AccuracyThreshold drops fixes reporting a horizontal accuracy
	// worse than this many meters. Zero disables the gate.
	AccuracyThreshold float64

	// SpeedThreshold drops fixes reporting an absurd speed.
	// Zero disables the gate.
	SpeedThreshold float64

	// DedupeCacheSize is the LRU size for the duplicate-fix filter.
	// Zero disables deduplication.
	DedupeCacheSize int

	// SortWindow batches and time-sorts this many fixes before
	// delivery, for replayed files recorded out of order.
	// Zero delivers in input order.
	SortWindow int
}

var DefaultSourceConfig = SourceConfig{
	AccuracyThreshold: 100,
	SpeedThreshold:    common.SpeedOfSound,
	DedupeCacheSize:   10_000,
	SortWindow:        0,
}

type SmoothConfig struct {
	// ProcessSpeed is the expected movement, meters per second.
	// Surveyors walk.
	ProcessSpeed float64

	// ProcessAcceleration is the expected speed change, m/s^2.
	ProcessAcceleration float64

	// ResetInterval restarts the filter after a gap this long;
	// estimating across a signal outage smears the track.
	ResetInterval time.Duration
}

var DefaultSmoothConfig = SmoothConfig{
	ProcessSpeed:        common.SpeedOfWalkingMean,
	ProcessAcceleration: 0.5,
	ResetInterval:       5 * time.Minute,
}
