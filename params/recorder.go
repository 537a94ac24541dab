package params

import "github.com/rotblauer/transectd/types/poi"

type RecorderConfig struct {
	// Name labels the survey; it tags logs, archives, and metrics.
	Name string

	// FixBufferSize is the capacity of the inbound fix channel.
	// The processing loop is strictly ordered, so bursts queue here.
	FixBufferSize int

	// Smooth runs fixes through the Kalman filter before evaluation.
	Smooth bool

	// Categories restricts proximity checks to POIs of these
	// categories. Empty means all categories.
	Categories []poi.Category

	Proximity ProximityConfig
	Smoothing SmoothConfig
}

func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Name:          "transect",
		FixBufferSize: DefaultFixBufferSize,
		Smooth:        false,
		Proximity:     DefaultProximityConfig,
		Smoothing:     DefaultSmoothConfig,
	}
}
