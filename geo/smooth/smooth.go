// Package smooth runs fixes through a geographic Kalman filter to calm
// GPS jitter. When the recorder enables it, the smoothed fix is what
// feeds proximity evaluation and the track; it adjusts positions but
// never drops a fix.
package smooth

import (
	"log/slog"
	"math"
	"time"

	rkalman "github.com/regnull/kalman"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/fix"
)

// Filter is a stateful smoother for one in-order fix stream. A gap
// longer than ResetInterval, or time moving backwards, reseeds the
// filter; the first fix after a reseed passes through unchanged.
//
// Not safe for concurrent use; the recorder owns one per session.
type Filter struct {
	config params.SmoothConfig
	filter *rkalman.GeoFilter
	last   time.Time
}

func NewFilter(config params.SmoothConfig) *Filter {
	return &Filter{config: config}
}

// Smooth observes the fix and returns a copy with filtered position
// and speed. On any filter trouble the fix comes back unchanged.
func (s *Filter) Smooth(f fix.Fix) fix.Fix {
	t := f.Timestamp()
	if s.filter == nil {
		s.reset(f, t)
		return f
	}
	span := t.Sub(s.last)
	if span <= 0 || span > s.config.ResetInterval {
		s.reset(f, t)
		return f
	}
	s.last = t

	err := s.filter.Observe(span.Seconds(), &rkalman.GeoObserved{
		Lat:                f.Lat,
		Lng:                f.Lng,
		Altitude:           f.Elevation,
		Speed:              sanitizeSpeed(f.Speed),
		SpeedAccuracy:      0.2,
		Direction:          sanitizeHeading(f.Heading),
		DirectionAccuracy:  0,
		HorizontalAccuracy: sanitizeAccuracy(f.Accuracy),
		VerticalAccuracy:   2.0,
	})
	if err != nil {
		slog.Error("Kalman observe failed", "error", err)
		return f
	}
	estimate := s.filter.Estimate()
	if estimate == nil {
		return f
	}
	out := f
	out.Lat = estimate.Lat
	out.Lng = estimate.Lng
	out.Speed = estimate.Speed
	return out
}

// Reset drops filter state so the next fix reseeds it.
func (s *Filter) Reset() {
	s.filter = nil
	s.last = time.Time{}
}

func (s *Filter) reset(f fix.Fix, t time.Time) {
	// The process noise assumes observations stay near the base
	// latitude, fine for a walked survey.
	filter, err := rkalman.NewGeoFilter(&rkalman.GeoProcessNoise{
		BaseLat:           f.Lat,
		DistancePerSecond: math.Max(sanitizeSpeed(f.Speed), s.config.ProcessSpeed),
		SpeedPerSecond:    s.config.ProcessAcceleration,
	})
	if err != nil {
		slog.Error("Kalman filter init failed", "error", err)
		s.Reset()
		return
	}
	s.filter = filter
	s.last = t
}

func sanitizeSpeed(speed float64) float64 {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0
	}
	return math.Max(0, speed)
}

func sanitizeAccuracy(accuracy float64) float64 {
	if math.IsNaN(accuracy) || math.IsInf(accuracy, 0) {
		return 100
	}
	return math.Max(1, accuracy)
}

func sanitizeHeading(heading float64) float64 {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return 0
	}
	return math.Max(0, heading)
}
