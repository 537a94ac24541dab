package fix

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/paulmach/orb"
)

var ErrBadLatitude = errors.New("invalid latitude")
var ErrBadLongitude = errors.New("invalid longitude")
var ErrMissingTime = errors.New("missing or zero time")

// A Fix is one GPS observation as delivered by a location provider.
// Values are flat and metric: coordinates in WGS84 degrees, elevation and
// accuracy in meters, speed in m/s, heading in degrees from true north.
// A Fix is never mutated once decoded; it is either dropped or folded
// into a track point.
type Fix struct {
	Name      string    `json:"name,omitempty"` // reporting device or surveyor
	UUID      string    `json:"uuid,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"long"`
	Elevation float64   `json:"elevation,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"` // horizontal, in meters
	Speed     float64   `json:"speed,omitempty"`    // in m/s
	Heading   float64   `json:"heading,omitempty"`  // in degrees
	Time      time.Time `json:"time"`
}

func (f Fix) Point() orb.Point {
	return orb.Point{f.Lng, f.Lat}
}

// Timestamp returns the fix's own time, falling back to the wall clock
// for providers that deliver fixes without one.
func (f Fix) Timestamp() time.Time {
	if f.Time.IsZero() {
		return time.Now()
	}
	return f.Time
}

// Validate returns an error for any fix that cannot be placed on the globe.
// Time is required too; position without time is useless for tracking.
func (f Fix) Validate() error {
	if math.IsNaN(f.Lat) || f.Lat < -90 || f.Lat > 90 {
		return fmt.Errorf("%w: %v", ErrBadLatitude, f.Lat)
	}
	if math.IsNaN(f.Lng) || f.Lng < -180 || f.Lng > 180 {
		return fmt.Errorf("%w: %v", ErrBadLongitude, f.Lng)
	}
	if f.Time.IsZero() {
		return ErrMissingTime
	}
	return nil
}

func (f Fix) IsValid() bool {
	return f.Validate() == nil
}

// StringPretty is for logs.
func (f Fix) StringPretty() string {
	return fmt.Sprintf("%s %.6f,%.6f ±%.0fm @ %s",
		f.Name, f.Lat, f.Lng, f.Accuracy, f.Time.Format(time.RFC3339))
}

// UnmarshalJSON asserts that the time field, when present, is RFC3339.
// Providers sending unix milliseconds are handled too; some location
// libraries report epoch millis instead of formatted time.
func (f *Fix) UnmarshalJSON(data []byte) error {
	type Alias Fix
	aux := &struct {
		Time json.RawMessage `json:"time"`
		*Alias
	}{
		Alias: (*Alias)(f),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Time) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.Time, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		f.Time = t
		return nil
	}
	var ms int64
	if err := json.Unmarshal(aux.Time, &ms); err == nil {
		f.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	return fmt.Errorf("unparseable time: %s", string(aux.Time))
}

// SortStable orders fixes chronologically in place, preserving the
// arrival order of equal-time fixes.
func SortStable(fixes []Fix) {
	slices.SortStableFunc(fixes, func(a, b Fix) int {
		return a.Time.Compare(b.Time)
	})
}
