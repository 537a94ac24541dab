// Package track holds the accumulated line a survey walk leaves
// behind: ordered points with cumulative distance, and the derived
// line geometry and statistics.
package track

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/types/fix"
)

// TrackPoint is one recorded position on the line. DistanceFromStart
// is the cumulative ground distance in meters walked to reach it.
type TrackPoint struct {
	Lat               float64   `json:"lat"`
	Lng               float64   `json:"long"`
	Elevation         float64   `json:"elevation"`
	Accuracy          float64   `json:"accuracy"`
	Speed             float64   `json:"speed"`
	Heading           float64   `json:"heading"`
	Time              time.Time `json:"time"`
	DistanceFromStart float64   `json:"distanceFromStart"`
}

// FromFix copies the positional fields of a fix into a track point at
// the given cumulative distance.
func FromFix(f fix.Fix, distanceFromStart float64) TrackPoint {
	return TrackPoint{
		Lat:               f.Lat,
		Lng:               f.Lng,
		Elevation:         f.Elevation,
		Accuracy:          f.Accuracy,
		Speed:             f.Speed,
		Heading:           f.Heading,
		Time:              f.Timestamp(),
		DistanceFromStart: distanceFromStart,
	}
}

func (tp TrackPoint) Point() orb.Point {
	return orb.Point{tp.Lng, tp.Lat}
}

// Snapshot is a value copy of an accumulated track, safe to hold and
// read after the accumulator moves on.
type Snapshot struct {
	Points   []TrackPoint `json:"points"`
	Distance float64      `json:"distance"`
}

func (s Snapshot) IsEmpty() bool { return len(s.Points) == 0 }

func (s Snapshot) Start() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}
	return s.Points[0].Time
}

func (s Snapshot) End() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Time
}

func (s Snapshot) Duration() time.Duration {
	if s.IsEmpty() {
		return 0
	}
	return s.End().Sub(s.Start())
}

func (s Snapshot) LineString() orb.LineString {
	ls := make(orb.LineString, len(s.Points))
	for i, tp := range s.Points {
		ls[i] = tp.Point()
	}
	return ls
}

// Feature renders the snapshot as a GeoJSON LineString feature with
// summary properties, the shape the web layer and exports serve.
// Coordinates are rounded to survey-stake precision; GPS does not
// resolve finer and the extra digits just bloat the serialization.
func (s Snapshot) Feature() *geojson.Feature {
	ls := s.LineString()
	for i := range ls {
		ls[i][0] = common.DecimalToFixed(ls[i][0], common.GPSPrecision6)
		ls[i][1] = common.DecimalToFixed(ls[i][1], common.GPSPrecision6)
	}
	f := geojson.NewFeature(ls)
	f.Properties["PointCount"] = len(s.Points)
	f.Properties["Meters"] = s.Distance
	f.Properties["Duration"] = s.Duration().Round(time.Second).Seconds()
	if !s.IsEmpty() {
		st := s.Stats()
		f.Properties["Time_Start"] = s.Start().Format(time.RFC3339)
		f.Properties["Time_End"] = s.End().Format(time.RFC3339)
		f.Properties["Speed_Mean"] = st.SpeedMean
		f.Properties["Speed_Max"] = st.SpeedMax
		f.Properties["Elevation_Min"] = st.ElevationMin
		f.Properties["Elevation_Max"] = st.ElevationMax
		f.Properties["Elevation_Gain"] = st.ElevationGain
		f.Properties["Elevation_Loss"] = st.ElevationLoss
	}
	return f
}
