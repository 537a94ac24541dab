package track

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rotblauer/transectd/types/fix"
)

func testSnapshot() Snapshot {
	t0 := time.Date(2025, 6, 14, 15, 4, 5, 0, time.UTC)
	points := []TrackPoint{
		{Lat: 45.5231, Lng: -122.6765, Elevation: 100, Speed: 1.0, Time: t0},
		{Lat: 45.5240, Lng: -122.6765, Elevation: 105, Speed: 2.0, Time: t0.Add(30 * time.Second), DistanceFromStart: 100},
		{Lat: 45.5249, Lng: -122.6765, Elevation: 103, Speed: 3.0, Time: t0.Add(60 * time.Second), DistanceFromStart: 200},
	}
	return Snapshot{Points: points, Distance: 200}
}

func TestFromFix(t *testing.T) {
	f := fix.Fix{
		Name: "ibex-field-7", Lat: 45.5231, Lng: -122.6765,
		Elevation: 88.1, Accuracy: 4.2, Speed: 1.3, Heading: 270,
		Time: time.Date(2025, 6, 14, 15, 4, 5, 0, time.UTC),
	}
	tp := FromFix(f, 123.4)
	if tp.Lat != f.Lat || tp.Lng != f.Lng || tp.Elevation != f.Elevation {
		t.Errorf("position fields not carried: %+v", tp)
	}
	if tp.Accuracy != 4.2 || tp.Speed != 1.3 || tp.Heading != 270 {
		t.Errorf("quality fields not carried: %+v", tp)
	}
	if !tp.Time.Equal(f.Time) {
		t.Errorf("time: got %v, want %v", tp.Time, f.Time)
	}
	if tp.DistanceFromStart != 123.4 {
		t.Errorf("distance from start: got %v", tp.DistanceFromStart)
	}
	if pt := tp.Point(); pt[0] != f.Lng || pt[1] != f.Lat {
		t.Errorf("orb point is lng,lat: got %v", pt)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	var s Snapshot
	if !s.IsEmpty() {
		t.Error("zero snapshot not empty")
	}
	if s.Duration() != 0 {
		t.Errorf("empty duration: %v", s.Duration())
	}
	if !s.Start().IsZero() || !s.End().IsZero() {
		t.Error("empty snapshot has times")
	}
	st := s.Stats()
	if st.Count != 0 || st.Meters != 0 || st.SpeedMax != 0 {
		t.Errorf("empty stats: %+v", st)
	}
}

func TestSnapshotTimesAndLine(t *testing.T) {
	s := testSnapshot()
	if s.Duration() != time.Minute {
		t.Errorf("duration: got %v, want 1m", s.Duration())
	}
	ls := s.LineString()
	if len(ls) != 3 {
		t.Fatalf("linestring length: %d", len(ls))
	}
	if ls[0][0] != -122.6765 || ls[0][1] != 45.5231 {
		t.Errorf("linestring starts at %v", ls[0])
	}
}

func TestSnapshotFeature(t *testing.T) {
	s := testSnapshot()
	f := s.Feature()
	if f.Properties["PointCount"] != 3 {
		t.Errorf("PointCount: %v", f.Properties["PointCount"])
	}
	if f.Properties["Meters"] != 200.0 {
		t.Errorf("Meters: %v", f.Properties["Meters"])
	}
	if f.Properties["Duration"] != 60.0 {
		t.Errorf("Duration: %v", f.Properties["Duration"])
	}
	if f.Properties["Speed_Max"] != 3.0 {
		t.Errorf("Speed_Max: %v", f.Properties["Speed_Max"])
	}
	if f.Properties["Elevation_Gain"] != 5.0 {
		t.Errorf("Elevation_Gain: %v", f.Properties["Elevation_Gain"])
	}
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"LineString"`) {
		t.Errorf("feature geometry not a LineString: %s", b)
	}
	if !strings.Contains(string(b), `"Time_Start"`) {
		t.Errorf("feature missing start time: %s", b)
	}
}

func TestStats(t *testing.T) {
	st := testSnapshot().Stats()
	if st.Count != 3 {
		t.Errorf("count: %d", st.Count)
	}
	if st.Meters != 200 {
		t.Errorf("meters: %v", st.Meters)
	}
	if st.SpeedMean != 2.0 {
		t.Errorf("speed mean: %v", st.SpeedMean)
	}
	if st.SpeedMax != 3.0 {
		t.Errorf("speed max: %v", st.SpeedMax)
	}
	if st.ElevationMin != 100 || st.ElevationMax != 105 {
		t.Errorf("elevation bounds: %v..%v", st.ElevationMin, st.ElevationMax)
	}
	if st.ElevationGain != 5 {
		t.Errorf("elevation gain: %v", st.ElevationGain)
	}
	if st.ElevationLoss != 2 {
		t.Errorf("elevation loss: %v", st.ElevationLoss)
	}
}
