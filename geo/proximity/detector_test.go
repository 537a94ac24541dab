package proximity

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/transectd/geo"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/poi"
)

// A survey block in NE Portland. Offsets of 1e-4 degrees latitude are
// about 11 meters.
const (
	testLat = 45.5231
	testLng = -122.6765
)

func testPOI(id string, latOff, lngOff, radius float64) poi.POI {
	return poi.POI{
		ID:     id,
		Name:   "poi-" + id,
		Lat:    testLat + latOff,
		Lng:    testLng + lngOff,
		Radius: radius,
		Active: true,
	}
}

func TestEvaluateSingleNotification(t *testing.T) {
	d := NewDetector(params.DefaultProximityConfig)
	pois := []poi.POI{testPOI("well-3", 0, 0, 50)}

	// Approach from ~555m out, then enter, then linger, then return.
	far := d.Evaluate(testLat+0.005, testLng, pois)
	if len(far) != 0 {
		t.Fatalf("far position hit: %v", far)
	}
	enter := d.Evaluate(testLat+0.0002, testLng, pois)
	if len(enter) != 1 {
		t.Fatalf("want 1 hit on entry, got %d", len(enter))
	}
	if enter[0].POI.ID != "well-3" {
		t.Errorf("hit wrong poi: %s", enter[0].POI.ID)
	}
	if enter[0].Meters <= 0 || enter[0].Meters > 50 {
		t.Errorf("implausible hit distance: %v", enter[0].Meters)
	}
	linger := d.Evaluate(testLat, testLng, pois)
	if len(linger) != 0 {
		t.Errorf("lingering inside fired again: %v", linger)
	}
	d.Evaluate(testLat+0.01, testLng, pois)
	reenter := d.Evaluate(testLat, testLng, pois)
	if len(reenter) != 0 {
		t.Errorf("re-entry fired again: %v", reenter)
	}
}

func TestEvaluateBoundaryInclusive(t *testing.T) {
	p := testPOI("fence-edge", 0.0004, 0, 0)
	// Set the fence radius to the exact measured distance. The same
	// haversine runs inside Evaluate, so equality is exact.
	p.Radius = geo.DistanceMeters(testLat, testLng, p.Lat, p.Lng)

	d := NewDetector(params.DefaultProximityConfig)
	hits := d.Evaluate(testLat, testLng, []poi.POI{p})
	if len(hits) != 1 {
		t.Fatalf("distance == radius should hit, got %d hits", len(hits))
	}
	if hits[0].Meters != p.Radius {
		t.Errorf("got distance %v, want exactly %v", hits[0].Meters, p.Radius)
	}
}

func TestEvaluateJustOutside(t *testing.T) {
	p := testPOI("fence-out", 0.0004, 0, 0)
	p.Radius = geo.DistanceMeters(testLat, testLng, p.Lat, p.Lng) - 0.01

	d := NewDetector(params.DefaultProximityConfig)
	if hits := d.Evaluate(testLat, testLng, []poi.POI{p}); len(hits) != 0 {
		t.Errorf("centimeter outside the fence hit: %v", hits)
	}
}

func TestEvaluateSkipsInactive(t *testing.T) {
	inactive := testPOI("closed-site", 0, 0, 100)
	inactive.Active = false
	active := testPOI("open-site", 0.0001, 0, 100)

	d := NewDetector(params.DefaultProximityConfig)
	hits := d.Evaluate(testLat, testLng, []poi.POI{inactive, active})
	if len(hits) != 1 || hits[0].POI.ID != "open-site" {
		t.Fatalf("want only open-site, got %v", hits)
	}
}

func TestEvaluateSkipsNonFinite(t *testing.T) {
	nan := testPOI("bad-import", 0, 0, 100)
	nan.Lat = math.NaN()
	inf := testPOI("worse-import", 0, 0, 100)
	inf.Lng = math.Inf(1)
	good := testPOI("good", 0, 0, 100)

	d := NewDetector(params.DefaultProximityConfig)
	hits := d.Evaluate(testLat, testLng, []poi.POI{nan, inf, good})
	if len(hits) != 1 || hits[0].POI.ID != "good" {
		t.Fatalf("non-finite POIs should be skipped silently, got %v", hits)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	d := NewDetector(params.DefaultProximityConfig)
	if hits := d.Evaluate(testLat, testLng, []poi.POI{}); hits == nil || len(hits) != 0 {
		t.Errorf("empty list: got %v, want empty", hits)
	}
	if hits := d.Evaluate(testLat, testLng, nil); hits == nil || len(hits) != 0 {
		t.Errorf("nil list: got %v, want empty", hits)
	}
}

func TestEvaluateOrderStable(t *testing.T) {
	// The second POI in the list is the nearer one. Input order wins.
	farther := testPOI("b-cairn", 0.0005, 0, 100)
	nearer := testPOI("a-cairn", 0.0001, 0, 100)

	d := NewDetector(params.DefaultProximityConfig)
	hits := d.Evaluate(testLat, testLng, []poi.POI{farther, nearer})
	if len(hits) != 2 {
		t.Fatalf("want both hits, got %d", len(hits))
	}
	if hits[0].POI.ID != "b-cairn" || hits[1].POI.ID != "a-cairn" {
		t.Errorf("input order not preserved: %s, %s", hits[0].POI.ID, hits[1].POI.ID)
	}

	SortHitsByDistance(hits)
	if hits[0].POI.ID != "a-cairn" {
		t.Errorf("sort by distance: want a-cairn first, got %s", hits[0].POI.ID)
	}

	// Both fired, both now muted.
	if again := d.Evaluate(testLat, testLng, []poi.POI{farther, nearer}); len(again) != 0 {
		t.Errorf("second pass fired again: %v", again)
	}
}

func TestMarkVisitedSeeds(t *testing.T) {
	d := NewDetector(params.DefaultProximityConfig)
	d.MarkVisited("spring-11")
	d.MarkVisited("spring-11")

	if !d.Suppressed("spring-11") {
		t.Fatal("seeded poi not suppressed")
	}
	hits := d.Evaluate(testLat, testLng, []poi.POI{testPOI("spring-11", 0, 0, 100)})
	if len(hits) != 0 {
		t.Errorf("seeded poi fired: %v", hits)
	}
}

func TestRearmAfter(t *testing.T) {
	config := params.DefaultProximityConfig
	config.RearmAfter = 50 * time.Millisecond
	d := NewDetector(config)
	pois := []poi.POI{testPOI("gate-2", 0, 0, 100)}

	if hits := d.Evaluate(testLat, testLng, pois); len(hits) != 1 {
		t.Fatalf("first pass: want 1 hit, got %d", len(hits))
	}
	if hits := d.Evaluate(testLat, testLng, pois); len(hits) != 0 {
		t.Fatalf("inside rearm window: want 0 hits, got %d", len(hits))
	}
	time.Sleep(80 * time.Millisecond)
	if hits := d.Evaluate(testLat, testLng, pois); len(hits) != 1 {
		t.Errorf("after rearm window: want 1 hit, got %d", len(hits))
	}
}

func TestReset(t *testing.T) {
	d := NewDetector(params.DefaultProximityConfig)
	pois := []poi.POI{testPOI("camp-1", 0, 0, 100)}

	d.Evaluate(testLat, testLng, pois)
	if hits := d.Evaluate(testLat, testLng, pois); len(hits) != 0 {
		t.Fatal("suppression did not take")
	}
	d.Reset()
	if d.Suppressed("camp-1") {
		t.Error("still suppressed after reset")
	}
	if hits := d.Evaluate(testLat, testLng, pois); len(hits) != 1 {
		t.Errorf("after reset: want 1 hit, got %d", len(hits))
	}
}
