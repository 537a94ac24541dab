package poi

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/paulmach/orb"
)

var ErrBadCoordinates = errors.New("invalid coordinates")
var ErrBadRadius = errors.New("notification radius must be positive")
var ErrMissingID = errors.New("missing id")

// A POI is a geofenced point of interest.
// POIs come from GPX waypoint imports, bulk JSON seed loads, or manual
// entry; they are never physically deleted except by a source-scoped
// bulk replace on re-import.
type POI struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Desc     string   `json:"description,omitempty"`
	Category Category `json:"category"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"long"`

	// Radius is the notification radius in meters. Zero means
	// "use the category default"; see NotificationRadius.
	Radius float64 `json:"radius,omitempty"`

	// Priority orders display lists. It has no bearing on whether or
	// when a notification fires.
	Priority int `json:"priority,omitempty"`

	// Active excludes the POI from proximity checks when false.
	Active bool `json:"active"`

	// Visited is set once a notification has fired for this POI.
	Visited      bool      `json:"visited"`
	LastNotified time.Time `json:"lastNotified,omitempty"`

	// Source names where this POI came from (a GPX file, a seed set).
	// Re-importing a source replaces all of its POIs wholesale.
	Source string `json:"source,omitempty"`
}

func (p POI) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// NotificationRadius returns the effective geofence radius in meters:
// the per-POI override when set, else the category default.
func (p POI) NotificationRadius() float64 {
	if p.Radius > 0 {
		return p.Radius
	}
	return p.Category.DefaultRadius()
}

// HasFiniteCoordinates reports whether the POI can be placed on the
// globe at all. Evaluation skips POIs that cannot.
func (p POI) HasFiniteCoordinates() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Validate is for POIs entering the store, not for evaluation;
// evaluation tolerates bad POIs by skipping them.
func (p POI) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if !p.HasFiniteCoordinates() || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: %v,%v", ErrBadCoordinates, p.Lat, p.Lng)
	}
	if p.NotificationRadius() <= 0 {
		return fmt.Errorf("%w: %v", ErrBadRadius, p.Radius)
	}
	return nil
}

func (p POI) StringPretty() string {
	return fmt.Sprintf("%s (%s) %.6f,%.6f r=%.0fm",
		p.Name, p.Category, p.Lat, p.Lng, p.NotificationRadius())
}

// SortStable orders POIs for display: priority ascending, then name,
// then id for a total order.
func SortStable(pois []POI) {
	slices.SortStableFunc(pois, func(a, b POI) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

// FilterActive returns the subset of POIs eligible for proximity
// checks, preserving input order.
func FilterActive(pois []POI) []POI {
	out := make([]POI, 0, len(pois))
	for _, p := range pois {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// FilterCategories returns the subset of POIs whose category is in
// want, preserving input order. An empty want passes everything.
func FilterCategories(pois []POI, want ...Category) []POI {
	if len(want) == 0 {
		return pois
	}
	out := make([]POI, 0, len(pois))
	for _, p := range pois {
		if slices.Contains(want, p.Category) {
			out = append(out, p)
		}
	}
	return out
}
