package notify

import (
	"context"
	"strings"

	"github.com/rotblauer/transectd/rgeo"
	srgeo "github.com/sams96/rgeo"
)

// Regional decorates notifications with a human-readable region before
// passing them on. Geocoding is best effort; without a geocoder, or
// when lookup fails, the notification goes through undecorated.
type Regional struct {
	Next     Sink
	Geocoder rgeo.ReverseGeocoder
}

func (r Regional) Notify(ctx context.Context, n Notification) error {
	if r.Geocoder != nil && n.Region == "" {
		if loc, err := r.Geocoder.GetLocation(n.Fix.Point()); err == nil {
			n.Region = RegionString(loc)
		}
	}
	return r.Next.Notify(ctx, n)
}

// RegionString names a location the way a person would say it,
// "Moab, Utah, United States", skipping whatever the datasets left blank.
func RegionString(loc srgeo.Location) string {
	parts := []string{}
	for _, s := range []string{loc.City, loc.Province, loc.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
