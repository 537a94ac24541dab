// Package gpx turns GPX waypoint files into POI records.
// Only waypoints matter here. Tracks and routes in the file are
// ignored; the survey's own track comes from live fixes.
package gpx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotblauer/transectd/types/poi"
	"github.com/tkrajina/gpxgo/gpx"
)

// Waypoints parses GPX bytes and returns one POI per parseable waypoint.
// The source tags every POI so a re-import can replace the batch
// wholesale. Waypoints that cannot become a valid POI are skipped and
// logged, not fatal; field-collected GPX files carry junk.
func Waypoints(data []byte, source string) ([]poi.POI, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	pois := make([]poi.POI, 0, len(g.Waypoints))
	for _, wpt := range g.Waypoints {
		p := FromWaypoint(wpt)
		p.Source = source
		if err := p.Validate(); err != nil {
			slog.Warn("Skipping waypoint", "name", wpt.Name, "error", err)
			continue
		}
		pois = append(pois, p)
	}
	return pois, nil
}

// File reads and parses path. An empty source defaults to the file's
// base name, which is what re-imports of the same file will use too.
func File(path string, source string) ([]poi.POI, error) {
	if source == "" {
		source = filepath.Base(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Waypoints(data, source)
}

// FromWaypoint maps one GPX waypoint onto a POI. GPX has no id, so a
// fresh one is generated; re-imports replace the whole source batch,
// so ids never need to survive a re-import.
func FromWaypoint(wpt gpx.GPXPoint) poi.POI {
	return poi.POI{
		ID:       uuid.NewString(),
		Name:     wpt.Name,
		Desc:     description(wpt),
		Category: category(wpt),
		Lat:      wpt.Latitude,
		Lng:      wpt.Longitude,
		Active:   true,
	}
}

func description(wpt gpx.GPXPoint) string {
	if wpt.Description != "" {
		return wpt.Description
	}
	return wpt.Comment
}

// category guesses from whatever classification text the waypoint
// carries. Type is the authored field; Symbol is usually a device
// icon name like "Flag, Blue" but sometimes all we get.
func category(wpt gpx.GPXPoint) poi.Category {
	for _, s := range []string{wpt.Type, wpt.Symbol, wpt.Description} {
		if c := poi.FromString(strings.TrimSpace(s)); c.IsKnown() {
			return c
		}
	}
	return poi.CategoryUnknown
}
