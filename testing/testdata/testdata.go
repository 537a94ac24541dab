// Package testdata fabricates survey fixtures for tests: deterministic
// fix streams, request bodies, and seed POI sets. Everything here is
// synthetic; no recorded field data ships with the repo.
package testdata

import (
	"bytes"
	"encoding/json"
)

// Fix_Logger_flat is one fix line as the plain transect logger posts
// them.
var Fix_Logger_flat = `{
  "name": "ibex-field-7",
  "uuid": "76170e959f967f40",
  "lat": 46.8721,
  "long": -113.9940,
  "elevation": 978.2,
  "accuracy": 4.1,
  "speed": 1.31,
  "heading": 358.0,
  "time": "2025-04-14T09:30:05.710Z"
}
`

// Fix_Device_geojson is one fix as a GeoJSON point feature, the shape
// phone clients push.
var Fix_Device_geojson = `{
  "id": 0,
  "type": "Feature",
  "geometry": {
    "type": "Point",
    "coordinates": [-113.9940, 46.8721]
  },
  "properties": {
    "Accuracy": 3.9,
    "Elevation": 978.4,
    "Heading": -1,
    "Name": "ibex-field-7",
    "Speed": 1.06,
    "Time": "2025-04-14T09:30:10.710Z",
    "UUID": "76170e959f967f40"
  }
}
`

// NDJSON renders values one JSON object per line, the wire shape of a
// fix upload or a seed file.
func NDJSON[T any](items ...T) []byte {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			panic(err)
		}
	}
	return buf.Bytes()
}
