package poi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

var ErrDecodePOI = fmt.Errorf("could not decode as poi or geojson point feature")

// DecodePOI decodes one JSON message into a POI.
// Flat seed objects decode directly; GeoJSON Point features (the common
// interchange for waypoint sets) are mapped from geometry + properties.
// A missing id gets a generated one, and a missing active flag defaults
// to active; seed authors should not have to spell either out.
func DecodePOI(msg json.RawMessage) (POI, error) {
	p := POI{}
	parsed := gjson.ParseBytes(msg)
	if parsed.IsArray() {
		return p, errors.New("unexpected array, want poi object")
	}

	pType := parsed.Get("type")
	if !pType.Exists() {
		if err := json.Unmarshal(msg, &p); err != nil {
			return p, fmt.Errorf("%w: %w", ErrDecodePOI, err)
		}
	} else {
		if pType.String() != "Feature" {
			return p, fmt.Errorf("%w: unsupported type %q", ErrDecodePOI, pType.String())
		}
		feat, err := geojson.UnmarshalFeature(msg)
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrDecodePOI, err)
		}
		pt, ok := feat.Geometry.(orb.Point)
		if !ok {
			return p, fmt.Errorf("%w: geometry is %T, want Point", ErrDecodePOI, feat.Geometry)
		}
		p.Lng, p.Lat = pt.Lon(), pt.Lat()
		p.ID, _ = feat.Properties["id"].(string)
		p.Name, _ = feat.Properties["name"].(string)
		p.Desc, _ = feat.Properties["description"].(string)
		p.Category = FromAny(feat.Properties["category"])
		p.Radius = feat.Properties.MustFloat64("radius", 0)
		p.Priority = int(feat.Properties.MustFloat64("priority", 0))
		p.Source, _ = feat.Properties["source"].(string)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if !parsed.Get("active").Exists() && !parsed.Get("properties.active").Exists() {
		p.Active = true
	}
	return p, nil
}

// ScanPOIs decodes all POIs from a reader of seed JSON, which may be
// newline-delimited objects or a single array. A decode failure on one
// message skips that message and continues; a malformed stream fails.
func ScanPOIs(body io.Reader) (pois []POI, skipped int, err error) {
	buf := bufio.NewReader(body)
	peek, err := buf.Peek(1)
	if err != nil {
		return nil, 0, err
	}
	dec := json.NewDecoder(bytes.NewBuffer(peek))
	t, err := dec.Token()
	if err != nil {
		return nil, 0, err
	}
	dec = json.NewDecoder(buf)
	if t == json.Delim('[') {
		dec.Token()
	}
	for dec.More() {
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return pois, skipped, fmt.Errorf("decode err: %T %w", err, err)
		}
		p, err := DecodePOI(msg)
		if err != nil {
			skipped++
			continue
		}
		pois = append(pois, p)
	}
	return pois, skipped, nil
}
