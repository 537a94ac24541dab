package fix

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

var ErrDecodeFix = fmt.Errorf("could not decode as fix or geojson point feature")

// ScanJSONMessages reads a stream of JSON messages from an io.Reader,
// and calls onEach for each decoded message.
// The stream may be newline-delimited objects or a single JSON array;
// both are walked element by element.
func ScanJSONMessages(body io.Reader, onEach func(message json.RawMessage) error) error {
	buf := bufio.NewReader(body)
	peek, err := buf.Peek(1)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewBuffer(peek))
	t, err := dec.Token()
	if err != nil {
		return err
	}
	dec = json.NewDecoder(buf)
	if t == json.Delim('[') {
		dec.Token()
	}
	for dec.More() {
		var msg json.RawMessage
		err := dec.Decode(&msg)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("decode err: %T %w", err, err)
			}
			break
		}
		if err := onEach(msg); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFix decodes one JSON message into a Fix.
// Flat objects decode directly. GeoJSON Point features carry their
// coordinates in the geometry and everything else in properties;
// only those have a 'type' attribute, which is how they are told apart.
func DecodeFix(msg json.RawMessage) (Fix, error) {
	f := Fix{}
	parsed := gjson.ParseBytes(msg)
	if parsed.IsArray() {
		return f, errors.New("unexpected array, want fix object")
	}

	pType := parsed.Get("type")
	if !pType.Exists() {
		if err := json.Unmarshal(msg, &f); err != nil {
			return f, fmt.Errorf("%w: %w", ErrDecodeFix, err)
		}
		return f, nil
	}

	if pType.String() != "Feature" {
		return f, fmt.Errorf("%w: unsupported type %q", ErrDecodeFix, pType.String())
	}
	feat, err := geojson.UnmarshalFeature(msg)
	if err != nil {
		return f, fmt.Errorf("%w: %w", ErrDecodeFix, err)
	}
	pt, ok := feat.Geometry.(orb.Point)
	if !ok {
		return f, fmt.Errorf("%w: geometry is %T, want Point", ErrDecodeFix, feat.Geometry)
	}
	f.Lng, f.Lat = pt.Lon(), pt.Lat()
	f.Name, _ = feat.Properties["Name"].(string)
	f.UUID, _ = feat.Properties["UUID"].(string)
	f.Elevation = feat.Properties.MustFloat64("Elevation", 0)
	f.Accuracy = feat.Properties.MustFloat64("Accuracy", 0)
	f.Speed = feat.Properties.MustFloat64("Speed", 0)
	f.Heading = feat.Properties.MustFloat64("Heading", 0)
	if ts := parsed.Get("properties.Time"); ts.Exists() {
		f.Time = ts.Time()
	}
	return f, nil
}

// ScanFixes decodes all fixes from a reader, skipping messages that do
// not decode. The skip count is returned alongside.
func ScanFixes(body io.Reader, onEach func(f Fix) error) (skipped int, err error) {
	err = ScanJSONMessages(body, func(msg json.RawMessage) error {
		f, err := DecodeFix(msg)
		if err != nil {
			skipped++
			return nil
		}
		return onEach(f)
	})
	return skipped, err
}
