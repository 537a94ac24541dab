package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
	srgeo "github.com/sams96/rgeo"
)

func testNotification() Notification {
	at := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	return Notification{
		Survey: "ridgeline",
		POI: poi.POI{
			ID:       "spring-1",
			Name:     "Cold Spring",
			Category: poi.CategoryNatural,
			Lat:      45.5231,
			Lng:      -122.6765,
			Active:   true,
		},
		Meters: 42.5,
		Fix: fix.Fix{
			Name: "unit-7",
			Lat:  45.5233,
			Lng:  -122.6767,
			Time: at,
		},
		At: at,
	}
}

type recordingSink struct {
	got []Notification
	err error
}

func (r *recordingSink) Notify(_ context.Context, n Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestMultiFansOut(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{err: boom}
	b := &recordingSink{}
	m := Multi{a, b}
	err := m.Notify(context.Background(), testNotification())
	if !errors.Is(err, boom) {
		t.Errorf("want the first error back, got %v", err)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Errorf("want both sinks called, got %d and %d", len(a.got), len(b.got))
	}
}

func TestSlogSink(t *testing.T) {
	buf := bytes.Buffer{}
	s := Slog{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	if err := s.Notify(context.Background(), testNotification()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cold Spring") || !strings.Contains(out, "ridgeline") {
		t.Errorf("log line missing notification fields: %s", out)
	}
}

func TestWebhook(t *testing.T) {
	received := make(chan Notification, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		n := Notification{}
		if err := json.Unmarshal(body, &n); err != nil {
			t.Errorf("bad body: %v", err)
		}
		received <- n
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	if err := wh.Notify(context.Background(), testNotification()); err != nil {
		t.Fatal(err)
	}
	n := <-received
	if n.POI.ID != "spring-1" || n.Meters != 42.5 {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.Survey != "ridgeline" {
		t.Errorf("survey: %s", n.Survey)
	}
}

func TestWebhookStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()
	wh := NewWebhook(srv.URL)
	if err := wh.Notify(context.Background(), testNotification()); err == nil {
		t.Fatal("want an error for a 403 response")
	}
}

type fakeGeocoder struct {
	loc srgeo.Location
	err error
}

func (f fakeGeocoder) GetLocation(pt orb.Point) (srgeo.Location, error) {
	return f.loc, f.err
}

func (f fakeGeocoder) GetGeometry(pt orb.Point, dataset string) (orb.Geometry, error) {
	return nil, f.err
}

func TestRegionalDecorates(t *testing.T) {
	next := &recordingSink{}
	r := Regional{Next: next, Geocoder: fakeGeocoder{loc: srgeo.Location{
		City:     "Moab",
		Province: "Utah",
		Country:  "United States",
	}}}
	if err := r.Notify(context.Background(), testNotification()); err != nil {
		t.Fatal(err)
	}
	if len(next.got) != 1 {
		t.Fatalf("want 1 delivery, got %d", len(next.got))
	}
	if want := "Moab, Utah, United States"; next.got[0].Region != want {
		t.Errorf("region: want %q, got %q", want, next.got[0].Region)
	}
}

func TestRegionalBestEffort(t *testing.T) {
	next := &recordingSink{}
	r := Regional{Next: next, Geocoder: fakeGeocoder{err: errors.New("no data")}}
	if err := r.Notify(context.Background(), testNotification()); err != nil {
		t.Fatal(err)
	}
	if len(next.got) != 1 || next.got[0].Region != "" {
		t.Errorf("want an undecorated delivery, got %+v", next.got)
	}
}

func TestRegionString(t *testing.T) {
	cases := []struct {
		loc  srgeo.Location
		want string
	}{
		{srgeo.Location{City: "Moab", Province: "Utah", Country: "United States"}, "Moab, Utah, United States"},
		{srgeo.Location{Province: "Svalbard", Country: "Norway"}, "Svalbard, Norway"},
		{srgeo.Location{}, ""},
	}
	for _, c := range cases {
		if got := RegionString(c.loc); got != c.want {
			t.Errorf("RegionString(%+v): want %q, got %q", c.loc, got, c.want)
		}
	}
}
