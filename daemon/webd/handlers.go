package webd

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/geo"
	"github.com/rotblauer/transectd/geo/proximity"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
	"github.com/rotblauer/transectd/types/track"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	WSOpen    bool                    `json:"ws_open"`
	WSConns   int                     `json:"ws_conns"`
	Recorder  api.Status              `json:"recorder"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		WSOpen:    !s.melodyInstance.IsClosed(),
		WSConns:   s.melodyInstance.Len(),
		Config:    s.Config,
		Recorder:  s.recorder.Status(),
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal status", "error", err)
		http.Error(w, "Failed to marshal status", http.StatusInternalServerError)
		return
	}
	_, err = w.Write(j)
	if err != nil {
		s.logger.Error("Failed to write response", "error", err)
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

// handleLastKnown returns the most recent fix, if one is fresh enough.
// The last-known cache is TTL'd; a survey gone quiet goes 204, not
// stale.
func (s *WebDaemon) handleLastKnown(w http.ResponseWriter, r *http.Request) {
	f, ok := s.recorder.Last()
	if !ok {
		f, ok = s.persistedLast()
	}
	if !ok {
		http.Error(w, "no fix yet", http.StatusNoContent)
		return
	}
	if err := json.NewEncoder(w).Encode(f); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

// persistedLast falls back to the store's remembered fix, for the
// window right after a restart when the cache is empty. The same
// freshness rule applies.
func (s *WebDaemon) persistedLast() (fix.Fix, bool) {
	p, ok := s.catalog.(interface{ LastFix() (fix.Fix, error) })
	if !ok {
		return fix.Fix{}, false
	}
	f, err := p.LastFix()
	if err != nil || f.Time.IsZero() {
		return fix.Fix{}, false
	}
	if time.Since(f.Time) > params.CacheLastKnownTTL {
		return fix.Fix{}, false
	}
	return f, true
}

// handleTrack returns the accumulated track as a GeoJSON LineString
// feature with distance and stats properties.
// With ?points=n the response is instead a JSON array of the last n
// track points; a client drawing a live tail doesn't need the whole
// line re-sent per fix.
func (s *WebDaemon) handleTrack(w http.ResponseWriter, r *http.Request) {
	snap := s.recorder.Snapshot()

	if q := r.URL.Query().Get("points"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			http.Error(w, "points must be a positive integer", http.StatusBadRequest)
			return
		}
		buf := common.NewRingBuffer[track.TrackPoint](n)
		for _, tp := range snap.Points {
			buf.Add(tp)
		}
		if err := json.NewEncoder(w).Encode(buf.Get()); err != nil {
			s.logger.Warn("Failed to write response", "error", err)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(snap.Feature()); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

// handlePOIs lists the POI catalog, in display order.
// ?active=true restricts to POIs eligible for proximity checks.
// ?near=lat,lng answers with {poi, meters} pairs nearest first instead;
// a what's-around-me lookup, read-only, no suppression involved.
func (s *WebDaemon) handlePOIs(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		http.Error(w, "No POI catalog", http.StatusServiceUnavailable)
		return
	}
	pois, err := s.catalog.ListPOIs()
	if err != nil {
		s.logger.Error("Failed to list POIs", "error", err)
		http.Error(w, "Failed to list POIs", http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Get("active") == "true" {
		pois = poi.FilterActive(pois)
	}
	if q := r.URL.Query().Get("near"); q != "" {
		s.poisNear(w, q, pois)
		return
	}
	poi.SortStable(pois)
	if err := json.NewEncoder(w).Encode(pois); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) poisNear(w http.ResponseWriter, q string, pois []poi.POI) {
	latStr, lngStr, ok := strings.Cut(q, ",")
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if !ok || errLat != nil || errLng != nil {
		http.Error(w, "near must be lat,lng", http.StatusBadRequest)
		return
	}
	hits := make([]proximity.Hit, 0, len(pois))
	for _, p := range pois {
		d := geo.DistanceMeters(lat, lng, p.Lat, p.Lng)
		if math.IsNaN(d) {
			continue
		}
		hits = append(hits, proximity.Hit{POI: p, Meters: d})
	}
	proximity.SortHitsByDistance(hits)
	if err := json.NewEncoder(w).Encode(hits); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}
