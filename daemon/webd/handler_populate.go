package webd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rotblauer/transectd/api"
	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/fix"
)

// handlePopulate is the handler for the /populate endpoint.
// It is where companion devices post fixes. It accepts a variety of
// input formats; Android (GCPS) posts a GeoJSON array of Point
// features, iOS posts flat JSON fix objects, NDJSON or array, and
// messages that decode as neither are counted and skipped.
//
// The raw body is archived before any decoding, so a batch the decoder
// chokes on can still be replayed later.
func (s *WebDaemon) handlePopulate(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", 500)
		return
	}
	if !s.recorder.IsTracking() {
		// Nobody is consuming the push source; a Send would hang.
		s.logger.Warn("Push while not recording", "url", r.URL)
		http.Error(w, "Not recording", http.StatusServiceUnavailable)
		return
	}

	cp := new(bytes.Buffer)
	tee := io.TeeReader(r.Body, cp)
	i, err := api.StoreRawUpload(s.Config.DataDir, tee)
	if err != nil {
		s.logger.Error("Failed to store raw upload", "error", err)
		http.Error(w, "Failed to store raw upload", http.StatusInternalServerError)
		return
	}
	s.logger.Info("Stored raw upload", "bytes", i, "path", params.UploadsGZFileName)

	buf := bufio.NewReader(cp)
	peek, _ := buf.Peek(80)
	s.logger.Debug("Decoding", "peek", fmt.Sprintf("%s...", peek))

	fixes := make([]fix.Fix, 0, 64)
	skipped, err := fix.ScanFixes(buf, func(f fix.Fix) error {
		f.Name = names.AliasOrName(f.Name)
		fixes = append(fixes, f)
		return nil
	})
	if err != nil || len(fixes) == 0 {
		s.logger.Error("Failed to decode fixes", "error", err, "skipped", skipped)
		http.Error(w, "Failed to decode fixes", http.StatusUnprocessableEntity)
		return
	}

	// In-batch time ordering is this side's job; the recorder takes
	// the stream as-is.
	fix.SortStable(fixes)

	s.logger.Info("Populating", "fixes", len(fixes), "skipped", skipped)
	if err := s.push.Send(r.Context(), fixes...); err != nil {
		s.logger.Error("Failed to queue fixes", "error", err)
		http.Error(w, "Failed to queue fixes", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]int{
		"received": len(fixes),
		"skipped":  skipped,
	}); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}

	s.feedPopulated.Send(fixes)
}
