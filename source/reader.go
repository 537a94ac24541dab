package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rotblauer/transectd/cache"
	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/stream"
	"github.com/rotblauer/transectd/types/fix"
)

// Reader streams fixes decoded from NDJSON or a JSON array, with the
// standard quality gates applied: validation, accuracy and speed
// thresholds, elevation sanity, and a dedupe window. With SortWindow
// set, slightly shuffled input is reordered by time on the way out.
type Reader struct {
	r      io.Reader
	config params.SourceConfig
}

func NewReader(r io.Reader, config params.SourceConfig) *Reader {
	return &Reader{r: r, config: config}
}

func (s *Reader) Fixes(ctx context.Context) (<-chan fix.Fix, error) {
	raw := make(chan fix.Fix)
	go func() {
		defer close(raw)
		met := stream.NewTickMeter(5 * time.Second)
		defer met.Stop()
		skipped := 0
		err := fix.ScanJSONMessages(s.r, func(msg json.RawMessage) error {
			f, err := fix.DecodeFix(msg)
			if err != nil {
				skipped++
				return nil
			}
			f.Name = names.AliasOrName(f.Name)
			met.Mark(f.Timestamp(), msg)
			if f.Name != "" {
				met.AddSource(f.Name)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case raw <- f:
			}
			return nil
		})
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			slog.Error("Fix scan failed", "error", err)
		}
		if skipped > 0 {
			slog.Warn("Fix scan skipped undecodable messages", "skipped", skipped)
		}
	}()

	out := stream.Filter(ctx, fix.Fix.IsValid, raw)
	if s.config.AccuracyThreshold > 0 {
		out = stream.Filter(ctx, FilterPoorAccuracy(s.config.AccuracyThreshold), out)
	}
	if s.config.SpeedThreshold > 0 {
		out = stream.Filter(ctx, FilterUltraHighSpeed(s.config.SpeedThreshold), out)
	}
	out = stream.Filter(ctx, FilterWildElevation, out)
	if s.config.DedupeCacheSize > 0 {
		out = stream.Filter(ctx, cache.NewDedupePassLRUFunc(s.config.DedupeCacheSize), out)
	}
	if s.config.SortWindow > 1 {
		out = stream.RingSort(ctx, s.config.SortWindow, func(a, b fix.Fix) int {
			return a.Timestamp().Compare(b.Timestamp())
		}, out)
	}
	return out, nil
}
