// Package source produces the in-order fix streams the recorder
// consumes: canned slices for tests and replays, NDJSON readers with
// quality gates, and a push source fed over HTTP.
package source

import (
	"context"
	"sync"

	"github.com/rotblauer/transectd/stream"
	"github.com/rotblauer/transectd/types/fix"
)

// A Source yields fixes in arrival order until its input is exhausted
// or ctx is done. The returned channel closes when the stream ends.
type Source interface {
	Fixes(ctx context.Context) (<-chan fix.Fix, error)
}

// Slice replays a fixed set of fixes, as-is.
type Slice struct {
	records []fix.Fix
}

func NewSlice(records []fix.Fix) *Slice {
	return &Slice{records: records}
}

func (s *Slice) Fixes(ctx context.Context) (<-chan fix.Fix, error) {
	return stream.Slice(ctx, s.records), nil
}

// Push is a source fed by its caller, one fix batch at a time. The web
// daemon owns one and feeds it from upload requests.
type Push struct {
	ch        chan fix.Fix
	closeOnce sync.Once
}

func NewPush(buffer int) *Push {
	return &Push{ch: make(chan fix.Fix, buffer)}
}

func (p *Push) Fixes(ctx context.Context) (<-chan fix.Fix, error) {
	return p.ch, nil
}

// Send queues fixes for the consumer, blocking if the buffer is full.
func (p *Push) Send(ctx context.Context, fixes ...fix.Fix) error {
	for _, f := range fixes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p.ch <- f:
		}
	}
	return nil
}

// Close ends the stream. Idempotent. Send after Close panics; the
// owner stops sending first.
func (p *Push) Close() {
	p.closeOnce.Do(func() { close(p.ch) })
}
