// Package notify delivers one-shot arrival notifications to whoever
// is listening: the log, a webhook, the web daemon's live feed.
// Deciding that a notification should fire is the proximity detector's
// job; this package only carries the news.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/rotblauer/transectd/common"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
)

// A Notification records a survey position entering a POI's geofence.
// At most one fires per POI per survey, unless a cooldown re-arms it.
type Notification struct {
	Survey string    `json:"survey"`
	POI    poi.POI   `json:"poi"`
	Meters float64   `json:"meters"` // distance to the POI when it fired
	Fix    fix.Fix   `json:"fix"`    // the fix that tripped the fence
	At     time.Time `json:"at"`
	Region string    `json:"region,omitempty"` // reverse geocoded, best effort
}

// A Sink receives notifications. The recorder calls sinks off its
// processing loop, so a slow sink cannot delay fix handling, but a
// wedged one still delays shutdown.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Multi fans a notification out to all of its sinks. Every sink gets
// the notification even when an earlier one fails; the first error is
// returned.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var first error
	for _, s := range m {
		if err := s.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Slog logs notifications. It is the sink of last resort and never fails.
type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Notify(_ context.Context, n Notification) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("🔔 Arrived", "survey", n.Survey,
		"poi", n.POI.Name, "category", n.POI.Category,
		"meters", common.DecimalToFixed(n.Meters, 1),
		"region", n.Region)
	return nil
}
