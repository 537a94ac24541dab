package api

import (
	"context"
	"sync"

	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/state"
	ttesting "github.com/rotblauer/transectd/testing"
	"github.com/rotblauer/transectd/types/poi"
)

var TestDatadirRoot = ttesting.DefaultTestDir()

func init() {
	params.DatadirRoot = TestDatadirRoot
}

// captureSink remembers every notification it is handed.
type captureSink struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (c *captureSink) Notify(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
	return nil
}

func (c *captureSink) Notifications() []notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notify.Notification, len(c.got))
	copy(out, c.got)
	return out
}

// newTestRecorder wires a recorder to an in-memory catalog and a
// capturing sink. The recorder is not started.
func newTestRecorder(config *params.RecorderConfig, pois ...poi.POI) (*Recorder, *state.Memory, *captureSink) {
	store := state.NewMemory(pois...)
	sink := &captureSink{}
	return NewRecorder(config, store, sink), store, sink
}
