// Package api is the orchestration layer. A Recorder owns one survey's
// fix pipeline: source in, proximity decisions and notifications out,
// track accumulation and persistence on the side.
package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/transectd/cache"
	"github.com/rotblauer/transectd/geo/proximity"
	"github.com/rotblauer/transectd/geo/smooth"
	"github.com/rotblauer/transectd/geo/tracker"
	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/source"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/poi"
	"github.com/rotblauer/transectd/types/track"
)

var ErrAlreadyRecording = errors.New("already recording")
var ErrNotRecording = errors.New("not recording")
var ErrEmptyTrack = errors.New("empty track")

// PoiStore is the POI catalog capability the recorder consumes.
// state.Store and state.Memory both provide it. A nil store is
// tolerated; the recorder then tracks without proximity checks.
type PoiStore interface {
	ActivePOIs() ([]poi.POI, error)
	SubscribePOIs(ch chan<- []poi.POI) event.Subscription
	MarkVisited(id string) error
	SetLastNotified(id string, at time.Time) error
}

// Recorder is the tracking state machine: Idle until Start, Active
// until Stop. While Active it consumes fixes strictly in arrival
// order, one at a time, fanning each accepted fix out to proximity
// evaluation and track accumulation.
//
// Observers subscribe to its feeds; there is no global state. Feed
// sends block until every subscriber accepts, so subscribers keep
// their channels drained or buffered.
type Recorder struct {
	config *params.RecorderConfig
	logger *slog.Logger

	store PoiStore
	sink  notify.Sink

	detector *proximity.Detector
	smoother *smooth.Filter
	track    *tracker.Accumulator
	last     *cache.LastKnown

	// pois is the working snapshot evaluation reads. It is replaced
	// wholesale, never mutated in place, so an evaluation that has
	// already picked it up keeps a consistent view.
	poiMu sync.RWMutex
	pois  []poi.POI
	index *proximity.Index

	// transMu serializes Start/Stop transitions.
	transMu sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	subPOIs event.Subscription
	poiCh   chan []poi.POI

	feedTracking  event.FeedOf[bool]
	feedSnapshots event.FeedOf[track.Snapshot]
	feedHits      event.FeedOf[notify.Notification]

	// Waiting counts offloaded notification and persistence work.
	// Close drains it.
	Waiting sync.WaitGroup

	received atomic.Int64
	recorded atomic.Int64
	skipped  atomic.Int64
	notified atomic.Int64
}

func NewRecorder(config *params.RecorderConfig, store PoiStore, sink notify.Sink) *Recorder {
	if config == nil {
		config = params.DefaultRecorderConfig()
	}
	r := &Recorder{
		config:   config,
		logger:   slog.With("rec", config.Name),
		store:    store,
		sink:     sink,
		detector: proximity.NewDetector(config.Proximity),
		track:    tracker.NewAccumulator(),
		last:     cache.NewLastKnown(params.CacheLastKnownTTL),
		pois:     []poi.POI{},
		done:     make(chan struct{}),
	}
	close(r.done)
	if config.Smooth {
		r.smoother = smooth.NewFilter(config.Smoothing)
	}
	return r
}

// Start moves Idle -> Active: resets the track, takes a fresh POI
// snapshot, and begins consuming the source. The detector is NOT
// reset; a POI notified in an earlier session of this process stays
// suppressed (see Detector).
func (r *Recorder) Start(ctx context.Context, src source.Source) error {
	r.transMu.Lock()
	defer r.transMu.Unlock()
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRecording
	}
	r.track.Reset()
	r.loadPOIs()

	ctx, cancel := context.WithCancel(ctx)
	fixes, err := src.Fixes(ctx)
	if err != nil {
		cancel()
		r.running.Store(false)
		return err
	}
	r.cancel = cancel
	if r.store != nil {
		r.poiCh = make(chan []poi.POI, 1)
		r.subPOIs = r.store.SubscribePOIs(r.poiCh)
	}
	r.done = make(chan struct{})

	r.logger.Info("Recording started", "pois", r.poiCount())
	r.feedTracking.Send(true)
	go r.loop(ctx, fixes)
	return nil
}

// Stop moves Active -> Idle: cancels the source subscription, waits
// for the processing loop to drain, and publishes the final snapshot.
// Offloaded persistence is left to finish on its own; Close waits for
// it.
func (r *Recorder) Stop() (track.Snapshot, error) {
	r.transMu.Lock()
	defer r.transMu.Unlock()
	if !r.running.CompareAndSwap(true, false) {
		return r.track.Snapshot(), ErrNotRecording
	}
	r.cancel()
	<-r.done
	if r.subPOIs != nil {
		r.subPOIs.Unsubscribe()
		r.subPOIs = nil
	}
	final := r.track.Snapshot()
	r.feedSnapshots.Send(final)
	r.feedTracking.Send(false)
	r.logger.Info("Recording stopped",
		"points", len(final.Points), "meters", final.Distance)
	return final, nil
}

// Close stops recording if needed and waits out in-flight
// notification and persistence work.
func (r *Recorder) Close() {
	_, _ = r.Stop()
	r.Waiting.Wait()
}

// Done is closed when the processing loop has exited: after Stop,
// context cancellation, or the source running dry.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder) IsTracking() bool {
	return r.running.Load()
}

// Snapshot is the current track, whole and immutable.
func (r *Recorder) Snapshot() track.Snapshot {
	return r.track.Snapshot()
}

// Last returns the most recent fix, if one is fresh enough.
func (r *Recorder) Last() (fix.Fix, bool) {
	return r.last.Get(r.config.Name)
}

func (r *Recorder) SubscribeTracking(ch chan<- bool) event.Subscription {
	return r.feedTracking.Subscribe(ch)
}

func (r *Recorder) SubscribeSnapshots(ch chan<- track.Snapshot) event.Subscription {
	return r.feedSnapshots.Subscribe(ch)
}

func (r *Recorder) SubscribeHits(ch chan<- notify.Notification) event.Subscription {
	return r.feedHits.Subscribe(ch)
}

// loop is the only goroutine that touches the accumulator and
// detector while Active. Fixes are handled strictly in arrival order;
// POI snapshot swaps slot in between fixes, never during one.
func (r *Recorder) loop(ctx context.Context, fixes <-chan fix.Fix) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case pois := <-r.poiCh:
			r.swapPOIs(pois)
		case f, ok := <-fixes:
			if !ok {
				return
			}
			r.ingest(f)
		}
	}
}

func (r *Recorder) ingest(f fix.Fix) {
	r.received.Add(1)
	if !f.IsValid() {
		r.skipped.Add(1)
		r.logger.Debug("Skipping invalid fix", "fix", f.StringPretty())
		return
	}
	if r.smoother != nil {
		f = r.smoother.Smooth(f)
	}

	for _, h := range r.evaluate(f) {
		r.dispatch(f, h)
	}

	r.track.Append(f)
	r.recorded.Add(1)
	r.last.Set(r.config.Name, f)
	r.feedSnapshots.Send(r.track.Snapshot())
}

func (r *Recorder) evaluate(f fix.Fix) []proximity.Hit {
	r.poiMu.RLock()
	pois, index := r.pois, r.index
	r.poiMu.RUnlock()
	if index != nil {
		pois = index.Near(f.Lat, f.Lng)
	}
	return r.detector.Evaluate(f.Lat, f.Lng, pois)
}

// dispatch fires the sink and persists the visited mark, off the
// processing loop. The work deliberately does not take the session
// context: Stop lets in-flight notifications and writes finish rather
// than cancelling them. A store failure logs and moves on; the
// notification has already fired and the in-memory suppression stays.
func (r *Recorder) dispatch(f fix.Fix, h proximity.Hit) {
	r.notified.Add(1)
	n := notify.Notification{
		Survey: r.config.Name,
		POI:    h.POI,
		Meters: h.Meters,
		Fix:    f,
		At:     time.Now(),
	}
	r.feedHits.Send(n)
	r.Waiting.Add(1)
	go func() {
		defer r.Waiting.Done()
		ctx := context.Background()
		if r.sink != nil {
			if err := r.sink.Notify(ctx, n); err != nil {
				r.logger.Error("Notification sink failed",
					"poi", n.POI.Name, "error", err)
			}
		}
		if r.store == nil {
			return
		}
		if err := r.store.MarkVisited(n.POI.ID); err != nil {
			r.logger.Error("Failed to persist visited mark",
				"poi", n.POI.ID, "error", err)
		}
		if err := r.store.SetLastNotified(n.POI.ID, n.At); err != nil {
			r.logger.Error("Failed to persist notification time",
				"poi", n.POI.ID, "error", err)
		}
	}()
}

// loadPOIs takes the starting snapshot. A store read failure degrades
// proximity checking to whatever snapshot is already held (empty on
// the first load) and never blocks tracking.
func (r *Recorder) loadPOIs() {
	if r.store == nil {
		return
	}
	pois, err := r.store.ActivePOIs()
	if err != nil {
		r.logger.Error("Failed to load POIs, proximity degraded",
			"have", r.poiCount(), "error", err)
		return
	}
	r.swapPOIs(pois)
}

// swapPOIs installs a fresh working snapshot and seeds the detector
// from persisted visited flags, so a restarted process stays one-shot.
// In re-arm mode only marks still inside the cooldown window count.
func (r *Recorder) swapPOIs(pois []poi.POI) {
	for _, p := range pois {
		if !p.Visited || r.detector.Suppressed(p.ID) {
			continue
		}
		if ra := r.config.Proximity.RearmAfter; ra > 0 && time.Since(p.LastNotified) >= ra {
			continue
		}
		r.detector.MarkVisited(p.ID)
	}

	active := poi.FilterCategories(poi.FilterActive(pois), r.config.Categories...)
	var index *proximity.Index
	if t := r.config.Proximity.IndexThreshold; t > 0 && len(active) >= t {
		var err error
		index, err = proximity.NewIndex(active, r.config.Proximity)
		if err != nil {
			r.logger.Error("Failed to build POI index, scanning linear", "error", err)
			index = nil
		}
	}
	r.poiMu.Lock()
	r.pois = active
	r.index = index
	r.poiMu.Unlock()
	r.logger.Info("POI snapshot", "n", len(active), "indexed", index != nil)
}

func (r *Recorder) poiCount() int {
	r.poiMu.RLock()
	defer r.poiMu.RUnlock()
	return len(r.pois)
}

// Status is a point-in-time counters report, for the web daemon and
// the record command's summary.
type Status struct {
	Survey   string  `json:"survey"`
	Tracking bool    `json:"tracking"`
	Received int64   `json:"received"`
	Recorded int64   `json:"recorded"`
	Skipped  int64   `json:"skipped"`
	Notified int64   `json:"notified"`
	POIs     int     `json:"pois"`
	Points   int     `json:"points"`
	Meters   float64 `json:"meters"`
}

func (r *Recorder) Status() Status {
	return Status{
		Survey:   r.config.Name,
		Tracking: r.running.Load(),
		Received: r.received.Load(),
		Recorded: r.recorded.Load(),
		Skipped:  r.skipped.Load(),
		Notified: r.notified.Load(),
		POIs:     r.poiCount(),
		Points:   r.track.Len(),
		Meters:   r.track.Distance(),
	}
}
