package webd

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/olahol/melody"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/transectd/notify"
	"github.com/rotblauer/transectd/types/fix"
	"github.com/rotblauer/transectd/types/track"
)

type websocketAction string

var (
	websocketActionPopulate websocketAction = "populate"
	websocketActionSnapshot websocketAction = "snapshot"
	websocketActionArrival  websocketAction = "arrival"
)

// sotran is the websocket envelope. Exactly one payload field is set,
// matching the action.
type sotran struct {
	Action  websocketAction      `json:"action"`
	Fixes   []fix.Fix            `json:"fixes,omitempty"`
	Track   *geojson.Feature     `json:"track,omitempty"`
	Arrival *notify.Notification `json:"arrival,omitempty"`
}

// initMelody sets up the websocket handler and bridges the recorder's
// feeds onto it.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	s.melodyInstance.HandleConnect(func(sess *melody.Session) {
		log.Println("[websocket] connected", sess.Request.RemoteAddr)
		// Late joiners get the current line immediately, not on the
		// next fix.
		snap := s.recorder.Snapshot()
		b, err := json.Marshal(sotran{Action: websocketActionSnapshot, Track: snap.Feature()})
		if err == nil {
			_ = sess.Write(b)
		}
	})

	// Right now don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(loggingHandler)

	s.melodyInstance.HandleDisconnect(func(sess *melody.Session) {
		log.Println("[websocket] disconnected", sess.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(sess *melody.Session, e error) {
		log.Println("[websocket] error", e, sess.Request.RemoteAddr)
	})

	// Broadcast push events as received. These are NOT the recorded
	// points; validity gating happens in the recorder. It is what the
	// device sent us.
	pushes := make(chan []fix.Fix)
	pushSub := s.feedPopulated.Subscribe(pushes)
	snaps := make(chan track.Snapshot)
	snapSub := s.recorder.SubscribeSnapshots(snaps)
	hits := make(chan notify.Notification)
	hitSub := s.recorder.SubscribeHits(hits)
	go func() {
		defer pushSub.Unsubscribe()
		defer snapSub.Unsubscribe()
		defer hitSub.Unsubscribe()
		for {
			select {
			case fixes := <-pushes:
				s.broadcast(sotran{Action: websocketActionPopulate, Fixes: fixes})
			case snap := <-snaps:
				s.broadcast(sotran{Action: websocketActionSnapshot, Track: snap.Feature()})
			case n := <-hits:
				s.broadcast(sotran{Action: websocketActionArrival, Arrival: &n})
			case err := <-pushSub.Err():
				slog.Error("Websocket bridge lost populate feed", "error", err)
				return
			case err := <-snapSub.Err():
				slog.Error("Websocket bridge lost snapshot feed", "error", err)
				return
			case err := <-hitSub.Err():
				slog.Error("Websocket bridge lost arrival feed", "error", err)
				return
			}
		}
	}()
}

func (s *WebDaemon) broadcast(msg sotran) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal websocket event", "error", err)
		return
	}
	if err := s.melodyInstance.Broadcast(b); err != nil {
		slog.Warn("Failed to broadcast websocket event", "error", err)
	}
}

// on request
func loggingHandler(sess *melody.Session, msg []byte) {
	log.Println("[websocket] message", string(msg))
}
