package state

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/fix"
	bbolt "go.etcd.io/bbolt"
)

// Session is the durable summary of one finished walk.
type Session struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Meters  float64   `json:"meters"`
	Points  int       `json:"points"`
	Visited []string  `json:"visited,omitempty"`
}

func (s *Store) PutSession(sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(params.SessionBucket).Put([]byte(sess.ID), b)
	})
}

func (s *Store) Session(id string) (Session, error) {
	var sess Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(params.SessionBucket).Get([]byte(id))
		if v == nil {
			return ErrSessionNotFound
		}
		return json.Unmarshal(v, &sess)
	})
	return sess, err
}

// Sessions returns all summaries ordered by start time.
func (s *Store) Sessions() ([]Session, error) {
	sessions := []Session{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(params.SessionBucket).ForEach(func(_, v []byte) error {
			var sess Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return err
			}
			sessions = append(sessions, sess)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(sessions, func(a, b Session) int {
		return a.Start.Compare(b.Start)
	})
	return sessions, nil
}

var keyLastFix = []byte("lastfix")

// StoreLastFix remembers the most recent fix across restarts.
func (s *Store) StoreLastFix(f fix.Fix) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.StoreKV(keyLastFix, b)
}

func (s *Store) LastFix() (fix.Fix, error) {
	var f fix.Fix
	v, err := s.ReadKV(keyLastFix)
	if err != nil {
		return f, err
	}
	if v == nil {
		return f, nil
	}
	err = json.Unmarshal(v, &f)
	return f, err
}
