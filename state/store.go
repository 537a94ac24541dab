// Package state persists the long-lived survey state: the POI
// catalog, finished session summaries, and a small KV area for
// last-known values. One bbolt file holds it all.
//
// The store is an injected dependency, not a package global. Anything
// that wants to track the POI catalog subscribes to the store's feed
// and gets the full current set after every mutation.
package state

import (
	"errors"

	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/poi"
	bbolt "go.etcd.io/bbolt"
)

var (
	ErrPOINotFound     = errors.New("poi not found")
	ErrSessionNotFound = errors.New("session not found")
)

type Store struct {
	db   *bbolt.DB
	path string

	feedPOIs event.FeedOf[[]poi.POI]
}

// Open opens or creates the state database and its buckets.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{params.POIBucket, params.SessionBucket, params.StateBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

// StoreKV writes a value in the state bucket.
func (s *Store) StoreKV(key, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(params.StateBucket).Put(key, value)
	})
}

// ReadKV returns a copy of the value, nil if unset. Bucket values are
// only valid inside the transaction, so the copy matters.
func (s *Store) ReadKV(key []byte) ([]byte, error) {
	var got []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(params.StateBucket).Get(key)
		if v != nil {
			got = make([]byte, len(v))
			copy(got, v)
		}
		return nil
	})
	return got, err
}
