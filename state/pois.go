package state

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/transectd/params"
	"github.com/rotblauer/transectd/types/poi"
	bbolt "go.etcd.io/bbolt"
)

// UpsertPOI validates and writes one POI, then publishes the catalog.
func (s *Store) UpsertPOI(p poi.POI) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(params.POIBucket).Put([]byte(p.ID), b)
	})
	if err != nil {
		return err
	}
	s.publishPOIs()
	return nil
}

func (s *Store) POI(id string) (poi.POI, error) {
	var p poi.POI
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(params.POIBucket).Get([]byte(id))
		if v == nil {
			return ErrPOINotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// ActivePOIs returns the POIs eligible for proximity checks, in
// display order.
func (s *Store) ActivePOIs() ([]poi.POI, error) {
	pois, err := s.ListPOIs()
	if err != nil {
		return nil, err
	}
	return poi.FilterActive(pois), nil
}

// ListPOIs returns the whole catalog in stable display order.
func (s *Store) ListPOIs() ([]poi.POI, error) {
	pois := []poi.POI{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(params.POIBucket).ForEach(func(_, v []byte) error {
			var p poi.POI
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			pois = append(pois, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	poi.SortStable(pois)
	return pois, nil
}

func (s *Store) DeletePOI(id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(params.POIBucket)
		if b.Get([]byte(id)) == nil {
			return ErrPOINotFound
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	s.publishPOIs()
	return nil
}

// ReplaceSource swaps out every POI carrying the given source tag for
// the new set, in one transaction. Re-importing a GPX file twice does
// not double the catalog. Returns the number of POIs written.
func (s *Store) ReplaceSource(source string, pois []poi.POI) (int, error) {
	for i := range pois {
		pois[i].Source = source
		if err := pois[i].Validate(); err != nil {
			return 0, err
		}
	}
	n := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(params.POIBucket)
		drop := [][]byte{}
		err := b.ForEach(func(k, v []byte) error {
			var p poi.POI
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			if p.Source == source {
				key := make([]byte, len(k))
				copy(key, k)
				drop = append(drop, key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range drop {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		for _, p := range pois {
			v, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(p.ID), v); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publishPOIs()
	return n, nil
}

// MarkVisited flags the POI visited. The in-memory detector is the
// source of truth for the session; this write is the durable echo.
func (s *Store) MarkVisited(id string) error {
	return s.mutatePOI(id, func(p *poi.POI) {
		p.Visited = true
	})
}

// SetLastNotified stamps when the POI's notification fired.
func (s *Store) SetLastNotified(id string, at time.Time) error {
	return s.mutatePOI(id, func(p *poi.POI) {
		p.LastNotified = at
	})
}

func (s *Store) mutatePOI(id string, mut func(*poi.POI)) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(params.POIBucket)
		v := b.Get([]byte(id))
		if v == nil {
			return ErrPOINotFound
		}
		var p poi.POI
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		mut(&p)
		out, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return err
	}
	s.publishPOIs()
	return nil
}

// SubscribePOIs delivers the full catalog to ch after every mutation.
// Unsubscribe to cancel; the store never closes ch.
func (s *Store) SubscribePOIs(ch chan<- []poi.POI) event.Subscription {
	return s.feedPOIs.Subscribe(ch)
}

func (s *Store) publishPOIs() {
	pois, err := s.ListPOIs()
	if err != nil {
		return
	}
	s.feedPOIs.Send(pois)
}
