package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/transectd/types/poi"
)

// Memory is a POI catalog that lives and dies with the process. It
// backs tests and replays where a database file would just be litter.
// Same feed semantics as Store: the full catalog goes out after every
// mutation.
type Memory struct {
	mu   sync.Mutex
	pois map[string]poi.POI
	feed event.FeedOf[[]poi.POI]
}

func NewMemory(pois ...poi.POI) *Memory {
	m := &Memory{pois: map[string]poi.POI{}}
	for _, p := range pois {
		m.pois[p.ID] = p
	}
	return m
}

func (m *Memory) ActivePOIs() ([]poi.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return poi.FilterActive(m.list()), nil
}

func (m *Memory) ListPOIs() ([]poi.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(), nil
}

// list returns the catalog in display order. Caller holds mu.
func (m *Memory) list() []poi.POI {
	pois := make([]poi.POI, 0, len(m.pois))
	for _, p := range m.pois {
		pois = append(pois, p)
	}
	poi.SortStable(pois)
	return pois
}

func (m *Memory) UpsertPOI(p poi.POI) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.pois[p.ID] = p
	list := m.list()
	m.mu.Unlock()
	m.feed.Send(list)
	return nil
}

func (m *Memory) MarkVisited(id string) error {
	return m.mutate(id, func(p *poi.POI) {
		p.Visited = true
	})
}

func (m *Memory) SetLastNotified(id string, at time.Time) error {
	return m.mutate(id, func(p *poi.POI) {
		p.LastNotified = at
	})
}

func (m *Memory) mutate(id string, mut func(*poi.POI)) error {
	m.mu.Lock()
	p, ok := m.pois[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPOINotFound, id)
	}
	mut(&p)
	m.pois[id] = p
	list := m.list()
	m.mu.Unlock()
	m.feed.Send(list)
	return nil
}

func (m *Memory) SubscribePOIs(ch chan<- []poi.POI) event.Subscription {
	return m.feed.Subscribe(ch)
}
