// Package cache holds small in-memory caches used along the fix
// pipeline: the last known position per survey, and an LRU window for
// deduplicating replayed fixes.
package cache

import (
	"fmt"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/jellydator/ttlcache/v3"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/transectd/types/fix"
)

// LastKnown remembers the most recent fix per survey name, expiring
// entries that go stale.
type LastKnown struct {
	cache *ttlcache.Cache[string, fix.Fix]
}

func NewLastKnown(ttl time.Duration) *LastKnown {
	return &LastKnown{
		cache: ttlcache.New[string, fix.Fix](
			ttlcache.WithTTL[string, fix.Fix](ttl)),
	}
}

func (l *LastKnown) Set(name string, f fix.Fix) {
	l.cache.Set(name, f, ttlcache.DefaultTTL)
}

func (l *LastKnown) Get(name string) (fix.Fix, bool) {
	item := l.cache.Get(name)
	if item == nil {
		return fix.Fix{}, false
	}
	return item.Value(), true
}

// NewDedupePassLRUFunc returns a filter that passes a fix only the
// first time it is seen within a Least Recently Used window. The hash
// of the whole fix is the identity.
func NewDedupePassLRUFunc(size int) func(fix.Fix) bool {
	dedupeCache := lru.New(size)
	return func(f fix.Fix) bool {
		hash, err := hashstructure.Hash(f, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		_, ok := dedupeCache.Get(key)
		if ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
