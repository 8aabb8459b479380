// Package tokencache holds the most recently issued token per identity.
//
// Entries expire lazily: a record whose expiry has passed is invisible to
// TryGet whether or not it has been swept. The map is split into shards,
// each behind its own lock, so logins for unrelated identities never
// contend on a single mutex.
package tokencache

import (
	"hash/maphash"
	"sync"
	"time"
)

// DefaultShards is used when Options.Shards is not positive.
const DefaultShards = 32

// Record is one issued token. ExpiresAt must equal the exp claim inside
// Token.
type Record struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

// Live reports whether r is still usable at now.
func (r Record) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

type Options struct {
	Shards int

	// Now defaults to time.Now. The token signer should share the clock.
	Now func() time.Time
}

type shard struct {
	mu      sync.RWMutex
	records map[string]Record
}

type Cache struct {
	seed   maphash.Seed
	shards []*shard
	now    func() time.Time
}

func New(opts Options) *Cache {
	n := opts.Shards
	if n <= 0 {
		n = DefaultShards
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Cache{
		seed:   maphash.MakeSeed(),
		shards: make([]*shard, n),
		now:    now,
	}
	for i := range c.shards {
		c.shards[i] = &shard{records: make(map[string]Record)}
	}
	return c
}

func (c *Cache) shardFor(key string) *shard {
	h := maphash.String(c.seed, key)
	return c.shards[h%uint64(len(c.shards))]
}

// TryGet returns the record for key if it has not expired.
func (c *Cache) TryGet(key string) (Record, bool) {
	s := c.shardFor(key)

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok || !rec.Live(c.now()) {
		return Record{}, false
	}
	return rec, true
}

// Set replaces whatever is stored under rec.Key.
func (c *Cache) Set(rec Record) {
	s := c.shardFor(rec.Key)

	s.mu.Lock()
	s.records[rec.Key] = rec
	s.mu.Unlock()
}

// Sweep drops expired records and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0

	for _, s := range c.shards {
		s.mu.Lock()
		for k, rec := range s.records {
			if !rec.Live(now) {
				delete(s.records, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len counts stored records, including expired ones not yet swept.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

// Shards returns the shard count.
func (c *Cache) Shards() int { return len(c.shards) }
