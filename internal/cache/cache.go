// Package cache memoizes statement results for a fixed time-to-live.
//
// Entries expire lazily: an expired entry is removed when a lookup finds it,
// there is no background sweep. Two concurrent misses on the same statement
// may both execute and both store; the last store wins. Removing an expired
// entry and storing a fresh one for the same key are serialized, so a removal
// never drops an entry stored after the lookup saw the expired one.
package cache

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mkd-neo4j/seraph/internal/statement"
)

// DefaultMaxEntries bounds the cache when no WithMaxEntries option is given.
const DefaultMaxEntries = 10000

type entry[V any] struct {
	canonical  string
	value      V
	insertedAt time.Time
}

// TTL is a concurrency-safe result cache keyed by statement.
type TTL[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	entries *lru.Cache[string, entry[V]]

	// mu orders expiry removals against stores
	mu sync.Mutex
}

// Option configures a TTL cache.
type Option func(*settings)

type settings struct {
	maxEntries int
	now        func() time.Time
}

// WithMaxEntries bounds the number of entries; the least recently used entry
// is evicted when the bound is reached.
func WithMaxEntries(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a cache whose entries are valid for ttl.
func New[V any](ttl time.Duration, opts ...Option) (*TTL[V], error) {
	s := settings{maxEntries: DefaultMaxEntries, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}

	entries, err := lru.New[string, entry[V]](s.maxEntries)
	if err != nil {
		return nil, err
	}

	return &TTL[V]{
		ttl:     ttl,
		now:     s.now,
		entries: entries,
	}, nil
}

// Key returns the cache key for stmt: a hash of its canonical form. Equal
// text and equal parameter contents give equal keys regardless of the order
// the parameters were bound in.
func Key(stmt statement.Statement) string {
	key, _ := keyOf(stmt)
	return key
}

func keyOf(stmt statement.Statement) (key string, canonical string) {
	canonical = stmt.Canonical()
	return strconv.FormatUint(xxhash.Sum64String(canonical), 16), canonical
}

// Lookup returns the cached value for stmt if present and not expired.
func (c *TTL[V]) Lookup(stmt statement.Statement) (V, bool) {
	var zero V

	key, canonical := keyOf(stmt)
	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	if e.canonical != canonical {
		// hash collision with a different statement
		return zero, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		return c.expire(key, canonical)
	}
	return e.value, true
}

// expire removes the entry under key unless a fresh one replaced it since the
// caller saw it expired, in which case the fresh value is returned.
func (c *TTL[V]) expire(key, canonical string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.entries.Remove(key)
		return zero, false
	}
	if e.canonical != canonical {
		return zero, false
	}
	return e.value, true
}

// Store inserts or overwrites the entry for stmt, stamped with the current time.
func (c *TTL[V]) Store(stmt statement.Statement, value V) {
	key, canonical := keyOf(stmt)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, entry[V]{
		canonical:  canonical,
		value:      value,
		insertedAt: c.now(),
	})
}

// ClearAll removes every entry.
func (c *TTL[V]) ClearAll() {
	c.entries.Purge()
}

// Len returns the number of entries, including expired ones not yet looked up.
func (c *TTL[V]) Len() int {
	return c.entries.Len()
}

func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}
