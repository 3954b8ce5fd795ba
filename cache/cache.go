// Package cache keeps the points of built nodes so that unchanged nodes are not rebuilt. Entries are
// reference counted by their users and swept once nobody holds them any more.
package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/coastersim/internal"
	"github.com/oomph-ac/coastersim/node"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/oomph-ac/coastersim/physics"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Key identifies a build: the anchor it starts from, the node configuration and its curves.
type Key uint64

// KeyOf digests everything a build depends on. config must print deterministically with %+v, and
// curves is the fingerprint of the node's curves.
func KeyOf(anchor physics.Point, kind string, config any, curves uint64) Key {
	buf := internal.Buffer()
	defer internal.PutBuffer(buf)

	buf.WriteString(kind)
	_, _ = fmt.Fprintf(buf, "%+v", config)
	_ = binary.Write(buf, binary.LittleEndian, curves)
	_ = binary.Write(buf, binary.LittleEndian, anchor)
	return Key(xxh3.Hash(buf.Bytes()))
}

type entry struct {
	subs   atomic.Int64
	points []physics.Point
}

// Cache is a set of built nodes shared by concurrent builds.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// Build returns the points b builds from anchor, building them only if key is not cached yet. Every call
// subscribes to the entry and must be paired with Release. The returned slice belongs to the caller.
func (c *Cache) Build(key Key, b node.Builder, anchor physics.Point) []physics.Point {
	c.mu.RLock()
	e, found := c.entries[key]
	if found {
		e.subs.Add(1)
	}
	c.mu.RUnlock()
	if found {
		c.hits.Add(1)
		return slices.Clone(e.points)
	}

	c.misses.Add(1)
	points := b.Build(anchor, nil)

	c.mu.Lock()
	// Another build of the same key may have finished in the meantime.
	if e, found = c.entries[key]; !found {
		e = &entry{points: points}
		c.entries[key] = e
	}
	e.subs.Add(1)
	c.mu.Unlock()
	return slices.Clone(e.points)
}

// Release drops a subscription taken by Build.
func (c *Cache) Release(key Key) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok {
		e.subs.Add(-1)
	}
}

// Sweep removes every entry nobody is subscribed to and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for key, e := range c.entries {
		if e.subs.Load() <= 0 {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Len returns the amount of cached builds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the amount of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Run sweeps the cache every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	defer func() {
		if err := recover(); err != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(oerror.New("cache sweeper crashed: %v", err))
			hub.Flush(time.Second * 5)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := c.Sweep(); n > 0 {
				logrus.Debugf("swept %d cached builds", n)
			}
		}
	}
}
