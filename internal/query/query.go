// Package query caches the results of asynchronous reads by key and drops
// them on invalidation, in the style of a fetch/cache/invalidate client.
package query

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Key identifies one cached read: the operation plus its parameters.
type Key struct {
	Op     string
	Params url.Values
}

// NewKey builds a key from an operation and alternating name/value pairs.
func NewKey(op string, kv ...string) Key {
	k := Key{Op: op, Params: url.Values{}}
	for i := 0; i+1 < len(kv); i += 2 {
		k.Params.Set(kv[i], kv[i+1])
	}
	return k
}

// String renders the key as op?a=1&b=2 with sorted parameters.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Op
	}
	return fmt.Sprintf("%s?%s", k.Op, k.Params.Encode())
}

// Options tune cache retention.
type Options struct {
	// GCTime is how long a released entry survives. Zero drops it at once.
	GCTime time.Duration
	Logger *log.Logger
}

type entry struct {
	op       string
	data     any
	hasData  bool
	inactive bool
	gcTimer  *time.Timer
}

// Client holds cached data. Data never goes stale by age; only Invalidate
// and Release remove it.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	epochs  map[string]uint64
	group   singleflight.Group
	gcTime  time.Duration
	log     *log.Logger
}

// NewClient returns an empty cache.
func NewClient(opts Options) *Client {
	l := opts.Logger
	if l == nil {
		l = log.New(io.Discard)
	}
	return &Client{
		entries: make(map[string]*entry),
		epochs:  make(map[string]uint64),
		gcTime:  opts.GCTime,
		log:     l,
	}
}

// Fetch returns the cached value for key or runs fn to produce it.
// Concurrent callers for the same key share one call. Failures are
// returned as-is, never cached and never retried.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	id := key.String()

	c.mu.Lock()
	e := c.acquire(id, key.Op)
	if e.hasData {
		v, _ := e.data.(T)
		c.mu.Unlock()
		c.log.Debug("query cache hit", "key", id)
		return v, nil
	}
	epoch := c.epochs[key.Op]
	c.mu.Unlock()

	res, err, shared := c.group.Do(id, func() (any, error) {
		c.log.Debug("query fetch", "key", id)
		v, err := fn(ctx)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		// Results that raced an invalidation or a release are not kept.
		if cur, ok := c.entries[id]; ok && c.epochs[key.Op] == epoch && !cur.inactive {
			cur.data = v
			cur.hasData = true
		}
		return v, nil
	})
	if shared {
		c.log.Debug("query shared in-flight call", "key", id)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

// Peek returns cached data for key without fetching.
func Peek[T any](c *Client, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		var zero T
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}

// Invalidate drops the data of every entry for op. Observers keep their
// entries and refetch on the next Fetch.
func (c *Client) Invalidate(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epochs[op]++
	n := 0
	for id, e := range c.entries {
		if e.op != op {
			continue
		}
		e.data = nil
		e.hasData = false
		c.group.Forget(id)
		n++
	}
	c.log.Debug("query invalidate", "op", op, "entries", n)
}

// Release tells the cache nobody is looking at key anymore.
func (c *Client) Release(key Key) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.inactive = true
	if c.gcTime <= 0 {
		c.drop(id, e)
		return
	}
	if e.gcTimer != nil {
		e.gcTimer.Stop()
	}
	e.gcTimer = time.AfterFunc(c.gcTime, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.entries[id]; ok && cur == e && cur.inactive {
			c.drop(id, e)
		}
	})
}

// Len reports the number of entries, with or without data.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops everything and stops pending collection timers.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		c.drop(id, e)
	}
}

// acquire must hold mu.
func (c *Client) acquire(id, op string) *entry {
	e, ok := c.entries[id]
	if !ok {
		e = &entry{op: op}
		c.entries[id] = e
	}
	e.inactive = false
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
	return e
}

// drop must hold mu.
func (c *Client) drop(id string, e *entry) {
	if e.gcTimer != nil {
		e.gcTimer.Stop()
	}
	delete(c.entries, id)
	c.group.Forget(id)
	c.log.Debug("query gc", "key", id)
}
