package query

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"golang.org/x/sync/singleflight"
)

const (
	defaultGCInterval = 30 * time.Second
	jobsBuffer        = 64
)

var ErrNoFetcher = errors.New("no fetcher registered for key")

type Status int

const (
	StatusIdle Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// A State is a snapshot of one cache entry. After a failed refresh Data
// still holds the last successful payload and Err the failure.
type State struct {
	Key       Key
	Data      any
	Err       error
	Status    Status
	UpdatedAt time.Time
	Stale     bool
	Fetching  bool
}

type fetcher func(context.Context) (any, error)

type entry struct {
	key    Key
	data   any
	err    error
	status Status

	// hasData survives failed refreshes; status reports the last attempt.
	hasData bool

	updatedAt time.Time
	lastUsed  time.Time

	// invalidated marks data stale regardless of age.
	invalidated bool

	// seq numbers fetches in start order; settled is the newest applied one.
	// A fetch with seq <= invalidSeq started before the last invalidation.
	seq        uint64
	settled    uint64
	invalidSeq uint64
	generation uint64

	observers map[uint64]func(State)
	fetch     fetcher
	policy    Policy
}

func (e *entry) isStale(now time.Time) bool {
	if !e.hasData || e.err != nil {
		return true
	}
	return e.invalidated || now.Sub(e.updatedAt) >= e.policy.StaleTime
}

func (e *entry) state(now time.Time) State {
	return State{
		Key:       e.key,
		Data:      e.data,
		Err:       e.err,
		Status:    e.status,
		UpdatedAt: e.updatedAt,
		Stale:     e.isStale(now),
		Fetching:  e.seq > e.settled,
	}
}

type Opt func(*Client)

func ClockOpt(now func() time.Time) Opt {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func GCIntervalOpt(d time.Duration) Opt {
	return func(c *Client) {
		if d > 0 {
			c.gcInterval = d
		}
	}
}

func DefaultsOpt(query, mutation Policy) Opt {
	return func(c *Client) {
		c.defaults = query
		c.mutationDefaults = mutation
	}
}

// A Client is the query cache shared by all data-fetching operations.
//
// Entries are keyed by [Key]. At most one fetch per key is in flight for
// callers; when fetches overlap after an invalidation the newest started one
// wins.
type Client struct {
	mu       sync.Mutex
	entries  map[string]*entry
	sf       singleflight.Group
	nextObs  uint64
	jobs     chan Key
	inflight sync.WaitGroup

	now              func() time.Time
	gcInterval       time.Duration
	defaults         Policy
	mutationDefaults Policy
}

func NewClient(opts ...Opt) *Client {
	c := &Client{
		entries:          make(map[string]*entry),
		jobs:             make(chan Key, jobsBuffer),
		now:              time.Now,
		gcInterval:       defaultGCInterval,
		defaults:         DefaultPolicy(),
		mutationDefaults: DefaultMutationPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultPolicy returns the query policy callers start from.
func (c *Client) DefaultPolicy() Policy {
	return c.defaults
}

func (c *Client) MutationPolicy() Policy {
	return c.mutationDefaults
}

// A Result is the typed outcome of [Fetch]. Err is the failure of the last
// refresh when stale data is served from the cache.
type Result[T any] struct {
	Data      T
	Err       error
	Status    Status
	UpdatedAt time.Time
	Stale     bool
	FromCache bool
}

// Fetch returns data for key.
//
// Disabled policies return an idle result without calling fn. Fresh data is
// served from the cache. Stale data is served and refreshed in the
// background. Otherwise fn runs with the policy's retry, shared by all
// concurrent callers of the same key.
//
// Canceling ctx drops interest in the result; the fetch itself keeps running
// and settles into the cache.
func Fetch[T any](
	ctx context.Context,
	c *Client,
	key Key,
	p Policy,
	fn func(context.Context) (T, error),
) (Result[T], error) {
	if p.Disabled {
		return Result[T]{Status: StatusIdle}, nil
	}

	f := func(ctx context.Context) (any, error) {
		return fn(ctx)
	}

	st, cached := c.register(key, p.normalize(), f)
	if cached {
		if st.Stale {
			c.schedule(key)
		}
		return resultFrom[T](st, true), nil
	}

	st, err := c.fetch(ctx, key)
	return resultFrom[T](st, false), err
}

func resultFrom[T any](st State, fromCache bool) Result[T] {
	r := Result[T]{
		Err:       st.Err,
		Status:    st.Status,
		UpdatedAt: st.UpdatedAt,
		Stale:     st.Stale,
		FromCache: fromCache,
	}
	if v, ok := st.Data.(T); ok {
		r.Data = v
	}
	return r
}

// register stores fetch policy for key and reports whether it holds data
// that can be served, even if its last refresh failed.
func (c *Client) register(key Key, p Policy, f fetcher) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := c.ensure(key)
	e.fetch = f
	e.policy = p
	e.lastUsed = now

	if !e.hasData {
		return State{}, false
	}
	return e.state(now), true
}

// ensure must be called with mu held.
func (c *Client) ensure(key Key) *entry {
	e, ok := c.entries[key.hash]
	if !ok {
		e = &entry{
			key:       key,
			observers: make(map[uint64]func(State)),
			policy:    c.defaults,
			lastUsed:  c.now(),
		}
		c.entries[key.hash] = e
	}
	return e
}

func (c *Client) fetch(ctx context.Context, key Key) (State, error) {
	c.mu.Lock()
	e, ok := c.entries[key.hash]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return State{Key: key}, ErrNoFetcher
	}
	sfKey := key.hash + "#" + strconv.FormatUint(e.generation, 10)
	f, p := e.fetch, e.policy
	c.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(sfKey, func() (any, error) {
		c.mu.Lock()
		e.seq++
		seq := e.seq
		c.mu.Unlock()

		data, err := retry.DoWithResult(fetchCtx, p.retryConfig(), func() (any, error) {
			return f(fetchCtx)
		})
		return c.settle(e, seq, data, err), nil
	})

	select {
	case <-ctx.Done():
		return State{Key: key}, ctx.Err()
	case res := <-ch:
		st := res.Val.(State)
		return st, st.Err
	}
}

func (c *Client) settle(e *entry, seq uint64, data any, err error) State {
	const op = "query.Client.settle"

	c.mu.Lock()
	now := c.now()

	if seq <= e.settled {
		st := e.state(now)
		c.mu.Unlock()
		slog.Debug("superseded result dropped", "op", op, "key", e.key.hash)
		return st
	}

	e.settled = seq
	if err != nil {
		e.err = err
		e.status = StatusError
	} else {
		e.data = data
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = now
		e.invalidated = seq <= e.invalidSeq
	}

	st := e.state(now)
	observers := make([]func(State), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
	return st
}

// Peek returns the cached state of key without fetching.
func (c *Client) Peek(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.hash]
	if !ok {
		return State{}, false
	}
	return e.state(c.now()), true
}

// Subscribe calls fn every time key settles. Entries with subscribers are
// never evicted and are refetched on invalidation.
func (c *Client) Subscribe(key Key, fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	e := c.ensure(key)
	c.nextObs++
	id := c.nextObs
	e.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(e.observers, id)
			e.lastUsed = c.now()
		})
	}
}

// Invalidate marks key stale. A subscribed entry is refetched in the
// background.
func (c *Client) Invalidate(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.hash]
	if !ok {
		c.mu.Unlock()
		return
	}
	active := c.invalidate(e)
	c.mu.Unlock()

	if active {
		c.schedule(key)
	}
}

// InvalidateResource invalidates every key of resource.
func (c *Client) InvalidateResource(resource string) {
	var active []Key

	c.mu.Lock()
	for _, e := range c.entries {
		if e.key.resource != resource {
			continue
		}
		if c.invalidate(e) {
			active = append(active, e.key)
		}
	}
	c.mu.Unlock()

	for _, k := range active {
		c.schedule(k)
	}
}

// invalidate must be called with mu held.
func (c *Client) invalidate(e *entry) (active bool) {
	e.invalidated = true
	e.invalidSeq = e.seq
	e.generation++
	return len(e.observers) != 0 && e.fetch != nil
}

func (c *Client) schedule(key Key) {
	const op = "query.Client.schedule"

	select {
	case c.jobs <- key:
	default:
		slog.Debug("revalidation queue is full", "op", op, "key", key.hash)
	}
}
