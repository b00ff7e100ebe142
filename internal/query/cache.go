package query

import (
	"context"
	"sync"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRetention = 5 * time.Minute

	updatesBuffer = 64
)

type Fetcher func(ctx context.Context) (any, error)

type Options struct {
	Enabled bool
}

type Config struct {
	// Retention is how long an unused entry survives Prune.
	Retention time.Duration
	// StaleTime makes successful data eligible for an automatic refetch once it
	// is older than this. Zero disables it.
	StaleTime time.Duration
	Clock     ports.Clock
	Telemetry telemetry.Collector
	Logger    *zap.Logger
}

type entry struct {
	key         Key
	state       *State
	generation  uint64
	invalidated bool
	lastUsed    time.Time
}

// Cache stores one State per key and runs fetches on background goroutines.
// All methods are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	flights singleflight.Group
	// seq issues generations across all entries so a recreated entry never
	// accepts a result started for its predecessor.
	seq uint64

	updates chan Key
	ctx     context.Context
	cancel  context.CancelFunc

	retention time.Duration
	staleTime time.Duration
	clock     ports.Clock
	telemetry telemetry.Collector
	logger    *zap.Logger
}

func New(cfg Config) *Cache {
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	collector := cfg.Telemetry
	if collector == nil {
		collector = telemetry.Noop()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries:   map[string]*entry{},
		updates:   make(chan Key, updatesBuffer),
		ctx:       ctx,
		cancel:    cancel,
		retention: retention,
		staleTime: cfg.StaleTime,
		clock:     clock,
		telemetry: collector,
		logger:    logger.Named("query"),
	}
}

// Use registers interest in key and returns its current state. A fetch starts
// only when the key is enabled and has never run, was invalidated, or holds
// stale data. A fetch already in flight is never duplicated.
func Use[T any](c *Cache, key Key, fetch func(ctx context.Context) (T, error), opts Options) Result[T] {
	return resultOf[T](c.use(key, erase(fetch), opts.Enabled))
}

// Refetch runs fetch for key regardless of whether the key is enabled. If a
// fetch is already in flight it is joined instead.
func Refetch[T any](c *Cache, key Key, fetch func(ctx context.Context) (T, error)) Result[T] {
	return resultOf[T](c.refetch(key, erase(fetch)))
}

// Peek returns the current state of key without registering use.
func Peek[T any](c *Cache, key Key) Result[T] {
	return resultOf[T](c.Get(key))
}

func erase[T any](fetch func(ctx context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return value, nil
	}
}

func (c *Cache) use(key Key, fetch Fetcher, enabled bool) *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	e := c.entryLocked(key, now)
	if e.state.Enabled != enabled {
		next := *e.state
		next.Enabled = enabled
		e.state = &next
	}

	if enabled && c.needsFetchLocked(e, now) {
		c.startLocked(e, fetch, now)
	}
	return e.state
}

func (c *Cache) refetch(key Key, fetch Fetcher) *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	e := c.entryLocked(key, now)
	if e.state.Fetching {
		c.telemetry.IncDeduplicated(key.Name)
		return e.state
	}

	c.startLocked(e, fetch, now)
	return e.state
}

func (c *Cache) entryLocked(key Key, now time.Time) *entry {
	id := key.ID()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key, state: &State{Key: key, Status: StatusIdle}}
		c.entries[id] = e
	}
	e.lastUsed = now
	return e
}

func (c *Cache) needsFetchLocked(e *entry, now time.Time) bool {
	if e.state.Fetching {
		return false
	}
	if e.invalidated || e.state.Status == StatusIdle {
		return true
	}
	return e.state.Status == StatusSuccess &&
		c.staleTime > 0 &&
		now.Sub(e.state.UpdatedAt) >= c.staleTime
}

func (c *Cache) startLocked(e *entry, fetch Fetcher, now time.Time) {
	c.seq++
	e.generation = c.seq
	e.invalidated = false
	generation := e.generation

	next := *e.state
	next.Status = StatusPending
	next.Err = nil
	next.Fetching = true
	e.state = &next

	id := e.key.ID()
	key := e.key
	ctx := c.ctx
	results := c.flights.DoChan(id, func() (any, error) {
		return fetch(ctx)
	})

	c.logger.Debug("fetch started", zap.String("key", key.String()), zap.Uint64("generation", generation))
	go func() {
		result := <-results
		if result.Shared {
			c.telemetry.IncDeduplicated(key.Name)
		}
		c.complete(key, generation, result, now)
	}()
}

func (c *Cache) complete(key Key, generation uint64, result singleflight.Result, started time.Time) {
	c.mu.Lock()
	e, ok := c.entries[key.ID()]
	if !ok || e.generation != generation || !e.state.Fetching {
		c.mu.Unlock()
		c.telemetry.IncSuperseded(key.Name)
		c.logger.Debug("fetch result discarded", zap.String("key", key.String()), zap.Uint64("generation", generation))
		return
	}

	now := c.clock.Now()
	next := &State{Key: e.key, Enabled: e.state.Enabled, UpdatedAt: now}
	outcome := telemetry.OutcomeSuccess
	if result.Err != nil {
		next.Status = StatusError
		next.Err = result.Err
		outcome = telemetry.OutcomeError
	} else {
		next.Status = StatusSuccess
		next.Data = result.Val
	}
	e.state = next
	c.mu.Unlock()

	c.telemetry.ObserveFetch(key.Name, outcome, now.Sub(started))
	if result.Err != nil {
		c.logger.Warn("fetch failed", zap.String("key", key.String()), zap.Error(result.Err))
	} else {
		c.logger.Debug("fetch succeeded", zap.String("key", key.String()))
	}
	c.notify(key)
}

// Get returns the current state of key, or an idle state if the key is unknown.
func (c *Cache) Get(key Key) *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key.ID()]; ok {
		return e.state
	}
	return &State{Key: key, Status: StatusIdle}
}

// Invalidate marks key for refetch on its next enabled use. A fetch in flight
// is abandoned and its result discarded.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.ID()]
	if ok {
		c.invalidateLocked(e)
	}
	c.mu.Unlock()

	if ok {
		c.notify(key)
	}
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		c.invalidateLocked(e)
		keys = append(keys, e.key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.notify(key)
	}
}

func (c *Cache) invalidateLocked(e *entry) {
	c.seq++
	e.generation = c.seq
	e.invalidated = true
	if e.state.Fetching {
		c.flights.Forget(e.key.ID())
		e.state = &State{Key: e.key, Status: StatusIdle, Enabled: e.state.Enabled}
	}
}

// Settled reports whether none of keys has a fetch in flight.
func (c *Cache) Settled(keys ...Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key.ID()]; ok && e.state.Fetching {
			return false
		}
	}
	return true
}

// Prune drops entries that have not been used within the retention window and
// are not fetching. It returns the number of entries removed.
func (c *Cache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, e := range c.entries {
		if e.state.Fetching || now.Sub(e.lastUsed) < c.retention {
			continue
		}
		delete(c.entries, id)
		removed++
	}
	if removed > 0 {
		c.logger.Debug("pruned entries", zap.Int("removed", removed))
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Updates delivers keys whose state changed outside of Use and Refetch.
// Notifications are dropped when the buffer is full; receivers should re-read
// every key they care about on each delivery.
func (c *Cache) Updates() <-chan Key {
	return c.updates
}

func (c *Cache) notify(key Key) {
	select {
	case c.updates <- key:
	default:
	}
}

// Close cancels the context handed to fetches still in flight.
func (c *Cache) Close() {
	c.cancel()
}
