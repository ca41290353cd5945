// Package memo provides a concurrency-safe memoization cache for
// deterministic, side-effect-free computations keyed by their call
// arguments. A cache runs in one of three modes chosen at construction:
// disabled (MaxSize 0), unbounded (MaxSize Unbounded), or bounded with
// least-recently-used eviction (MaxSize > 0).
package memo

import (
	"sync"
)

// Func is the shape of a memoizable computation: an ordered positional
// argument list plus an optional keyword argument map. The function must be
// pure with respect to its arguments; memoizing a non-deterministic or
// side-effecting function gives undefined results.
type Func func(args []any, kwargs map[string]any) (any, error)

// Unbounded marks a cache with no capacity limit and no eviction.
const Unbounded = -1

// Config fixes a cache's behavior for its lifetime.
type Config struct {
	// MaxSize is the entry capacity: 0 disables caching entirely,
	// Unbounded removes the limit, any other positive value enables LRU
	// eviction at that capacity.
	MaxSize int

	// Typed makes the dynamic type of every argument part of key
	// equality, so f(3) and f(3.0) occupy distinct entries.
	Typed bool

	// Observability enables OpenTelemetry instrumentation for this cache.
	// Nil leaves the cache silent.
	Observability *ObservabilityConfig
}

// Cache wraps one computation with memoization. All methods are safe for
// concurrent use.
type Cache struct {
	fn      Func
	typed   bool
	maxSize int
	strat   strategy

	mu     sync.Mutex
	hits   uint64
	misses uint64

	obsCfg *ObservabilityConfig
	obs    *observabilityInstruments
}

// strategy is one of the three operating modes. call owns the complete
// lookup/compute/commit path for its mode; the Locked methods are the
// store surface used by Clear and Info under the cache mutex.
type strategy interface {
	call(c *Cache, args []any, kwargs map[string]any) (any, error)
	lenLocked() int
	clearLocked()
}

// New binds a memoization cache around fn.
func New(fn Func, cfg Config) (*Cache, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	if cfg.MaxSize < 0 && cfg.MaxSize != Unbounded {
		return nil, ErrNegativeMaxSize
	}

	c := &Cache{
		fn:      fn,
		typed:   cfg.Typed,
		maxSize: cfg.MaxSize,
		obsCfg:  cfg.Observability,
	}
	if c.obsCfg != nil {
		c.obs = initObservability()
	}

	switch {
	case cfg.MaxSize == 0:
		c.strat = disabledStrategy{}
	case cfg.MaxSize == Unbounded:
		c.strat = &unboundedStrategy{entries: make(map[any]any)}
	default:
		c.strat = &boundedStrategy{store: newLRUStore(cfg.MaxSize)}
	}
	return c, nil
}

// Call invokes the computation with positional arguments only, serving the
// result from cache when the same arguments have been seen before.
func (c *Cache) Call(args ...any) (any, error) {
	return c.CallNamed(args, nil)
}

// CallNamed invokes the computation with positional and keyword arguments.
// Keyword argument order never affects key identity.
//
// Two concurrent callers missing on the same cold key may both run the
// computation; the first to commit wins and the other result is discarded.
// If the computation fails, the error propagates unchanged, nothing is
// cached, and no counter moves.
func (c *Cache) CallNamed(args []any, kwargs map[string]any) (any, error) {
	return c.strat.call(c, args, kwargs)
}

// Info reports a consistent snapshot of the cache counters and size.
func (c *Cache) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		Hits:    c.hits,
		Misses:  c.misses,
		MaxSize: c.maxSize,
		Size:    c.strat.lenLocked(),
	}
}

// Clear discards every entry and zeroes the hit and miss counters. The
// configured capacity is untouched.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordEntries(-int64(c.strat.lenLocked()))
	c.strat.clearLocked()
	c.hits = 0
	c.misses = 0
}

// Wrapped exposes the underlying computation.
func (c *Cache) Wrapped() Func {
	return c.fn
}

// disabledStrategy always computes. Only the miss counter moves; no key is
// built and nothing is ever stored.
type disabledStrategy struct{}

func (disabledStrategy) call(c *Cache, args []any, kwargs map[string]any) (any, error) {
	result, err := c.invoke(args, kwargs)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	c.recordLookup(false)
	return result, nil
}

func (disabledStrategy) lenLocked() int { return 0 }
func (disabledStrategy) clearLocked()   {}

// unboundedStrategy is a plain key→value map with no recency tracking. The
// cache mutex serializes map access; a racing commit simply overwrites with
// an equal value.
type unboundedStrategy struct {
	entries map[any]any
}

func (s *unboundedStrategy) call(c *Cache, args []any, kwargs map[string]any) (any, error) {
	key, err := makeKey(args, kwargs, c.typed)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if v, ok := s.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		c.recordLookup(true)
		return v, nil
	}
	c.mu.Unlock()

	result, err := c.invoke(args, kwargs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := s.entries[key]; !ok {
		c.recordEntries(1)
	}
	s.entries[key] = result
	c.misses++
	c.mu.Unlock()
	c.recordLookup(false)
	return result, nil
}

func (s *unboundedStrategy) lenLocked() int { return len(s.entries) }

func (s *unboundedStrategy) clearLocked() {
	s.entries = make(map[any]any)
}

// boundedStrategy is the full LRU mode. The computation runs outside the
// lock so a slow miss never blocks unrelated lookups; the commit re-checks
// for a racing insert of the same key.
type boundedStrategy struct {
	store *lruStore
}

func (s *boundedStrategy) call(c *Cache, args []any, kwargs map[string]any) (any, error) {
	key, err := makeKey(args, kwargs, c.typed)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if v, ok := s.store.getLocked(key); ok {
		c.hits++
		c.mu.Unlock()
		c.recordLookup(true)
		return v, nil
	}
	c.mu.Unlock()

	result, err := c.invoke(args, kwargs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	winner, outcome := s.store.insertLocked(key, result)
	c.misses++
	c.mu.Unlock()

	c.recordLookup(false)
	switch outcome {
	case insertedNew:
		c.recordEntries(1)
	case insertedReuse:
		c.recordEviction()
	}
	return winner, nil
}

func (s *boundedStrategy) lenLocked() int { return s.store.lenLocked() }
func (s *boundedStrategy) clearLocked()   { s.store.clearLocked() }

// invoke runs the wrapped computation, wrapped in a span and duration
// histogram when observability is enabled.
func (c *Cache) invoke(args []any, kwargs map[string]any) (any, error) {
	if c.obs == nil {
		return c.fn(args, kwargs)
	}
	sc := c.obs.startComputeSpan(c.obsCfg, len(args), len(kwargs))
	result, err := c.fn(args, kwargs)
	c.obs.finishComputeSpan(sc, err, c.obsCfg)
	return result, err
}

func (c *Cache) recordLookup(hit bool) {
	if c.obs != nil {
		c.obs.recordLookup(hit, c.obsCfg)
	}
}

func (c *Cache) recordEviction() {
	if c.obs != nil {
		c.obs.recordEviction(c.obsCfg)
	}
}

func (c *Cache) recordEntries(delta int64) {
	if c.obs != nil {
		c.obs.recordEntries(delta, c.obsCfg)
	}
}
