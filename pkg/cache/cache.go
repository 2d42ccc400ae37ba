package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Key identifies a cached resource. String must be unique per distinct key, it is used to
// collapse concurrent creations.
type Key interface {
	comparable
	String() string
}

// Loader creates the value for a key that is not cached yet.
type Loader[K Key, V any] func(ctx context.Context, key K) (V, error)

// CreationError is returned to every caller waiting on a creation that failed. Failed
// creations are not cached, the next Get for the same key tries again.
type CreationError struct {
	Cache string
	Key   string
	Err   error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed creating %s for %s: %v", e.Cache, e.Key, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Cache is a get-or-create store. For a given key at most one creation is in flight; all
// concurrent callers for that key wait on it and share its result. Values are never
// replaced once stored.
type Cache[K Key, V any] struct {
	name   string
	loader Loader[K, V]

	mu     sync.RWMutex
	values map[K]V

	flights singleflight.Group
	logger  logr.Logger
	lookups *prometheus.CounterVec
}

type Option[K Key, V any] func(*Cache[K, V])

// WithLookupCounter records hits, misses and failed creations in c, labelled with the
// cache name. c must have the labels "cache" and "result".
func WithLookupCounter[K Key, V any](c *prometheus.CounterVec) Option[K, V] {
	return func(cache *Cache[K, V]) {
		cache.lookups = c
	}
}

func New[K Key, V any](name string, loader Loader[K, V], logger logr.Logger, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		name:   name,
		loader: loader,
		values: make(map[K]V),
		logger: logger.WithName(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLookupCounter returns the counter vector expected by WithLookupCounter, registered
// on reg when reg is not nil.
func NewLookupCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchkit",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Get-or-create cache lookups, by cache and result.",
	}, []string{"cache", "result"})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// Get returns the value for key, creating it with the cache loader if absent.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	return c.GetOrCreateWith(ctx, key, c.loader)
}

// GetOrCreateWith returns the value for key, creating it with loader if absent. If a
// creation for key is already in flight, loader is not called and the in-flight result is
// returned instead.
//
// The creation itself is not bound to ctx: a caller giving up does not abort a creation
// other callers may be waiting on.
func (c *Cache[K, V]) GetOrCreateWith(ctx context.Context, key K, loader Loader[K, V]) (V, error) {
	if v, ok := c.Peek(key); ok {
		c.count("hit")
		return v, nil
	}

	var zero V
	if loader == nil {
		return zero, &CreationError{Cache: c.name, Key: key.String(), Err: fmt.Errorf("no loader configured")}
	}

	ch := c.flights.DoChan(key.String(), func() (interface{}, error) {
		if v, ok := c.Peek(key); ok {
			return v, nil
		}

		c.count("miss")
		c.logger.V(1).Info("creating", "key", key.String())
		v, err := loader(context.WithoutCancel(ctx), key)
		if err != nil {
			c.count("error")
			c.logger.Error(err, "creation failed", "key", key.String())
			return nil, &CreationError{Cache: c.name, Key: key.String(), Err: err}
		}

		c.mu.Lock()
		c.values[key] = v
		c.mu.Unlock()
		c.logger.Info("created", "key", key.String())
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, _ := r.Val.(V)
		return v, nil
	}
}

// Peek returns the cached value for key without creating it.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.Peek(key)
	return ok
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

func (c *Cache[K, V]) Name() string {
	return c.name
}

func (c *Cache[K, V]) count(result string) {
	if c.lookups == nil {
		return
	}
	c.lookups.WithLabelValues(c.name, result).Inc()
}
