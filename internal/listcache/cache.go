// Package listcache caches paginated remote lists per key. Pages accumulate as
// callers load more, stale lists are revalidated in the background and at most
// one fetch per key is ever in flight.
package listcache

import (
	"context"
	"sync"
	"time"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/providers"
)

const DefaultPageSize = 10

// FetchFunc loads one page (1-based) of the list identified by key.
type FetchFunc[T any] func(ctx context.Context, key string, page int) ([]T, error)

type Options struct {
	// Resource labels metrics and logs, e.g. "repos".
	Resource string
	PageSize int
	// StaleTime is how long a fetched list is served without revalidation.
	// Zero revalidates on every subscribe.
	StaleTime time.Duration
	// GCTime is how long an idle entry survives Sweep. Zero disables sweeping.
	GCTime time.Duration
	Now    func() time.Time
}

// View is a snapshot of a cached list.
type View[T any] struct {
	Items          []T
	IsLoading      bool
	IsFetchingMore bool
	IsRefreshing   bool
	HasMore        bool
	Err            error
	FetchedAt      time.Time
}

type call struct {
	done chan struct{}
	err  error
}

type entry[T any] struct {
	pages      [][]T
	nextPage   int
	hasMore    bool
	fetchedAt  time.Time
	lastAccess time.Time

	err     error
	errPage int

	inflight     *call
	inflightPage int
}

func (e *entry[T]) items() []T {
	n := 0
	for _, p := range e.pages {
		n += len(p)
	}
	out := make([]T, 0, n)
	for _, p := range e.pages {
		out = append(out, p...)
	}
	return out
}

type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	fetch   FetchFunc[T]
	opts    Options
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func New[T any](fetch FetchFunc[T], opts Options, logger providers.Logger, metrics providers.MetricsProviderInterface) *Cache[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache[T]{
		entries: make(map[string]*entry[T]),
		fetch:   fetch,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

type subscribeConfig struct {
	enabled bool
}

type SubscribeOption func(*subscribeConfig)

// WithEnabled turns fetching on or off for a subscription. A disabled
// subscription only observes what is already cached.
func WithEnabled(enabled bool) SubscribeOption {
	return func(c *subscribeConfig) { c.enabled = enabled }
}

// Subscribe returns a handle on key. The first enabled subscription starts
// loading page 1; a later one on a stale list starts a background refresh.
// ctx only contributes values to the fetch, its cancellation is ignored.
func (c *Cache[T]) Subscribe(ctx context.Context, key string, opts ...SubscribeOption) *Subscription[T] {
	cfg := subscribeConfig{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if !cfg.enabled || e.inflight != nil {
		return &Subscription[T]{cache: c, key: key, enabled: cfg.enabled}
	}
	switch {
	case len(e.pages) == 0 && e.err == nil:
		c.startLocked(ctx, key, e, 1)
	case len(e.pages) > 0 && e.err == nil && !c.opts.Now().Before(e.fetchedAt.Add(c.opts.StaleTime)):
		c.logger.Debugf(providers.TypeCache, "Revalidating stale %s list %s", c.opts.Resource, key)
		c.startLocked(ctx, key, e, 1)
	}
	return &Subscription[T]{cache: c, key: key, enabled: cfg.enabled}
}

func (c *Cache[T]) entryLocked(key string) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{nextPage: 1}
		c.entries[key] = e
	}
	e.lastAccess = c.opts.Now()
	return e
}

func (c *Cache[T]) startLocked(ctx context.Context, key string, e *entry[T], page int) *call {
	cl := &call{done: make(chan struct{})}
	e.inflight = cl
	e.inflightPage = page
	c.metrics.IncListFetches(c.opts.Resource)
	go c.run(context.WithoutCancel(ctx), key, e, cl, page)
	return cl
}

// joinLocked returns the in-flight call for e, if any, and counts the join.
func (c *Cache[T]) joinLocked(e *entry[T]) *call {
	if e.inflight == nil {
		return nil
	}
	c.metrics.IncListCoalesced(c.opts.Resource)
	return e.inflight
}

func (c *Cache[T]) run(ctx context.Context, key string, e *entry[T], cl *call, page int) {
	items, err := c.fetch(ctx, key, page)

	c.mu.Lock()
	if e.inflight == cl {
		e.inflight = nil
	}
	switch {
	case c.entries[key] != e:
		c.logger.Debugf(providers.TypeCache, "Discarding %s page %d for dropped key %s", c.opts.Resource, page, key)
	case err != nil:
		e.err = err
		e.errPage = page
		c.metrics.IncListFetchErrors(c.opts.Resource, string(apperrors.GetCode(err)))
		c.logger.Warnf(providers.TypeCache, "Fetching %s page %d for %s failed: %s", c.opts.Resource, page, key, err)
	default:
		if page == 1 {
			e.pages = [][]T{items}
		} else {
			e.pages = append(e.pages, items)
		}
		e.nextPage = page + 1
		e.hasMore = len(items) == c.opts.PageSize
		e.fetchedAt = c.opts.Now()
		e.err = nil
		e.errPage = 0
	}
	cl.err = err
	c.mu.Unlock()

	close(cl.done)
}

func wait(ctx context.Context, cl *call) error {
	if cl == nil {
		return nil
	}
	select {
	case <-cl.done:
		return cl.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drop forgets key. A fetch still running for it completes but its result is
// discarded.
func (c *Cache[T]) Drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[T])
}

// Sweep removes entries nobody touched within GCTime and returns how many
// were removed. Entries with a fetch in flight are kept.
func (c *Cache[T]) Sweep() int {
	if c.opts.GCTime <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	removed := 0
	for key, e := range c.entries {
		if e.inflight == nil && now.Sub(e.lastAccess) > c.opts.GCTime {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debugf(providers.TypeCache, "Swept %d idle %s lists", removed, c.opts.Resource)
	}
	return removed
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Subscription is a caller's handle on one cached list.
type Subscription[T any] struct {
	cache   *Cache[T]
	key     string
	enabled bool
}

func (s *Subscription[T]) Key() string {
	return s.key
}

func (s *Subscription[T]) View() View[T] {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[s.key]
	if !ok {
		return View[T]{Items: []T{}}
	}
	e.lastAccess = c.opts.Now()

	v := View[T]{
		Items:     e.items(),
		HasMore:   e.hasMore,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
	}
	if e.inflight != nil {
		switch {
		case len(e.pages) == 0:
			v.IsLoading = true
		case e.inflightPage == 1:
			v.IsRefreshing = true
		default:
			v.IsFetchingMore = true
		}
	}
	return v
}

// LoadMore fetches the next page and waits for it. It joins a fetch already in
// flight and does nothing once the list is exhausted.
func (s *Subscription[T]) LoadMore(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	c := s.cache
	c.mu.Lock()
	e := c.entryLocked(s.key)
	cl := c.joinLocked(e)
	if cl == nil {
		switch {
		case len(e.pages) == 0:
			cl = c.startLocked(ctx, s.key, e, 1)
		case e.hasMore:
			cl = c.startLocked(ctx, s.key, e, e.nextPage)
		}
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}

// Retry repeats the fetch that last failed. Without a recorded failure it is a no-op.
func (s *Subscription[T]) Retry(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	c := s.cache
	c.mu.Lock()
	e := c.entryLocked(s.key)
	cl := c.joinLocked(e)
	if cl == nil && e.err != nil {
		cl = c.startLocked(ctx, s.key, e, e.errPage)
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}

// Refetch reloads page 1 and replaces the accumulated pages on success.
func (s *Subscription[T]) Refetch(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	c := s.cache
	c.mu.Lock()
	e := c.entryLocked(s.key)
	cl := c.joinLocked(e)
	if cl == nil {
		cl = c.startLocked(ctx, s.key, e, 1)
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}

// Wait blocks until no fetch is in flight for the key and returns its error.
func (s *Subscription[T]) Wait(ctx context.Context) error {
	c := s.cache
	c.mu.Lock()
	var cl *call
	if e, ok := c.entries[s.key]; ok {
		cl = e.inflight
	}
	c.mu.Unlock()
	return wait(ctx, cl)
}
