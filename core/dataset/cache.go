package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kilianp07/rentalfriction/core/logger"
	"github.com/kilianp07/rentalfriction/core/metrics"
	"github.com/kilianp07/rentalfriction/core/model"
)

// Resolver returns the loader able to read a source.
type Resolver func(Source) (Loader, error)

// Cache loads each source once and serves the frozen result until Reload or
// Reset. Concurrent first loads of the same source share a single read.
type Cache struct {
	resolve Resolver
	sink    metrics.MetricsSink
	log     logger.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]*Dataset
	group   singleflight.Group
}

// NewCache creates an empty cache. sink and log may be nil.
func NewCache(resolve Resolver, sink metrics.MetricsSink, log logger.Logger) *Cache {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Cache{
		resolve: resolve,
		sink:    sink,
		log:     logger.OrNop(log),
		now:     time.Now,
		entries: map[string]*Dataset{},
	}
}

// Get returns the cached dataset for src, loading it on first use. The shared
// load is detached from ctx so that one caller giving up does not fail the
// others waiting on it.
func (c *Cache) Get(ctx context.Context, src Source) (*Dataset, error) {
	if ds, ok := c.Loaded(src); ok {
		return ds, nil
	}
	id := src.ID()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return c.wait(ctx, id, c.group.DoChan(id, func() (any, error) {
		if ds, ok := c.Loaded(src); ok {
			return ds, nil
		}
		return c.loadAndStore(context.WithoutCancel(ctx), id, src)
	}))
}

// Reload reads src again and replaces the cached copy. When the read fails
// the previous copy, if any, stays in place.
func (c *Cache) Reload(ctx context.Context, src Source) (*Dataset, error) {
	id := src.ID()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reload %s: %w", id, err)
	}
	return c.wait(ctx, id, c.group.DoChan("reload:"+id, func() (any, error) {
		return c.loadAndStore(context.WithoutCancel(ctx), id, src)
	}))
}

func (c *Cache) loadAndStore(ctx context.Context, id string, src Source) (*Dataset, error) {
	ds, err := c.load(ctx, src)
	if err != nil {
		return nil, err
	}
	c.store(id, ds)
	return ds, nil
}

// wait returns the shared load result, or ctx's error if the caller stops
// waiting first. The load itself keeps running for the other callers.
func (c *Cache) wait(ctx context.Context, id string, ch <-chan singleflight.Result) (*Dataset, error) {
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", id, ctx.Err())
	}
}

// Loaded returns the cached dataset without triggering a load.
func (c *Cache) Loaded(src Source) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[src.ID()]
	return ds, ok
}

// Reset drops every cached dataset.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = map[string]*Dataset{}
	c.mu.Unlock()
}

func (c *Cache) store(id string, ds *Dataset) {
	c.mu.Lock()
	c.entries[id] = ds
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, src Source) (*Dataset, error) {
	start := c.now()
	records, err := c.read(ctx, src)
	elapsed := c.now().Sub(start)
	_ = c.sink.RecordDatasetLoad(metrics.DatasetLoadEvent{
		Source:   src.ID(),
		Rows:     len(records),
		Duration: elapsed,
		Failed:   err != nil,
	})
	if err != nil {
		c.log.Errorf("load %s: %v", src.ID(), err)
		return nil, err
	}
	c.log.Infow("dataset loaded", map[string]any{
		"source":      src.ID(),
		"rows":        len(records),
		"duration_ms": elapsed.Milliseconds(),
	})
	return &Dataset{Source: src.ID(), Records: records, LoadedAt: start}, nil
}

func (c *Cache) read(ctx context.Context, src Source) ([]model.RentalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if c.resolve == nil {
		return nil, fmt.Errorf("%w: no loader resolver", ErrLoad)
	}
	loader, err := c.resolve(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src.ID(), err)
	}
	records, err := loader.Load(ctx, src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src.ID(), err)
	}
	if err := checkUnique(records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src.ID(), err)
	}
	return records, nil
}
