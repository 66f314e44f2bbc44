package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rentalfriction/core/metrics"
	"github.com/kilianp07/rentalfriction/core/model"
)

type fakeLoader struct {
	calls   atomic.Int32
	delay   time.Duration
	err     error
	records []model.RentalRecord
}

func (f *fakeLoader) Load(ctx context.Context, path string) ([]model.RentalRecord, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type loadSink struct {
	metrics.NopSink
	mu     sync.Mutex
	events []metrics.DatasetLoadEvent
}

func (s *loadSink) RecordDatasetLoad(ev metrics.DatasetLoadEvent) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func resolverFor(l Loader) Resolver {
	return func(Source) (Loader, error) { return l, nil }
}

var src = Source{Path: "rentals.csv"}

func TestCache_LoadsOnce(t *testing.T) {
	l := &fakeLoader{delay: 20 * time.Millisecond, records: []model.RentalRecord{{RentalID: 1}, {RentalID: 2}}}
	sink := &loadSink{}
	c := NewCache(resolverFor(l), sink, nil)

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := c.Get(context.Background(), src)
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), l.calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
	assert.Len(t, results[0].Records, 2)
	require.Len(t, sink.events, 1)
	assert.Equal(t, 2, sink.events[0].Rows)
	assert.False(t, sink.events[0].Failed)
}

func TestCache_ReloadAndReset(t *testing.T) {
	l := &fakeLoader{records: []model.RentalRecord{{RentalID: 1}}}
	c := NewCache(resolverFor(l), nil, nil)
	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)

	l.records = []model.RentalRecord{{RentalID: 1}, {RentalID: 2}}
	second, err := c.Reload(context.Background(), src)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Records, 2)
	assert.Len(t, first.Records, 1, "previously served dataset must stay frozen")

	got, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, second, got)

	c.Reset()
	_, ok := c.Loaded(src)
	assert.False(t, ok)
	_, err = c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(3), l.calls.Load())
}

func TestCache_FailureNotCached(t *testing.T) {
	l := &fakeLoader{err: errors.New("unreachable")}
	sink := &loadSink{}
	c := NewCache(resolverFor(l), sink, nil)
	_, err := c.Get(context.Background(), src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	_, ok := c.Loaded(src)
	assert.False(t, ok)
	require.Len(t, sink.events, 1)
	assert.True(t, sink.events[0].Failed)

	l.err = nil
	l.records = []model.RentalRecord{{RentalID: 7}}
	ds, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
}

func TestCache_ReloadFailureKeepsPrevious(t *testing.T) {
	l := &fakeLoader{records: []model.RentalRecord{{RentalID: 1}}}
	c := NewCache(resolverFor(l), nil, nil)
	first, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	l.err = errors.New("corrupt file")
	_, err = c.Reload(context.Background(), src)
	require.ErrorIs(t, err, ErrLoad)
	got, ok := c.Loaded(src)
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestCache_Errors(t *testing.T) {
	dup := &fakeLoader{records: []model.RentalRecord{{RentalID: 1}, {RentalID: 1}}}
	c := NewCache(resolverFor(dup), nil, nil)
	_, err := c.Get(context.Background(), src)
	require.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "duplicate rental_id 1")

	c = NewCache(func(Source) (Loader, error) { return nil, errors.New("no loader for parquet") }, nil, nil)
	_, err = c.Get(context.Background(), Source{Path: "x.parquet"})
	require.ErrorIs(t, err, ErrLoad)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c = NewCache(resolverFor(&fakeLoader{}), nil, nil)
	_, err = c.Get(ctx, src)
	require.ErrorIs(t, err, context.Canceled)
}

// blockingLoader holds the load open until released, honouring ctx.
type blockingLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingLoader) Load(ctx context.Context, path string) ([]model.RentalRecord, error) {
	if b.calls.Add(1) == 1 {
		close(b.started)
	}
	select {
	case <-b.release:
		return []model.RentalRecord{{RentalID: 1}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCache_CallerCancelDoesNotFailSharedLoad(t *testing.T) {
	l := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	sink := &loadSink{}
	c := NewCache(resolverFor(l), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, src)
		firstErr <- err
	}()
	<-l.started

	type result struct {
		ds  *Dataset
		err error
	}
	second := make(chan result, 1)
	go func() {
		ds, err := c.Get(context.Background(), src)
		second <- result{ds, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, ErrLoad))
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(l.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Len(t, res.ds.Records, 1)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, int32(1), l.calls.Load())
	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].Failed)
}

func TestCache_ReloadSurvivesCallerCancel(t *testing.T) {
	l := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCache(resolverFor(l), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Reload(ctx, src)
		errc <- err
	}()
	<-l.started
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	close(l.release)
	require.Eventually(t, func() bool {
		_, ok := c.Loaded(src)
		return ok
	}, time.Second, 10*time.Millisecond)
}
