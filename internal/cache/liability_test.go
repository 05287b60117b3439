package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/cache"
	"gstdesk/internal/gst"
)

func newCache(t *testing.T) (*cache.LiabilityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewLiabilityCache(client, time.Minute, prometheus.NewRegistry(), nil), mr
}

func liability(payable string) gst.Liability {
	return gst.Liability{TotalPayable: decimal.RequireFromString(payable)}
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	biz := uuid.New()

	var loads int32
	load := func(context.Context) (gst.Liability, error) {
		n := atomic.AddInt32(&loads, 1)
		if n == 1 {
			return liability("8100"), nil
		}
		return liability("9000"), nil
	}

	l, err := c.Fetch(ctx, biz, "032024", load)
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(8100)))

	l, err = c.Fetch(ctx, biz, "032024", load)
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(8100)))
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	require.NoError(t, c.Invalidate(ctx, biz))

	l, err = c.Fetch(ctx, biz, "032024", load)
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestFetch_InvalidationIsPerBusiness(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	var loads int32
	load := func(context.Context) (gst.Liability, error) {
		atomic.AddInt32(&loads, 1)
		return liability("100"), nil
	}

	_, _ = c.Fetch(ctx, a, "012024", load)
	_, _ = c.Fetch(ctx, b, "012024", load)
	require.NoError(t, c.Invalidate(ctx, a))
	_, _ = c.Fetch(ctx, b, "012024", load)

	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestFetch_LoadErrorNotCached(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	biz := uuid.New()
	boom := errors.New("db down")

	_, err := c.Fetch(ctx, biz, "012024", func(context.Context) (gst.Liability, error) {
		return gst.Liability{}, boom
	})
	assert.ErrorIs(t, err, boom)

	l, err := c.Fetch(ctx, biz, "012024", func(context.Context) (gst.Liability, error) {
		return liability("5"), nil
	})
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(5)))
}

func TestFetch_ConcurrentMissesShareLoad(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	biz := uuid.New()

	release := make(chan struct{})
	var loads int32
	load := func(context.Context) (gst.Liability, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return liability("42"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := c.Fetch(ctx, biz, "022024", load)
			assert.NoError(t, err)
			assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(42)))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(5))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&loads), int32(1))
}

func TestFetch_RedisDownFallsBackToLoad(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	l, err := c.Fetch(context.Background(), uuid.New(), "012024", func(context.Context) (gst.Liability, error) {
		return liability("7"), nil
	})
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(7)))
}

func TestNilClientLoadsDirectly(t *testing.T) {
	c := cache.NewLiabilityCache(nil, time.Minute, nil, nil)

	l, err := c.Fetch(context.Background(), uuid.New(), "012024", func(context.Context) (gst.Liability, error) {
		return liability("1"), nil
	})
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(1)))
	assert.NoError(t, c.Invalidate(context.Background(), uuid.New()))
}

func TestInvalidate_Publishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := cache.NewLiabilityCache(client, time.Minute, nil, nil)

	sub := client.Subscribe(context.Background(), cache.BumpChannel)
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	biz := uuid.New()
	require.NoError(t, c.Invalidate(context.Background(), biz))

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, biz.String())
	case <-time.After(2 * time.Second):
		t.Fatal("no bump published")
	}
}

func TestFetch_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	c, _ := newCache(t)
	biz := uuid.New()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var loadErr atomic.Value
	load := func(ctx context.Context) (gst.Liability, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			loadErr.Store(err)
		}
		return liability("42"), nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := c.Fetch(leaderCtx, biz, "052024", load)
		leaderDone <- err
	}()
	<-started

	followerDone := make(chan gst.Liability, 1)
	go func() {
		l, err := c.Fetch(context.Background(), biz, "052024", load)
		assert.NoError(t, err)
		followerDone <- l
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderDone, context.Canceled)
	close(release)

	l := <-followerDone
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(42)))
	assert.Nil(t, loadErr.Load())

	// The shared load still populated the cache.
	l, err := c.Fetch(context.Background(), biz, "052024", func(context.Context) (gst.Liability, error) {
		t.Error("expected a cache hit")
		return gst.Liability{}, nil
	})
	require.NoError(t, err)
	assert.True(t, l.TotalPayable.Equal(decimal.NewFromInt(42)))
}

func counterValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return 0
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range f.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}

func TestWatch_CountsInvalidations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	reg := prometheus.NewRegistry()
	c := cache.NewLiabilityCache(client, time.Minute, reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	biz := uuid.New()
	// Bumps published before the subscription is live are lost, so keep
	// invalidating until one is observed.
	assert.Eventually(t, func() bool {
		_ = c.Invalidate(context.Background(), biz)
		return counterValue(reg, "gstdesk_liability_cache_invalidations_total") >= 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_NilClient(t *testing.T) {
	c := cache.NewLiabilityCache(nil, time.Minute, nil, nil)
	assert.NoError(t, c.Watch(context.Background()))
}
