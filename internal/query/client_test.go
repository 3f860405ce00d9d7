package query_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fastPolicy() query.Policy {
	p := query.DefaultPolicy()
	p.RetryDelay = retry.LineareBackoff(time.Millisecond)
	return p
}

func runScheduler(t *testing.T, c *query.Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestNewKey(t *testing.T) {
	minPrice := 10.0
	a := query.NewKey("products", 1, 20, domain.ProductFilter{
		Sort: "price", Min: &minPrice, Sizes: []string{"S", "M"},
	})
	minCopy := 10.0
	b := query.NewKey("products", 1, 20, domain.ProductFilter{
		Sort: "price", Min: &minCopy, Sizes: []string{"S", "M"},
	})
	assert.Equal(t, a, b)

	c := query.NewKey("products", 2, 20, domain.ProductFilter{Sort: "price"})
	assert.NotEqual(t, a, c)

	assert.NotEqual(t, query.NewKey("cart"), query.NewKey("recent-products"))
	assert.Equal(t, query.NewKey("cart"), query.NewKey("cart"))
	assert.Equal(t, "products", a.Resource())
}

func TestFetch(t *testing.T) {
	t.Run("ServesFreshDataFromCache", func(t *testing.T) {
		clock := newFakeClock()
		c := query.NewClient(query.ClockOpt(clock.Now))
		key := query.NewKey("product", "tee")

		var calls int
		fn := func(context.Context) (string, error) {
			calls++
			return "tee", nil
		}

		r, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)
		assert.Equal(t, "tee", r.Data)
		assert.Equal(t, query.StatusSuccess, r.Status)
		assert.False(t, r.FromCache)

		clock.Advance(time.Minute)
		r, err = query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)
		assert.Equal(t, "tee", r.Data)
		assert.True(t, r.FromCache)
		assert.False(t, r.Stale)
		assert.Equal(t, 1, calls)
	})

	t.Run("ServesStaleDataAndRefreshes", func(t *testing.T) {
		clock := newFakeClock()
		c := query.NewClient(query.ClockOpt(clock.Now))
		runScheduler(t, c)
		key := query.NewKey("recent-products")

		var calls atomic.Int32
		fn := func(context.Context) (int32, error) {
			return calls.Add(1), nil
		}

		_, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)

		clock.Advance(query.DefaultStaleTime + time.Second)
		r, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)
		assert.True(t, r.FromCache)
		assert.True(t, r.Stale)
		assert.Equal(t, int32(1), r.Data)

		assert.Eventually(t, func() bool {
			st, ok := c.Peek(key)
			return ok && st.Data == int32(2) && !st.Stale
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("FailedRefreshKeepsServedData", func(t *testing.T) {
		clock := newFakeClock()
		c := query.NewClient(query.ClockOpt(clock.Now))
		runScheduler(t, c)
		key := query.NewKey("product", "basic-tee")

		p := fastPolicy()
		p.Retry = 0

		var (
			calls   atomic.Int32
			failing atomic.Bool
		)
		fn := func(context.Context) (string, error) {
			n := calls.Add(1)
			if failing.Load() {
				return "", errTest
			}
			return "v" + strconv.Itoa(int(n)), nil
		}

		r, err := query.Fetch(t.Context(), c, key, p, fn)
		require.NoError(t, err)
		require.Equal(t, "v1", r.Data)

		failing.Store(true)
		clock.Advance(query.DefaultStaleTime + time.Second)
		r, err = query.Fetch(t.Context(), c, key, p, fn)
		require.NoError(t, err)
		assert.Equal(t, "v1", r.Data)

		assert.Eventually(t, func() bool {
			st, ok := c.Peek(key)
			return ok && st.Err != nil && !st.Fetching
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(2), calls.Load())

		r, err = query.Fetch(t.Context(), c, key, p, fn)
		require.NoError(t, err)
		assert.Equal(t, "v1", r.Data)
		assert.True(t, r.FromCache)
		assert.True(t, r.Stale)
		assert.ErrorIs(t, r.Err, errTest)
		assert.Equal(t, query.StatusError, r.Status)

		assert.Eventually(t, func() bool {
			st, _ := c.Peek(key)
			return calls.Load() == 3 && !st.Fetching
		}, time.Second, 5*time.Millisecond)

		failing.Store(false)
		_, err = query.Fetch(t.Context(), c, key, p, fn)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			st, ok := c.Peek(key)
			return ok && st.Err == nil && st.Status == query.StatusSuccess && !st.Stale
		}, time.Second, 5*time.Millisecond)
		st, _ := c.Peek(key)
		assert.Equal(t, "v4", st.Data)
	})

	t.Run("DisabledQueryNeverRuns", func(t *testing.T) {
		c := query.NewClient()
		p := fastPolicy()
		p.Disabled = true

		r, err := query.Fetch(t.Context(), c, query.NewKey("product", ""), p,
			func(context.Context) (string, error) {
				t.Fatal("disabled query must not fetch")
				return "", nil
			})
		require.NoError(t, err)
		assert.Equal(t, query.StatusIdle, r.Status)
		assert.Empty(t, r.Data)

		_, ok := c.Peek(query.NewKey("product", ""))
		assert.False(t, ok)
	})

	t.Run("RetriesThreeTimes", func(t *testing.T) {
		c := query.NewClient()
		key := query.NewKey("orders", "tx-1")

		var calls int
		_, err := query.Fetch(t.Context(), c, key, fastPolicy(),
			func(context.Context) (int, error) {
				calls++
				return 0, errTest
			})
		require.ErrorIs(t, err, errTest)
		assert.Equal(t, 4, calls)

		st, ok := c.Peek(key)
		require.True(t, ok)
		assert.Equal(t, query.StatusError, st.Status)
		assert.ErrorIs(t, st.Err, errTest)
	})

	t.Run("ShouldRetryStopsEarly", func(t *testing.T) {
		c := query.NewClient()
		p := fastPolicy()
		p.ShouldRetry = func(error) bool { return false }

		var calls int
		_, err := query.Fetch(t.Context(), c, query.NewKey("cart"), p,
			func(context.Context) (int, error) {
				calls++
				return 0, errTest
			})
		require.ErrorIs(t, err, errTest)
		assert.Equal(t, 1, calls)
	})

	t.Run("DeduplicatesConcurrentCallers", func(t *testing.T) {
		c := query.NewClient()
		key := query.NewKey("reviews", "p-1")

		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		fn := func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			<-release
			return "reviews", nil
		}

		const callers = 5
		var wg sync.WaitGroup
		results := make([]string, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := query.Fetch(context.Background(), c, key, fastPolicy(), fn)
				assert.NoError(t, err)
				results[i] = r.Data
			}()
		}

		<-started
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, "reviews", r)
		}
	})

	t.Run("CanceledCallerLeavesFetchRunning", func(t *testing.T) {
		c := query.NewClient()
		key := query.NewKey("addresses")

		release := make(chan struct{})
		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			_, err := query.Fetch(ctx, c, key, fastPolicy(),
				func(context.Context) (string, error) {
					<-release
					return "home", nil
				})
			done <- err
		}()

		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
		close(release)

		assert.Eventually(t, func() bool {
			st, ok := c.Peek(key)
			return ok && st.Status == query.StatusSuccess && st.Data == "home"
		}, time.Second, 5*time.Millisecond)
	})
}

func TestSupersession(t *testing.T) {
	c := query.NewClient()
	key := query.NewKey("cart")

	var calls atomic.Int32
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	fn := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return "old", nil
		}
		return "new", nil
	}

	firstDone := make(chan query.Result[string], 1)
	go func() {
		r, _ := query.Fetch(context.Background(), c, key, fastPolicy(), fn)
		firstDone <- r
	}()
	<-firstStarted

	c.Invalidate(key)

	r, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
	require.NoError(t, err)
	assert.Equal(t, "new", r.Data)

	close(releaseFirst)
	first := <-firstDone
	assert.Equal(t, "new", first.Data)

	st, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "new", st.Data)
	assert.False(t, st.Stale)
}

func TestFetchStartedBeforeInvalidationIsStale(t *testing.T) {
	c := query.NewClient()
	key := query.NewKey("cart")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = query.Fetch(context.Background(), c, key, fastPolicy(),
			func(context.Context) (string, error) {
				close(started)
				<-release
				return "before", nil
			})
	}()
	<-started

	c.Invalidate(key)
	close(release)
	<-done

	st, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "before", st.Data)
	assert.True(t, st.Stale)
}

func TestInvalidate(t *testing.T) {
	t.Run("RefetchesObservedEntry", func(t *testing.T) {
		c := query.NewClient()
		runScheduler(t, c)
		key := query.NewKey("cart")

		var calls atomic.Int32
		fn := func(context.Context) (int32, error) {
			return calls.Add(1), nil
		}
		_, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)

		updates := make(chan query.State, 1)
		unsubscribe := c.Subscribe(key, func(st query.State) {
			updates <- st
		})
		defer unsubscribe()

		c.Invalidate(key)

		select {
		case st := <-updates:
			assert.Equal(t, int32(2), st.Data)
			assert.False(t, st.Stale)
		case <-time.After(time.Second):
			t.Fatal("observer was not notified")
		}
	})

	t.Run("MarksUnobservedEntryStale", func(t *testing.T) {
		c := query.NewClient()
		key := query.NewKey("orders", "tx-1")

		var calls int
		fn := func(context.Context) (int, error) {
			calls++
			return calls, nil
		}
		_, err := query.Fetch(t.Context(), c, key, fastPolicy(), fn)
		require.NoError(t, err)

		c.InvalidateResource("orders")

		st, ok := c.Peek(key)
		require.True(t, ok)
		assert.True(t, st.Stale)
		assert.Equal(t, 1, calls)
	})

	t.Run("ResourceScope", func(t *testing.T) {
		c := query.NewClient()
		fn := func(context.Context) (int, error) { return 1, nil }

		a := query.NewKey("cart-info", "1")
		b := query.NewKey("cart-info", "2")
		other := query.NewKey("cart")
		for _, k := range []query.Key{a, b, other} {
			_, err := query.Fetch(t.Context(), c, k, fastPolicy(), fn)
			require.NoError(t, err)
		}

		c.InvalidateResource("cart-info")

		for _, k := range []query.Key{a, b} {
			st, _ := c.Peek(k)
			assert.True(t, st.Stale, k.String())
		}
		st, _ := c.Peek(other)
		assert.False(t, st.Stale)
	})
}

func TestGC(t *testing.T) {
	clock := newFakeClock()
	c := query.NewClient(query.ClockOpt(clock.Now))
	fn := func(context.Context) (int, error) { return 1, nil }

	unused := query.NewKey("product", "a")
	observed := query.NewKey("product", "b")
	for _, k := range []query.Key{unused, observed} {
		_, err := query.Fetch(t.Context(), c, k, fastPolicy(), fn)
		require.NoError(t, err)
	}
	unsubscribe := c.Subscribe(observed, func(query.State) {})

	clock.Advance(query.DefaultGCTime - time.Second)
	assert.Zero(t, c.GC())

	clock.Advance(time.Second)
	assert.Equal(t, 1, c.GC())
	_, ok := c.Peek(unused)
	assert.False(t, ok)
	_, ok = c.Peek(observed)
	assert.True(t, ok)

	unsubscribe()
	assert.Zero(t, c.GC())
	clock.Advance(query.DefaultGCTime)
	assert.Equal(t, 1, c.GC())
}

func TestMutate(t *testing.T) {
	mutationPolicy := func() query.Policy {
		p := query.DefaultMutationPolicy()
		p.RetryDelay = retry.LineareBackoff(time.Millisecond)
		return p
	}

	t.Run("RetriesOnceAndInvalidates", func(t *testing.T) {
		c := query.NewClient()
		cart := query.NewKey("cart")
		_, err := query.Fetch(t.Context(), c, cart, fastPolicy(),
			func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)

		var calls int
		v, err := query.Mutate(t.Context(), c, query.Mutation{
			Policy:      mutationPolicy(),
			Invalidates: []query.Key{cart},
		}, func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errTest
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 2, calls)

		st, _ := c.Peek(cart)
		assert.True(t, st.Stale)
	})

	t.Run("FailureKeepsCache", func(t *testing.T) {
		c := query.NewClient()
		cart := query.NewKey("cart")
		_, err := query.Fetch(t.Context(), c, cart, fastPolicy(),
			func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)

		var calls int
		_, err = query.Mutate(t.Context(), c, query.Mutation{
			Policy:               mutationPolicy(),
			InvalidatesResources: []string{"cart"},
		}, func(context.Context) (struct{}, error) {
			calls++
			return struct{}{}, errTest
		})
		require.ErrorIs(t, err, errTest)
		assert.Equal(t, 2, calls)

		st, _ := c.Peek(cart)
		assert.False(t, st.Stale)
	})
}
