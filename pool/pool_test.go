package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/resource"
	"github.com/researchwiseai/pulse-go/testutil"
)

func TestProduct(t *testing.T) {
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, Product([]int{2, 3}))
	assert.Empty(t, Product([]int{2, 0}))
	assert.Equal(t, [][]int{{}}, Product(nil))
}

func TestMap_DeterministicSlots(t *testing.T) {
	delays := testutil.NewRNG(7).Delays(24, 3*time.Millisecond)

	res, err := Map(context.Background(), []int{2, 3, 4}, func(ctx context.Context, c []int) (int, error) {
		i := c[0]*12 + c[1]*4 + c[2]
		time.Sleep(delays[i])
		return i * 10, nil
	}, WithSize(5))
	require.NoError(t, err)

	want := make([]int, 24)
	for i := range want {
		want[i] = i * 10
	}
	assert.Equal(t, want, res.Values())
	assert.Equal(t, 24, res.Completed())
	assert.True(t, res.Failed.IsEmpty())
	for _, s := range res.Slots {
		assert.False(t, s.End.Before(s.Start))
	}
	assert.GreaterOrEqual(t, res.Duration(), time.Duration(0))
}

func TestMap_BoundedConcurrency(t *testing.T) {
	const size = 3
	var current, peak atomic.Int32

	_, err := Map(context.Background(), []int{20}, func(ctx context.Context, _ []int) (struct{}, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		current.Add(-1)
		return struct{}{}, nil
	}, WithSize(size))
	require.NoError(t, err)

	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.Equal(t, int32(size), peak.Load(), "pool keeps the window full")
}

func TestMap_FailFast(t *testing.T) {
	boom := errors.New("boom")
	var started atomic.Int32

	res, err := Map(context.Background(), []int{100}, func(ctx context.Context, c []int) (int, error) {
		started.Add(1)
		if c[0] == 3 {
			return 0, boom
		}
		select {
		case <-time.After(time.Millisecond):
			return c[0], nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}, WithSize(2))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var cellErr *CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 3, cellErr.Index)
	assert.Equal(t, []int{3}, cellErr.Coords)

	assert.Less(t, int(started.Load()), 100, "admission stops after the failure")
	assert.True(t, res.Failed.Contains(3))
}

func TestMap_Quarantine(t *testing.T) {
	res, err := Map(context.Background(), []int{2, 2}, func(ctx context.Context, c []int) (string, error) {
		if c[0] == c[1] {
			return "", errors.New("diagonal")
		}
		return "ok", nil
	}, WithPolicy(Quarantine))
	require.NoError(t, err)

	assert.Equal(t, []string{"", "ok", "ok", ""}, res.Values())
	assert.Equal(t, []uint32{0, 3}, res.Failed.ToArray())
	assert.Equal(t, 2, res.Completed())

	var cellErr *CellError
	require.ErrorAs(t, res.Slots[3].Err, &cellErr)
	assert.Equal(t, []int{1, 1}, cellErr.Coords)
}

func TestMap_Skip(t *testing.T) {
	var calls atomic.Int32
	res, err := Map(context.Background(), []int{3, 3}, func(ctx context.Context, c []int) (int, error) {
		calls.Add(1)
		return c[0]*3 + c[1], nil
	}, WithSkip(func(c []int) bool { return c[0] <= c[1] }))
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []int{0, 0, 0, 3, 0, 0, 6, 7, 0}, res.Values())
	assert.Equal(t, uint64(6), res.Skipped.GetCardinality())
	assert.True(t, res.Slots[0].Skipped)
}

func TestMap_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once

	res, err := Map(ctx, []int{50}, func(ctx context.Context, c []int) (int, error) {
		if c[0] == 1 {
			once.Do(cancel)
		}
		<-ctx.Done()
		return 0, ctx.Err()
	}, WithSize(2), WithPolicy(Quarantine))

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Less(t, res.Completed(), 50)
}

func TestMap_Observer(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	_, err := Map(context.Background(), []int{4}, func(ctx context.Context, c []int) (int, error) {
		return c[0], nil
	}, WithObserver(func(i int, _ []int, d time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = err == nil && d >= 0
	}))
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true, 3: true}, seen)
}

func TestMap_SharedController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxInFlight: 2})
	var current, peak atomic.Int32

	task := func(ctx context.Context, _ []int) (int, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		current.Add(-1)
		return 0, nil
	}

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Map(context.Background(), []int{10}, task, WithSize(4), WithController(rc))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int64(0), rc.InFlight())
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{FailFast, Quarantine} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePolicy("retry")
	assert.Error(t, err)
}
