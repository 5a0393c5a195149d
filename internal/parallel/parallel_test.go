package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4}

	var counter int64
	n := 1000
	seen := make([]int32, n)

	err := For(context.Background(), n, cfg, func(_ context.Context, i int) error {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("For returned %v", err)
	}
	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, s := range seen {
		if s != 1 {
			t.Fatalf("index %d ran %d times", i, s)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var order []int
	err := For(context.Background(), 5, cfg, func(_ context.Context, i int) error {
		order = append(order, i)
		return nil
	})
	if err != nil {
		t.Fatalf("For returned %v", err)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4", order)
		}
	}
}

func TestFor_Error(t *testing.T) {
	boom := errors.New("boom")

	for _, cfg := range []Config{{Enabled: false}, {Enabled: true, NumWorkers: 3}} {
		err := For(context.Background(), 20, cfg, func(ctx context.Context, i int) error {
			if i == 7 {
				return boom
			}
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: err = %v, want boom", cfg.NumWorkers, err)
		}
	}
}

func TestFor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	err := For(ctx, 10, Config{Enabled: true, NumWorkers: 2}, func(_ context.Context, _ int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if ran != 0 {
		t.Errorf("%d jobs ran after cancellation", ran)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers = %d", cfg.NumWorkers)
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(context.Background(), n, cfg, func(_ context.Context, i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(context.Background(), n, cfgSeq, func(_ context.Context, i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			})
		}
	})
}
