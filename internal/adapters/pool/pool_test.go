package pool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yardwatch/engine/internal/adapters/pool"
	"github.com/yardwatch/engine/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMap(t *testing.T) {
	Convey("Given a pool and a batch of items", t, func() {
		p := pool.New(pool.WithWorkers(3), pool.WithName("test"))
		items := []int{1, 2, 3, 4, 5}

		Convey("When every job succeeds", func() {
			results := pool.Map(context.Background(), p, items, func(_ context.Context, n int) (int, error) {
				return n * 10, nil
			})

			Convey("Then results come back in input order", func() {
				So(results, ShouldHaveLength, 5)
				for i, r := range results {
					So(r.Item, ShouldEqual, items[i])
					So(r.Value, ShouldEqual, items[i]*10)
					So(r.Err, ShouldBeNil)
				}
			})
		})

		Convey("When one job fails", func() {
			boom := errors.New("boom")
			results := pool.Map(context.Background(), p, items, func(_ context.Context, n int) (int, error) {
				if n == 3 {
					return 0, boom
				}
				return n, nil
			})

			Convey("Then only that item carries the error", func() {
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
						So(r.Item, ShouldEqual, 3)
						So(errors.Is(r.Err, boom), ShouldBeTrue)
					}
				}
				So(failed, ShouldEqual, 1)
			})
		})

		Convey("When the batch is empty", func() {
			results := pool.Map(context.Background(), p, nil, func(_ context.Context, n int) (int, error) {
				return n, nil
			})
			So(results, ShouldBeEmpty)
		})
	})
}

func TestMapBoundedConcurrency(t *testing.T) {
	Convey("Given a pool with two workers", t, func() {
		p := pool.New(pool.WithWorkers(2), pool.WithName("bounded"))
		items := make([]int, 20)
		for i := range items {
			items[i] = i
		}

		Convey("When running a slow batch", func() {
			var inFlight, peak atomic.Int32
			pool.Map(context.Background(), p, items, func(_ context.Context, n int) (int, error) {
				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return n, nil
			})

			Convey("Then no more than two jobs ran at once", func() {
				So(peak.Load(), ShouldBeLessThanOrEqualTo, 2)
				So(peak.Load(), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMapCancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		p := pool.New(pool.WithWorkers(1), pool.WithName("cancel"))
		ctx, cancel := context.WithCancel(context.Background())

		items := []int{1, 2, 3, 4, 5}
		results := pool.Map(ctx, p, items, func(ctx context.Context, n int) (int, error) {
			if n == 1 {
				cancel()
				<-ctx.Done()
			}
			return n, ctx.Err()
		})

		Convey("Then undispatched items carry the context error", func() {
			So(results, ShouldHaveLength, 5)
			cancelled := 0
			for _, r := range results {
				if errors.Is(r.Err, context.Canceled) {
					cancelled++
				}
			}
			So(cancelled, ShouldBeGreaterThan, 0)
		})
	})
}

func TestPoolDefaults(t *testing.T) {
	Convey("A pool defaults to a small worker bound", t, func() {
		So(pool.New().Workers(), ShouldEqual, 3)
	})

	Convey("Non-positive worker counts are ignored", t, func() {
		So(pool.New(pool.WithWorkers(0)).Workers(), ShouldEqual, 3)
	})
}
