package shapes

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func TestCache_HitAvoidsRecompute(t *testing.T) {
	r := NewRegistry()
	var calls int32
	r.Register("counted", func(p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		return geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {1, 1, 1}}}), nil
	})
	c := NewCache(r, 0)

	for i := 0; i < 5; i++ {
		if _, err := c.Produce("counted", Params{"n": 3}); err != nil {
			t.Fatalf("Produce() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestCache_DistinctParamsMiss(t *testing.T) {
	r := NewRegistry()
	var calls int32
	r.Register("counted", func(p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		return geom.FromPolylines(nil), nil
	})
	c := NewCache(r, 0)

	c.Produce("counted", Params{"n": 3})
	c.Produce("counted", Params{"n": 4})
	if calls != 2 {
		t.Fatalf("factory called %d times, want 2", calls)
	}
}

func TestCache_EvictsOldestOverCapacity(t *testing.T) {
	r := NewRegistry()
	r.Register("counted", func(p Params) (*geom.Buffer, error) {
		return geom.FromPolylines(nil), nil
	})
	c := NewCache(r, 2)

	c.Produce("counted", Params{"n": 1})
	c.Produce("counted", Params{"n": 2})
	c.Produce("counted", Params{"n": 3})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_ConcurrentMissesShareOneCall(t *testing.T) {
	r := NewRegistry()
	var calls int32
	start := make(chan struct{})
	r.Register("slow", func(p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		<-start
		return geom.FromPolylines(nil), nil
	})
	c := NewCache(r, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Produce("slow", Params{"n": 1})
		}()
	}
	close(start)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestCache_UnknownShapeError(t *testing.T) {
	r := NewRegistry()
	c := NewCache(r, 0)
	_, err := c.Produce("nonexistent", Params{})
	if err == nil {
		t.Fatal("Produce() error = nil, want error for unknown shape")
	}
}
