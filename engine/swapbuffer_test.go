package engine

import (
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func TestSwapBuffer_FrontNilBeforeFirstSwap(t *testing.T) {
	s := NewSwapBuffer()
	if s.Front() != nil {
		t.Fatal("Front() before any push/swap should be nil")
	}
}

func TestSwapBuffer_PushThenSwapExposesBuffer(t *testing.T) {
	s := NewSwapBuffer()
	g := geom.FromPolylines([][]geom.Point{{{1, 2, 3}}})
	s.Push(g)
	if !s.TrySwap() {
		t.Fatal("TrySwap() = false, want true after a push")
	}
	if s.Front() != g {
		t.Fatal("Front() did not return the pushed buffer")
	}
}

func TestSwapBuffer_CoalescesMultiplePushes(t *testing.T) {
	s := NewSwapBuffer()
	a := geom.FromPolylines([][]geom.Point{{{1, 0, 0}}})
	b := geom.FromPolylines([][]geom.Point{{{2, 0, 0}}})
	s.Push(a)
	s.Push(b)

	if !s.TrySwap() {
		t.Fatal("TrySwap() = false, want true")
	}
	if s.Front() != b {
		t.Fatal("Front() should expose the most recent push, not the first")
	}
}

func TestSwapBuffer_TrySwapFalseWhenNothingPending(t *testing.T) {
	s := NewSwapBuffer()
	s.Push(geom.FromPolylines(nil))
	if !s.TrySwap() {
		t.Fatal("first TrySwap() should succeed")
	}
	if s.TrySwap() {
		t.Fatal("second TrySwap() with no intervening push should return false")
	}
}

func TestSwapBuffer_VersionMonotonic(t *testing.T) {
	s := NewSwapBuffer()
	for i := 0; i < 5; i++ {
		s.Push(geom.FromPolylines(nil))
	}
	if s.Version() != 5 {
		t.Fatalf("Version() = %d, want 5", s.Version())
	}
}
