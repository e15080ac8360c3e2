package engine

import (
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// SwapBuffer is the single-slot double buffer between producers (workers,
// via FrameReceiver) and the renderer. Push stores into back and marks it
// ready; TrySwap atomically promotes back to front when ready. Multiple
// pushes between swaps coalesce — only the most recent survives, which is
// the explicit backpressure mechanism: producers are never stalled waiting
// on the renderer.
type SwapBuffer struct {
	mu      sync.Mutex
	front   *geom.Buffer
	back    *geom.Buffer
	ready   bool
	version uint64
}

// NewSwapBuffer returns an empty swap buffer (Front returns nil until the
// first successful swap).
func NewSwapBuffer() *SwapBuffer {
	return &SwapBuffer{}
}

// Push stores buf as the pending back buffer and marks it ready for swap.
func (s *SwapBuffer) Push(buf *geom.Buffer) {
	s.mu.Lock()
	s.back = buf
	s.ready = true
	s.version++
	s.mu.Unlock()
}

// TrySwap promotes the pending back buffer to front if one is ready,
// reporting whether a swap happened.
func (s *SwapBuffer) TrySwap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return false
	}
	s.front = s.back
	s.back = nil
	s.ready = false
	return true
}

// Front returns the current renderable buffer, or nil before the first swap.
func (s *SwapBuffer) Front() *geom.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.front
}

// Version returns the monotonic push counter, useful for telemetry.
func (s *SwapBuffer) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
