// Package renderer draws GeometryBuffers to screen via raylib, owning the
// window's GL context, camera, and projection. Everything here runs on the
// main thread only.
package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/penframe/engine"
	"github.com/pthm-cable/penframe/geom"
)

// Renderer consumes SwapBuffer's front buffer each tick and draws it with an
// orthographic projection mapping a millimetre canvas onto the window.
// Provided once at construction and never mutated per frame.
type Renderer struct {
	swap       *engine.SwapBuffer
	camera     rl.Camera3D
	lineColor  rl.Color
	background rl.Color
	closeSig   chan struct{}
	closed     bool
	logger     *slog.Logger
}

// New builds a Renderer with an orthographic camera sized to the given
// millimetre canvas (canvasW x canvasH), viewed head-on down -Z. A nil
// logger falls back to slog.Default().
func New(swap *engine.SwapBuffer, canvasWidthMM, canvasHeightMM float64, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	camera := rl.Camera3D{
		Position:   rl.Vector3{X: float32(canvasWidthMM / 2), Y: float32(canvasHeightMM / 2), Z: 100},
		Target:     rl.Vector3{X: float32(canvasWidthMM / 2), Y: float32(canvasHeightMM / 2), Z: 0},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(canvasHeightMM),
		Projection: rl.CameraOrthographic,
	}
	return &Renderer{
		swap:       swap,
		camera:     camera,
		lineColor:  rl.White,
		background: rl.Black,
		closeSig:   make(chan struct{}, 1),
		logger:     logger,
	}
}

// Tick renders the swap buffer's current front geometry, forwarding ESCAPE
// to the close signal. Satisfies engine.Tickable; Draw errors never occur on
// this path (raylib's draw calls don't return errors), so Tick always
// returns nil — GL context loss is out of scope, per the contract.
func (r *Renderer) Tick(dt float64) error {
	if rl.IsKeyPressed(rl.KeyEscape) && !r.closed {
		r.closed = true
		r.logger.Debug("close requested via escape key")
		close(r.closeSig)
	}

	r.swap.TrySwap()

	rl.BeginDrawing()
	rl.ClearBackground(r.background)
	rl.BeginMode3D(r.camera)
	if g := r.swap.Front(); g != nil {
		drawBuffer(g, r.lineColor)
	}
	rl.EndMode3D()
	rl.EndDrawing()
	return nil
}

// MouseDevice implements engine.Device, reporting the window-space cursor
// position as a two-axis input source.
type MouseDevice struct{}

// Name identifies the device in a merged Snapshot.
func (MouseDevice) Name() string { return "mouse" }

// Poll reads raylib's current cursor position.
func (MouseDevice) Poll() map[string]float64 {
	pos := rl.GetMousePosition()
	return map[string]float64{"mouse_x": float64(pos.X), "mouse_y": float64(pos.Y)}
}

// CloseRequested reports whether ESCAPE has been forwarded to the close
// signal (closed exactly once, never re-opened).
func (r *Renderer) CloseRequested() <-chan struct{} {
	return r.closeSig
}

// drawBuffer draws every polyline in g as connected 3-D line segments.
// raylib-go's raylib package exposes DrawLine3D per-segment rather than a
// line-strip primitive, so each polyline is walked point-to-point.
func drawBuffer(g *geom.Buffer, color rl.Color) {
	for i := 0; i < g.NumPolylines(); i++ {
		flat := g.Polyline(i)
		n := len(flat) / 3
		for j := 0; j < n-1; j++ {
			a := rl.Vector3{X: flat[j*3], Y: flat[j*3+1], Z: flat[j*3+2]}
			b := rl.Vector3{X: flat[(j+1)*3], Y: flat[(j+1)*3+1], Z: flat[(j+1)*3+2]}
			rl.DrawLine3D(a, b, color)
		}
	}
}

// InitWindow opens the window host: double buffering, MSAA 4x, vsync, and
// the given target FPS, matching the contract that the host owns GL context
// creation and schedules ticks at a fixed interval.
func InitWindow(width, height int, title string, targetFPS int, msaa4x, vsync bool) {
	flags := uint32(0)
	if msaa4x {
		flags |= rl.FlagMsaa4xHint
	}
	if vsync {
		flags |= rl.FlagVsyncHint
	}
	if flags != 0 {
		rl.SetConfigFlags(flags)
	}
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(int32(targetFPS))
}

// CloseWindow releases the window and its GL context.
func CloseWindow() {
	rl.CloseWindow()
}

// WindowShouldClose reports whether the host's own close request (the OS
// window-close button) has fired.
func WindowShouldClose() bool {
	return rl.WindowShouldClose()
}
