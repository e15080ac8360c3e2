// Shape gallery - interactive parameter sliders for live-tuning shape and
// effect params outside the main runtime.
//
// Usage: go run ./cmd/shapegallery
package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/penframe/effects"
	"github.com/pthm-cable/penframe/geom"
	"github.com/pthm-cable/penframe/shapes"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 560
	panelWidth   = windowWidth - previewSize - 30
)

// galleryParams holds the shape and effect parameters exposed as sliders.
type galleryParams struct {
	Sides     int32
	Scale     float32
	Intensity float32
	Frequency float32
	Spin      float32
}

func defaultParams() galleryParams {
	return galleryParams{Sides: 5, Scale: 200, Intensity: 0.5, Frequency: 0.5, Spin: 0.4}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Shape Gallery")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	shapeReg := shapes.NewRegistry()
	shapeReg.RegisterDefaults()
	effectReg := effects.NewRegistry()
	effectReg.RegisterDefaults()

	params := defaultParams()
	var t float64
	animating := true

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: float32(previewSize) / 2, Y: float32(previewSize) / 2, Z: 400},
		Target:     rl.Vector3{X: float32(previewSize) / 2, Y: float32(previewSize) / 2, Z: 0},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(previewSize),
		Projection: rl.CameraOrthographic,
	}

	for !rl.WindowShouldClose() {
		if animating {
			t += 1.0 / 60.0
		}

		base, err := shapeReg.Get("polygon")
		var buf *geom.Buffer
		if err == nil {
			b, ferr := base(shapes.Params{"n_sides": int(params.Sides)})
			if ferr == nil {
				pipeline := effects.NewPipeline(effectReg).
					AddStep("scaling", effects.Params{"scale": [3]float64{float64(params.Scale), float64(params.Scale), 1}}).
					AddStep("rotation", effects.Params{"rotate": [3]float64{0, 0, t * float64(params.Spin)}}).
					AddStep("noise", effects.Params{
						"intensity": float64(params.Intensity),
						"frequency": [3]float64{float64(params.Frequency), float64(params.Frequency), float64(params.Frequency)},
						"t":         t,
					})
				g, aerr := pipeline.Apply(b)
				if aerr == nil {
					buf = g
				}
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(0, 0, previewSize, previewSize)
		rl.BeginMode3D(camera)
		rl.ClearBackground(rl.Black)
		if buf != nil {
			drawBuffer(buf)
		}
		rl.EndMode3D()
		rl.EndScissorMode()
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Shape Gallery", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		panelY = slider(panelX, panelY, "Sides", "3", "12", float32(params.Sides), 3, 12, func(v float32) { params.Sides = int32(v) })
		panelY = slider(panelX, panelY, "Scale (mm)", "20", "250", params.Scale, 20, 250, func(v float32) { params.Scale = v })
		panelY = slider(panelX, panelY, "Noise intensity", "0", "3", params.Intensity, 0, 3, func(v float32) { params.Intensity = v })
		panelY = slider(panelX, panelY, "Noise frequency", "0.05", "2", params.Frequency, 0.05, 2, func(v float32) { params.Frequency = v })
		panelY = slider(panelX, panelY, "Spin speed", "0", "2", params.Spin, 0, 2, func(v float32) { params.Spin = v })
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Pause", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = defaultParams()
			t = 0
		}
		panelY += 50

		rl.DrawText("Params (copy into a demo scene):", int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 20
		lines := []string{
			fmt.Sprintf("n_sides: %d", params.Sides),
			fmt.Sprintf("scale: %.0f", params.Scale),
			fmt.Sprintf("intensity: %.2f", params.Intensity),
			fmt.Sprintf("frequency: %.2f", params.Frequency),
			fmt.Sprintf("spin: %.2f", params.Spin),
		}
		for _, l := range lines {
			rl.DrawText(l, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.EndDrawing()
	}
}

// slider draws a labeled raygui slider bar and invokes set when its value
// changes, returning the Y coordinate for the next control.
func slider(x, y float32, label, lo, hi string, value, min, max float32, set func(float32)) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	newVal := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20}, lo, hi, value, min, max)
	rl.DrawText(fmt.Sprintf("%.2f", newVal), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	if newVal != value {
		set(newVal)
	}
	return y + 35
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// drawBuffer draws every polyline in g as connected 3-D line segments,
// centered in the preview square.
func drawBuffer(g *geom.Buffer) {
	for i := 0; i < g.NumPolylines(); i++ {
		flat := g.Polyline(i)
		n := len(flat) / 3
		for j := 0; j < n-1; j++ {
			a := rl.Vector3{X: flat[j*3] + previewSize/2, Y: flat[j*3+1] + previewSize/2, Z: flat[j*3+2]}
			b := rl.Vector3{X: flat[(j+1)*3] + previewSize/2, Y: flat[(j+1)*3+1] + previewSize/2, Z: flat[(j+1)*3+2]}
			rl.DrawLine3D(a, b, rl.White)
		}
	}
}
