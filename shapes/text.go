package shapes

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/penframe/geom"
)

// fontCache avoids re-parsing the same font file on every Text call; parsing
// is deterministic so caching the *sfnt.Font is safe across shape calls.
var (
	fontCacheMu sync.Mutex
	fontCache   = map[string]*sfnt.Font{}
)

func loadFont(path string) (*sfnt.Font, error) {
	fontCacheMu.Lock()
	defer fontCacheMu.Unlock()
	if f, ok := fontCache[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	fontCache[path] = f
	return f, nil
}

// Text linearizes a string's glyph outlines into one polyline per contour.
// Curves (QuadTo/CubeTo) are flattened into straight segments at a fixed
// step count (curveSteps) that does not depend on size. A glyph missing from the font is
// silently skipped rather than substituted with a placeholder, matching the
// silent-skip behavior of the source this was distilled from.
func Text(p Params) (*geom.Buffer, error) {
	text := getString(p, "string", "")
	fontRef := getString(p, "font_ref", "")
	size := getFloat(p, "size", 12)
	align := getString(p, "align", "left")

	if text == "" || fontRef == "" {
		return geom.Empty(), nil
	}

	f, err := loadFont(fontRef)
	if err != nil {
		return nil, ErrInvalidParameter{Shape: "text", Param: "font_ref", Msg: err.Error()}
	}

	var buf sfnt.Buffer
	ppem := fixed.I(int(size))

	type glyphLines struct {
		lines   [][]geom.Point
		advance float64
	}

	glyphs := make([]glyphLines, 0, len(text))
	totalAdvance := 0.0
	for _, r := range text {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue // missing glyph: silent skip
		}
		segs, err := f.LoadGlyph(&buf, gid, ppem, nil)
		if err != nil {
			continue
		}
		lines := linearizeSegments(segs, size)
		adv, err := f.GlyphAdvance(&buf, gid, ppem, font.HintingNone)
		advance := size
		if err == nil {
			advance = fixedToFloat(adv)
		}
		glyphs = append(glyphs, glyphLines{lines: lines, advance: advance})
		totalAdvance += advance
	}

	xOffset := 0.0
	switch align {
	case "center":
		xOffset = -totalAdvance / 2
	case "right":
		xOffset = -totalAdvance
	}

	var out [][]geom.Point
	cursor := xOffset
	for _, g := range glyphs {
		for _, line := range g.lines {
			shifted := make([]geom.Point, len(line))
			for i, pt := range line {
				shifted[i] = geom.Point{pt[0] + float32(cursor), pt[1], pt[2]}
			}
			out = append(out, shifted)
		}
		cursor += g.advance
	}

	return geom.FromPolylines(out), nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// linearizeSegments walks sfnt.Segments, flattening MoveTo/LineTo/QuadTo/
// CubeTo into straight-segment polylines, one per contour. Coordinates are
// scaled from font units (26.6 fixed, ppem-sized) down to [0, size]-ish
// local glyph space and placed in the XY plane at z=0.
func linearizeSegments(segs sfnt.Segments, size float64) [][]geom.Point {
	const curveSteps = 8
	scale := 1.0 / 64.0

	var lines [][]geom.Point
	var current []geom.Point
	var pen fixed.Point26_6

	flush := func() {
		if len(current) > 1 {
			lines = append(lines, current)
		}
		current = nil
	}

	toPoint := func(p fixed.Point26_6) geom.Point {
		return geom.Point{float32(float64(p.X) * scale), float32(float64(p.Y) * scale), 0}
	}

	quadAt := func(t float64, p0, p1, p2 fixed.Point26_6) geom.Point {
		x0, y0 := float64(p0.X), float64(p0.Y)
		x1, y1 := float64(p1.X), float64(p1.Y)
		x2, y2 := float64(p2.X), float64(p2.Y)
		u := 1 - t
		x := u*u*x0 + 2*u*t*x1 + t*t*x2
		y := u*u*y0 + 2*u*t*y1 + t*t*y2
		return geom.Point{float32(x * scale), float32(y * scale), 0}
	}

	cubeAt := func(t float64, p0, p1, p2, p3 fixed.Point26_6) geom.Point {
		x0, y0 := float64(p0.X), float64(p0.Y)
		x1, y1 := float64(p1.X), float64(p1.Y)
		x2, y2 := float64(p2.X), float64(p2.Y)
		x3, y3 := float64(p3.X), float64(p3.Y)
		u := 1 - t
		x := u*u*u*x0 + 3*u*u*t*x1 + 3*u*t*t*x2 + t*t*t*x3
		y := u*u*u*y0 + 3*u*u*t*y1 + 3*u*t*t*y2 + t*t*t*y3
		return geom.Point{float32(x * scale), float32(y * scale), 0}
	}

	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			pen = seg.Args[0]
			current = append(current, toPoint(pen))
		case sfnt.SegmentOpLineTo:
			pen = seg.Args[0]
			current = append(current, toPoint(pen))
		case sfnt.SegmentOpQuadTo:
			p1, p2 := seg.Args[0], seg.Args[1]
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / float64(curveSteps)
				current = append(current, quadAt(t, pen, p1, p2))
			}
			pen = p2
		case sfnt.SegmentOpCubeTo:
			p1, p2, p3 := seg.Args[0], seg.Args[1], seg.Args[2]
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / float64(curveSteps)
				current = append(current, cubeAt(t, pen, p1, p2, p3))
			}
			pen = p3
		}
	}
	flush()
	return lines
}
