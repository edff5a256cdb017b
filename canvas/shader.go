package canvas

import (
	"image/color"
	"math"
	"sort"

	"github.com/benoitkugler/svgpaint/svgpath"
)

// TileMode defines how shaders extend beyond their defined bounds.
type TileMode uint8

const (
	// Clamp extends edge colors (SVG pad spread)
	Clamp TileMode = iota
	// Repeat repeats the content
	Repeat
	// Mirror repeats and flips the content (SVG reflect spread)
	Mirror
	// Decal draws nothing outside the bounds
	Decal
)

func (t TileMode) String() string {
	switch t {
	case Clamp:
		return "Clamp"
	case Repeat:
		return "Repeat"
	case Mirror:
		return "Mirror"
	case Decal:
		return "Decal"
	default:
		return "<unknown TileMode>"
	}
}

// Shader is a source of colors. It is one of *ColorShader,
// *LinearGradientShader, *TwoPointConicalShader, *PictureShader.
type Shader interface {
	Disposable
	isShader()
}

func (*ColorShader) isShader()           {}
func (*LinearGradientShader) isShader()  {}
func (*TwoPointConicalShader) isShader() {}
func (*PictureShader) isShader()         {}

// ColorShader paints with a uniform color.
type ColorShader struct {
	resource

	Color color.NRGBA
}

// NewColorShader returns a uniform shader.
func NewColorShader(c color.NRGBA) *ColorShader { return &ColorShader{Color: c} }

// Gradient stores the color stops and spread of a gradient shader.
type Gradient struct {
	Colors    []color.NRGBA
	Positions []float64 // sorted, in [0,1], same length as Colors
	Mode      TileMode
	// LocalMatrix maps the gradient space to user space
	LocalMatrix svgpath.Matrix2D
}

// colorAt interpolates the stops at t, after applying the tile mode.
// ok is false for Decal gradients outside [0,1].
func (g *Gradient) colorAt(t float64) (color.NRGBA, bool) {
	switch len(g.Colors) {
	case 0:
		return color.NRGBA{}, true
	case 1:
		return g.Colors[0], true
	}
	switch g.Mode {
	case Repeat:
		t -= math.Floor(t)
	case Mirror:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	case Decal:
		if t < 0 || t > 1 {
			return color.NRGBA{}, false
		}
	default:
		t = math.Max(0, math.Min(1, t))
	}

	idx := sort.SearchFloat64s(g.Positions, t)
	if idx == 0 {
		return g.Colors[0], true
	}
	if idx >= len(g.Positions) {
		return g.Colors[len(g.Colors)-1], true
	}
	p1, p2 := g.Positions[idx-1], g.Positions[idx]
	if p2 == p1 {
		return g.Colors[idx-1], true
	}
	return lerpColor(g.Colors[idx-1], g.Colors[idx], (t-p1)/(p2-p1)), true
}

func lerpColor(c1, c2 color.NRGBA, t float64) color.NRGBA {
	l := func(a, b uint8) uint8 { return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5) }
	return color.NRGBA{R: l(c1.R, c2.R), G: l(c1.G, c2.G), B: l(c1.B, c2.B), A: l(c1.A, c2.A)}
}

// LinearGradientShader interpolates colors along the Start -> End segment.
type LinearGradientShader struct {
	resource
	Gradient

	Start, End Point
}

// NewLinearGradient returns a linear gradient shader. Positions are sorted
// with their colors.
func NewLinearGradient(start, end Point, colors []color.NRGBA, positions []float64, mode TileMode, local svgpath.Matrix2D) *LinearGradientShader {
	return &LinearGradientShader{Gradient: newGradient(colors, positions, mode, local), Start: start, End: end}
}

// ColorAt returns the color at (x, y), given in gradient space.
func (s *LinearGradientShader) ColorAt(x, y float64) (color.NRGBA, bool) {
	dx, dy := s.End.X-s.Start.X, s.End.Y-s.Start.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return s.colorAt(0)
	}
	t := ((x-s.Start.X)*dx + (y-s.Start.Y)*dy) / l2
	return s.colorAt(t)
}

// TwoPointConicalShader interpolates colors between two circles.
// SVG radial gradients use a start circle of radius 0.
type TwoPointConicalShader struct {
	resource
	Gradient

	Start       Point
	StartRadius float64
	End         Point
	EndRadius   float64
}

// NewTwoPointConicalGradient returns a two point conical gradient shader.
func NewTwoPointConicalGradient(start Point, startRadius float64, end Point, endRadius float64,
	colors []color.NRGBA, positions []float64, mode TileMode, local svgpath.Matrix2D,
) *TwoPointConicalShader {
	return &TwoPointConicalShader{
		Gradient:    newGradient(colors, positions, mode, local),
		Start:       start,
		StartRadius: startRadius,
		End:         end,
		EndRadius:   endRadius,
	}
}

// ColorAt returns the color at (x, y), given in gradient space.
// The gradient parameter is the largest t such that (x, y) lies on
// the interpolated circle of non negative radius.
func (s *TwoPointConicalShader) ColorAt(x, y float64) (color.NRGBA, bool) {
	cdx, cdy := s.End.X-s.Start.X, s.End.Y-s.Start.Y
	pdx, pdy := x-s.Start.X, y-s.Start.Y
	dr := s.EndRadius - s.StartRadius

	a := cdx*cdx + cdy*cdy - dr*dr
	b := pdx*cdx + pdy*cdy + s.StartRadius*dr
	c := pdx*pdx + pdy*pdy - s.StartRadius*s.StartRadius

	var t float64
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return color.NRGBA{}, false
		}
		t = c / (2 * b)
	} else {
		disc := b*b - a*c
		if disc < 0 {
			return color.NRGBA{}, false
		}
		sq := math.Sqrt(disc)
		t1, t2 := (b+sq)/a, (b-sq)/a
		if t1 < t2 {
			t1, t2 = t2, t1
		}
		t = t1
		if s.StartRadius+t*dr < 0 {
			t = t2
		}
	}
	if s.StartRadius+t*dr < 0 {
		return color.NRGBA{}, false
	}
	return s.colorAt(t)
}

// newGradient clamps the positions to [0,1]. A position smaller than
// the previous one takes its value, so that the stops stay in
// document order.
func newGradient(colors []color.NRGBA, positions []float64, mode TileMode, local svgpath.Matrix2D) Gradient {
	g := Gradient{Mode: mode, LocalMatrix: local}
	var last float64
	for i, c := range colors {
		var p float64
		if i < len(positions) {
			p = math.Max(0, math.Min(1, positions[i]))
		}
		if i > 0 && p < last {
			p = last
		}
		last = p
		g.Colors = append(g.Colors, c)
		g.Positions = append(g.Positions, p)
	}
	return g
}

// PictureShader tiles a recorded picture. The shader owns
// the picture, which is disposed with it.
type PictureShader struct {
	resource

	Picture      *Picture
	TileX, TileY TileMode
	// LocalMatrix maps the tile space to user space
	LocalMatrix svgpath.Matrix2D
	// Tile is the area of the picture repeated, in tile space
	Tile svgpath.Rect
}

// NewPictureShader returns a shader tiling pic over tile.
func NewPictureShader(pic *Picture, tileX, tileY TileMode, local svgpath.Matrix2D, tile svgpath.Rect) *PictureShader {
	return &PictureShader{Picture: pic, TileX: tileX, TileY: tileY, LocalMatrix: local, Tile: tile}
}

// Dispose releases the shader and the picture it owns.
func (s *PictureShader) Dispose() {
	if s.IsDisposed() {
		return
	}
	s.resource.Dispose()
	if s.Picture != nil {
		s.Picture.Dispose()
	}
}
