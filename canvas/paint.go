// Package canvas implements the immediate-mode 2D paint model
// used to draw SVG documents : paints, shaders, path effects,
// typefaces, and recorded pictures.
//
// A Canvas is implemented by the render targets (raster, PDF)
// and by the recorder returned by PictureRecorder.BeginRecording.
package canvas

import (
	"image/color"

	"github.com/benoitkugler/svgpaint/svgpath"
)

// PaintStyle selects the geometry a paint covers.
type PaintStyle uint8

const (
	Fill PaintStyle = iota
	Stroke
	StrokeAndFill
)

func (s PaintStyle) String() string {
	switch s {
	case Fill:
		return "Fill"
	case Stroke:
		return "Stroke"
	case StrokeAndFill:
		return "StrokeAndFill"
	default:
		return "<unknown PaintStyle>"
	}
}

// StrokeCap defines how to draw caps on the ends of lines
type StrokeCap uint8

const (
	ButtCap StrokeCap = iota
	RoundCap
	SquareCap
)

// StrokeJoin defines how stroke segments bridge the gap at a join
type StrokeJoin uint8

const (
	MiterJoin StrokeJoin = iota
	RoundJoin
	BevelJoin
)

// TextAlign is the horizontal alignment of text around its origin.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// BlendMode is the compositing operator used when restoring a layer.
type BlendMode uint8

const (
	SrcOver BlendMode = iota
	// DstIn keeps the destination, scaled by the source alpha.
	DstIn
)

// FillType is the filling rule of a path.
type FillType uint8

const (
	Winding FillType = iota
	EvenOdd
)

// ColorFilter transforms the colors of a layer when it is restored.
type ColorFilter uint8

const (
	NoColorFilter ColorFilter = iota
	// LumaColorFilter converts colors to an alpha channel,
	// using the luminance coefficients of the SVG masks.
	LumaColorFilter
)

// Luminance returns the luminance of c as an alpha value,
// premultiplied by the alpha of c.
func Luminance(c color.NRGBA) uint8 {
	l := 0.2125*float64(c.R) + 0.7154*float64(c.G) + 0.0721*float64(c.B)
	return uint8(l*float64(c.A)/255 + 0.5)
}

// DashPathEffect splits strokes into dashes.
type DashPathEffect struct {
	resource

	Intervals []float64 // even length, positive sum
	Phase     float64
}

// NewDashPathEffect returns a dash effect, or nil if
// the intervals are invalid (odd length, negative value or
// null sum).
func NewDashPathEffect(intervals []float64, phase float64) *DashPathEffect {
	if len(intervals) == 0 || len(intervals)%2 != 0 {
		return nil
	}
	var sum float64
	for _, v := range intervals {
		if v < 0 {
			return nil
		}
		sum += v
	}
	if sum <= 0 {
		return nil
	}
	return &DashPathEffect{Intervals: intervals, Phase: phase}
}

// BlurImageFilter blurs a layer when it is restored.
// Sigmas are expressed in user space.
type BlurImageFilter struct {
	resource

	SigmaX, SigmaY float64
}

// Paint holds the style and color information used to draw
// geometries, text and layers.
type Paint struct {
	resource

	Style       PaintStyle
	Color       color.NRGBA
	Shader      Shader // takes precedence over Color when non nil
	IsAntialias bool

	StrokeWidth float64
	StrokeMiter float64
	StrokeCap   StrokeCap
	StrokeJoin  StrokeJoin
	PathEffect  *DashPathEffect

	Typeface  *Typeface
	TextSize  float64
	TextAlign TextAlign

	// used by layers
	ColorFilter ColorFilter
	ImageFilter *BlurImageFilter
	BlendMode   BlendMode
}

// NewPaint returns a black, antialiased fill paint.
func NewPaint() *Paint {
	return &Paint{
		Style:       Fill,
		Color:       color.NRGBA{A: 0xff},
		IsAntialias: true,
		StrokeWidth: 1,
		StrokeMiter: 4,
		TextSize:    12,
	}
}

// Alpha returns the opacity of the paint in [0,1],
// ignoring the shader.
func (p *Paint) Alpha() float64 { return float64(p.Color.A) / 0xff }

// Point is a position in user space.
type Point struct {
	X, Y float64
}

// Path is a geometry with its filling rule.
type Path struct {
	resource

	Ops      svgpath.Path
	FillType FillType
}

// NewPath wraps ops.
func NewPath(ops svgpath.Path, ft FillType) *Path {
	return &Path{Ops: ops, FillType: ft}
}

// Bounds returns the (untransformed) bounds of the path.
func (p *Path) Bounds() svgpath.Rect { return p.Ops.Bounds() }

// IsEmpty returns true if the path has no drawing operation.
func (p *Path) IsEmpty() bool { return p == nil || p.Ops.IsEmpty() }
