// Implements an abstract representation of
// svg paths and shapes, together with the 2D geometry
// (matrices, rectangles, view boxes) needed to place them.
package svgpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
	// returns the operation with all its points mapped by m
	transform(m Matrix2D) Operation
}

// Point is a position in user space. Paths keep float
// coordinates : they are only rounded to fixed points when
// handed to a rasterizer.
type Point struct {
	X, Y float64
}

// Fixed rounds p to the fixed point coordinates used by rasterx.
func (p Point) Fixed() fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(p.X * 64)), Y: fixed.Int26_6(math.Round(p.Y * 64))}
}

// FromFixed converts a fixed point to float coordinates.
func FromFixed(a fixed.Point26_6) Point {
	return Point{X: float64(a.X) / 64, Y: float64(a.Y) / 64}
}

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

func (op MoveTo) transform(m Matrix2D) Operation { return MoveTo(m.TPoint(Point(op))) }

func (op LineTo) transform(m Matrix2D) Operation { return LineTo(m.TPoint(Point(op))) }

func (op QuadTo) transform(m Matrix2D) Operation {
	return QuadTo{m.TPoint(op[0]), m.TPoint(op[1])}
}

func (op CubicTo) transform(m Matrix2D) Operation {
	return CubicTo{m.TPoint(op[0]), m.TPoint(op[1]), m.TPoint(op[2])}
}

func (op Close) transform(Matrix2D) Operation { return op }

// Path describes a sequence of basic SVG operations, which should not be nil
// Higher-level shapes may be reduced to a path.
type Path []Operation

func formatPoint(p Point) string {
	return fmt.Sprintf("%4.3f,%4.3f", p.X, p.Y)
}

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = "M" + formatPoint(Point(op))
		case LineTo:
			chunks[i] = "L" + formatPoint(Point(op))
		case QuadTo:
			chunks[i] = "Q" + formatPoint(op[0]) + "," + formatPoint(op[1])
		case CubicTo:
			chunks[i] = "C" + formatPoint(op[0]) + "," + formatPoint(op[1]) + "," + formatPoint(op[2])
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// IsEmpty returns true if the path has no segment to draw,
// that is if it is empty or only made of moves.
func (p Path) IsEmpty() bool {
	for _, op := range p {
		if c := op.command(); c != pathMoveTo && c != pathClose {
			return false
		}
	}
	return true
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// AddTo adds the Path p to q, rounding its points
// to fixed coordinates.
func (p Path) AddTo(q rasterx.Adder) {
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			q.Stop(false) // implicit close if currently in path.
			q.Start(Point(op).Fixed())
		case LineTo:
			q.Line(Point(op).Fixed())
		case QuadTo:
			q.QuadBezier(op[0].Fixed(), op[1].Fixed())
		case CubicTo:
			q.CubeBezier(op[0].Fixed(), op[1].Fixed(), op[2].Fixed())
		case Close:
			q.Stop(true)
		}
	}
	q.Stop(false)
}

// Transform returns a new path, with every point mapped by m.
func (p Path) Transform(m Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		out[i] = op.transform(m)
	}
	return out
}
