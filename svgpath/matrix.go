package svgpath

import "math"

// Matrix2D represents an SVG style matrix
// [A C E]
// [B D F]
// [0 0 1]
// It is layout compatible with rasterx.Matrix2D.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// NewTranslation returns a translation matrix
func NewTranslation(x, y float64) Matrix2D { return Matrix2D{1, 0, 0, 1, x, y} }

// NewScale returns a scaling matrix
func NewScale(x, y float64) Matrix2D { return Matrix2D{x, 0, 0, y, 0, 0} }

// Transform multiples the input vector by matrix m and outputs the results vector
// components.
func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// TransformVector is a modidifed version of Transform that ignores the
// translation components.
func (m Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C
	y2 = x1*m.B + y1*m.D
	return
}

// TPoint transforms a point by the matrix
func (m Matrix2D) TPoint(a Point) Point {
	x, y := m.Transform(a.X, a.Y)
	return Point{x, y}
}

// Mult returns a*b, that is the transformation applying
// first b, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Invert returns the inverse matrix, or the identity if m is not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	return Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
}

// IsIdentity returns true if m is the identity
func (m Matrix2D) IsIdentity() bool { return m == Identity }

// Scale matrix in x and y dimensions
func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{A: x, D: y})
}

// SkewY skews the matrix in the Y dimension
func (m Matrix2D) SkewY(theta float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, B: math.Tan(theta), D: 1})
}

// SkewX skews the matrix in the X dimension
func (m Matrix2D) SkewX(theta float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, C: math.Tan(theta), D: 1})
}

// Translate translates the matrix to the x , y point
func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Rotate rotate the matrix by theta (in radians)
func (m Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return m.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// MapRect returns the bounding box of the rectangle r
// transformed by m.
func (m Matrix2D) MapRect(r Rect) Rect {
	if m.B == 0 && m.C == 0 {
		x0, y0 := m.Transform(r.X, r.Y)
		x1, y1 := m.Transform(r.X+r.W, r.Y+r.H)
		return rectFromPoints(x0, y0, x1, y1)
	}
	xs, ys := [4]float64{}, [4]float64{}
	xs[0], ys[0] = m.Transform(r.X, r.Y)
	xs[1], ys[1] = m.Transform(r.X+r.W, r.Y)
	xs[2], ys[2] = m.Transform(r.X+r.W, r.Y+r.H)
	xs[3], ys[3] = m.Transform(r.X, r.Y+r.H)
	minX, minY, maxX, maxY := xs[0], ys[0], xs[0], ys[0]
	for i := 1; i < 4; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
