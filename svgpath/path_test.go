package svgpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func assertRect(t *testing.T, exp, got Rect, delta float64) {
	t.Helper()
	assert.InDelta(t, exp.X, got.X, delta, "X")
	assert.InDelta(t, exp.Y, got.Y, delta, "Y")
	assert.InDelta(t, exp.W, got.W, delta, "W")
	assert.InDelta(t, exp.H, got.H, delta, "H")
}

func TestMatrixOrder(t *testing.T) {
	// b is applied first
	m := NewTranslation(10, 0).Mult(NewScale(2, 2))
	x, y := m.Transform(1, 1)
	assert.Equal(t, 12., x)
	assert.Equal(t, 2., y)

	m2 := Identity.Scale(2, 2).Translate(10, 0)
	x, y = m2.Transform(1, 1)
	assert.Equal(t, 22., x)
	assert.Equal(t, 2., y)
}

func TestMatrixInvert(t *testing.T) {
	m := Identity.Translate(3, -4).Rotate(0.3).Scale(2, 5)
	x, y := m.Mult(m.Invert()).Transform(7, 9)
	assert.InDelta(t, 7, x, 1e-9)
	assert.InDelta(t, 9, y, 1e-9)

	assert.Equal(t, Identity, Matrix2D{}.Invert())
}

func TestMapRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	assert.Equal(t, r, Identity.MapRect(r))
	assert.Equal(t, Rect{X: 15, Y: 40, W: 60, H: 80}, NewTranslation(-5, 0).Mult(NewScale(2, 2)).MapRect(r))
	// flipping keeps a positive size
	assert.Equal(t, Rect{X: -40, Y: 20, W: 30, H: 40}, NewScale(-1, 1).MapRect(r))

	rotated := Identity.Rotate(math.Pi / 2).MapRect(Rect{W: 10, H: 20})
	assertRect(t, Rect{X: -20, Y: 0, W: 20, H: 10}, rotated, 1e-9)
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: -5, W: 10, H: 10}
	assert.Equal(t, Rect{X: 0, Y: -5, W: 15, H: 15}, a.Union(b))
	assert.Equal(t, a, Rect{}.Union(a))
	assert.True(t, Rect{W: 0, H: 3}.IsEmpty())
}

func TestViewBoxTransform(t *testing.T) {
	vb := Rect{X: 0, Y: 0, W: 10, H: 20}

	m := ViewBoxTransform(vb, AspectRatio{}, 0, 0, 100, 100)
	// meet: scale 5, centered horizontally
	x, y := m.Transform(0, 0)
	assert.Equal(t, 25., x)
	assert.Equal(t, 0., y)
	x, y = m.Transform(10, 20)
	assert.Equal(t, 75., x)
	assert.Equal(t, 100., y)

	m = ViewBoxTransform(vb, AspectRatio{Align: AlignXMinYMin, Slice: true}, 0, 0, 100, 100)
	x, y = m.Transform(10, 20)
	assert.Equal(t, 100., x)
	assert.Equal(t, 200., y)

	m = ViewBoxTransform(vb, AspectRatio{Align: AlignNone}, 5, 5, 100, 100)
	x, y = m.Transform(10, 20)
	assert.Equal(t, 105., x)
	assert.Equal(t, 105., y)

	assert.Equal(t, NewTranslation(3, 4), ViewBoxTransform(Rect{}, AspectRatio{}, 3, 4, 10, 10))
}

func TestParseAspectRatio(t *testing.T) {
	ar, err := ParseAspectRatio("xMaxYMin slice")
	require.NoError(t, err)
	assert.Equal(t, AspectRatio{Align: AlignXMaxYMin, Slice: true}, ar)

	ar, err = ParseAspectRatio("defer none")
	require.NoError(t, err)
	assert.Equal(t, AlignNone, ar.Align)

	_, err = ParseAspectRatio("xMaxYMin crop")
	assert.Error(t, err)
}

func TestParseNumbers(t *testing.T) {
	nums, err := ParseNumbers(" 1,2 3.5 -4e1,  .5")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3.5, -40, 0.5}, nums)

	_, err = ParseNumbers("1 a")
	assert.Error(t, err)
}

func TestParseTransform(t *testing.T) {
	m, err := ParseTransform("translate(10, 20) scale(2)")
	require.NoError(t, err)
	assert.Equal(t, Matrix2D{2, 0, 0, 2, 10, 20}, m)

	m, err = ParseTransform("matrix(1 2 3 4 5 6)")
	require.NoError(t, err)
	assert.Equal(t, Matrix2D{1, 2, 3, 4, 5, 6}, m)

	m, err = ParseTransform("rotate(90, 10, 10)")
	require.NoError(t, err)
	x, y := m.Transform(20, 10)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)

	_, err = ParseTransform("translate(1,2,3)")
	assert.ErrorIs(t, err, errParamMismatch)
	_, err = ParseTransform("unknown(1)")
	assert.Error(t, err)
}

func TestParsePathData(t *testing.T) {
	p, err := ParsePathData("M10 10 h 20 v20 H10 z")
	require.NoError(t, err)
	assert.Equal(t, "M10.000,10.000 L30.000,10.000 L30.000,30.000 L10.000,30.000 Z", p.ToSVGPath())
	assertRect(t, Rect{X: 10, Y: 10, W: 20, H: 20}, p.Bounds(), 0)

	// implicit line to, relative move
	p, err = ParsePathData("m 1 1 2 0 0 2")
	require.NoError(t, err)
	require.Len(t, p, 3)
	assert.Equal(t, LineTo(Point{3, 3}), p[2])

	// smooth cubic reflects the previous control point
	p, err = ParsePathData("M0 0 C 0 10 10 10 10 0 S 20 -10 20 0")
	require.NoError(t, err)
	require.Len(t, p, 3)
	assert.Equal(t, Point{10, -10}, p[2].(CubicTo)[0])

	// arcs with compact flags
	p, err = ParsePathData("M0 0 a5 5 0 1010 0")
	require.NoError(t, err)
	assert.False(t, p.IsEmpty())
	b := p.Bounds()
	assert.InDelta(t, 10, b.W, 0.1)
	assert.InDelta(t, 5, b.H, 0.1)

	for _, bad := range []string{"M 10", "X 10 10", "M0 0 A 1 1 0 2 0 3 3"} {
		_, err = ParsePathData(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}

	p, err = ParsePathData("")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestShapesBounds(t *testing.T) {
	var p Path
	p.AddEllipse(50, 40, 20, 10)
	assertRect(t, Rect{X: 30, Y: 30, W: 40, H: 20}, p.Bounds(), 0.05)

	p.Clear()
	p.AddRoundRect(0, 0, 100, 50, 10, 5)
	assertRect(t, Rect{X: 0, Y: 0, W: 100, H: 50}, p.Bounds(), 0.05)

	p.Clear()
	p.AddPolyline([]float64{0, 0, 10, 5, 3, 8}, true)
	assertRect(t, Rect{X: 0, Y: 0, W: 10, H: 8}, p.Bounds(), 0)
	assert.Equal(t, Close{}, p[len(p)-1])

	p.Clear()
	p.AddPolyline([]float64{1, 1}, false)
	assert.True(t, p.IsEmpty())
}

func TestRoundRect(t *testing.T) {
	var p Path
	p.AddRoundRect(10, 20, 110, 70, 10, 5)
	assert.Equal(t, MoveTo{20, 20}, p[0])
	assert.Equal(t, LineTo{100, 20}, p[1])
	// the first corner ends on the right side
	corner := p[2].(CubicTo)
	assert.InDelta(t, 110, corner[2].X, 1e-9)
	assert.InDelta(t, 25, corner[2].Y, 1e-9)
	assert.Equal(t, Close{}, p[len(p)-1])

	// radii are clamped to half the size
	p.Clear()
	p.AddRoundRect(0, 0, 10, 10, 20, 20)
	assertRect(t, Rect{W: 10, H: 10}, p.Bounds(), 0.01)
	assert.InDelta(t, 5, Point(p[0].(MoveTo)).X, 1e-9)

	p.Clear()
	p.AddRoundRect(0, 0, 10, 10, 0, 3)
	assert.Equal(t, Path{MoveTo{0, 0}, LineTo{10, 0}, LineTo{10, 10}, LineTo{0, 10}, Close{}}, p)
}

func TestEllipseAccuracy(t *testing.T) {
	var p Path
	p.AddEllipse(0, 0, 100, 50)
	require.Len(t, p, 6) // move, four quarters, close
	for _, op := range p[1:5] {
		end := op.(CubicTo)[2]
		// the ends of the quarters lie on the ellipse
		assert.InDelta(t, 1, end.X*end.X/10000+end.Y*end.Y/2500, 1e-9)
	}
	// midpoint of the first quarter
	q := p[1].(CubicTo)
	start := Point(p[0].(MoveTo))
	mx := (start.X + 3*q[0].X + 3*q[1].X + q[2].X) / 8
	my := (start.Y + 3*q[0].Y + 3*q[1].Y + q[2].Y) / 8
	assert.InDelta(t, 1, mx*mx/10000+my*my/2500, 1e-3)
}

func TestArc(t *testing.T) {
	for _, test := range []struct {
		d      string
		bounds Rect
		end    Point
	}{
		// half circles above and below the chord
		{"M0 0 A10 10 0 0 1 20 0", Rect{X: 0, Y: -10, W: 20, H: 10}, Point{20, 0}},
		{"M0 0 A10 10 0 0 0 20 0", Rect{X: 0, Y: 0, W: 20, H: 10}, Point{20, 0}},
		// radii too small are scaled up
		{"M0 0 A1 1 0 0 1 20 0", Rect{X: 0, Y: -10, W: 20, H: 10}, Point{20, 0}},
		// three quarters of the circle centered at (10, 0)
		{"M0 0 A10 10 0 1 1 10 10", Rect{X: 0, Y: -10, W: 20, H: 20}, Point{10, 10}},
		// rotated ellipse
		{"M0 0 A20 10 90 0 1 0 40", Rect{X: 0, Y: 0, W: 10, H: 40}, Point{0, 40}},
	} {
		p, err := ParsePathData(test.d)
		require.NoError(t, err, test.d)
		assertRect(t, test.bounds, p.Bounds(), 0.05)
		// the end point is exact
		assert.Equal(t, test.end, p[len(p)-1].(CubicTo)[2], test.d)
	}

	// degenerate arcs
	p, err := ParsePathData("M0 0 A0 5 0 0 1 10 0")
	require.NoError(t, err)
	assert.Equal(t, Path{MoveTo{0, 0}, LineTo{10, 0}}, p)
	p, err = ParsePathData("M5 5 A5 5 0 0 1 5 5")
	require.NoError(t, err)
	assert.Equal(t, Path{MoveTo{5, 5}}, p)
}

func TestFloatPrecision(t *testing.T) {
	// unit space geometry is scaled without rounding
	var p Path
	p.AddRect(0.1, 0.1, 0.4, 0.4)
	got := p.Transform(NewScale(1000, 1000)).Bounds()
	assertRect(t, Rect{X: 100, Y: 100, W: 300, H: 300}, got, 1e-9)

	assert.Equal(t, Point{0.5, -2}, FromFixed(Point{0.5, -2}.Fixed()))
}

func TestCurveBounds(t *testing.T) {
	// the control points are outside the curve extent
	p := Path{
		MoveTo(Point{0, 0}),
		CubicTo{Point{0, 100}, Point{100, 100}, Point{100, 0}},
	}
	b := p.Bounds()
	assert.InDelta(t, 75, b.H, 0.05)
	assert.InDelta(t, 100, b.W, 0.05)

	q := Path{
		MoveTo(Point{0, 0}),
		QuadTo{Point{50, 100}, Point{100, 0}},
	}
	assert.InDelta(t, 50, q.Bounds().H, 0.05)
}

func TestTransformPath(t *testing.T) {
	p := Path{MoveTo(Point{1, 1}), LineTo(Point{2, 3}), Close{}}
	tr := p.Transform(NewScale(2, 2))
	assert.Equal(t, Path{MoveTo(Point{2, 2}), LineTo(Point{4, 6}), Close{}}, tr)
	// the original path is not modified
	assert.Equal(t, MoveTo(Point{1, 1}), p[0])
}

type recorder struct{ ops []string }

func (r *recorder) Start(a fixed.Point26_6)            { r.ops = append(r.ops, "start") }
func (r *recorder) Line(b fixed.Point26_6)             { r.ops = append(r.ops, "line") }
func (r *recorder) QuadBezier(b, c fixed.Point26_6)    { r.ops = append(r.ops, "quad") }
func (r *recorder) CubeBezier(b, c, d fixed.Point26_6) { r.ops = append(r.ops, "cube") }
func (r *recorder) Stop(closeLoop bool) {
	if closeLoop {
		r.ops = append(r.ops, "close")
	}
}

func TestAddTo(t *testing.T) {
	p, err := ParsePathData("M0 0 L 1 1 Q 2 2 3 3 C 1 1 2 2 3 3 Z")
	require.NoError(t, err)
	var r recorder
	p.AddTo(&r)
	assert.Equal(t, []string{"start", "line", "quad", "cube", "close"}, r.ops)
}

func TestVertices(t *testing.T) {
	p, err := ParsePathData("M0 0 L10 0 L10 10")
	require.NoError(t, err)
	vs := p.Vertices()
	require.Len(t, vs, 3)
	assert.Equal(t, 0., vs[0].Angle())
	assert.InDelta(t, math.Pi/4, vs[1].Angle(), 1e-9)
	assert.InDelta(t, math.Pi/2, vs[2].Angle(), 1e-9)
	assert.Equal(t, 10., vs[2].X)
	assert.Equal(t, 10., vs[2].Y)
}
