// Implements a PDF backend to render SVG images,
// by wrapping codeberg.org/go-pdf/fpdf.
//
// PDF has no offscreen layers : group opacity is approximated by
// the opacity of each drawing, masks and filters are ignored, and
// paints without PDF counterpart (patterns, multi stops gradients)
// are rasterized.
package svgpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/benoitkugler/svgpaint/svgraster"
)

var _ canvas.Canvas = (*Renderer)(nil) // assert interface conformance

func logger() *slog.Logger { return svgdom.Logger() }

type state struct {
	matrix svgpath.Matrix2D
	alpha  float64
	clips  int  // number of clipping operations to undo
	skip   bool // inside a mask layer
}

// Renderer is a canvas.Canvas writing to the current page of
// a PDF document. User space units are mapped to the document unit.
type Renderer struct {
	pdf *fpdf.Fpdf

	// RasterScale is the number of pixels per unit
	// used when rasterizing paints.
	RasterScale float64

	state
	stack  []state
	images int
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(pdf *fpdf.Fpdf) *Renderer {
	return &Renderer{
		pdf:         pdf,
		RasterScale: 2,
		state:       state{matrix: svgpath.Identity, alpha: 1},
	}
}

// writePath emits the path construction operators of p.
func writePath(pdf *fpdf.Fpdf, p svgpath.Path) {
	for _, op := range p {
		switch op := op.(type) {
		case svgpath.MoveTo:
			pdf.MoveTo(op.X, op.Y)
		case svgpath.LineTo:
			pdf.LineTo(op.X, op.Y)
		case svgpath.QuadTo:
			pdf.CurveTo(op[0].X, op[0].Y, op[1].X, op[1].Y)
		case svgpath.CubicTo:
			pdf.CurveBezierCubicTo(op[0].X, op[0].Y, op[1].X, op[1].Y, op[2].X, op[2].Y)
		case svgpath.Close:
			pdf.ClosePath()
		}
	}
}

func (rd *Renderer) Save() {
	rd.stack = append(rd.stack, rd.state)
	rd.clips = 0
}

func (rd *Renderer) SaveLayer(paint *canvas.Paint) {
	rd.Save()
	if paint == nil {
		return
	}
	switch {
	case paint.BlendMode == canvas.DstIn:
		// the content of the mask is not drawn
		rd.skip = true
		logger().Debug("masks are not supported in PDF output")
	case paint.ImageFilter != nil:
		logger().Debug("filters are not supported in PDF output")
	}
	rd.alpha *= paint.Alpha()
}

func (rd *Renderer) Restore() {
	if len(rd.stack) == 0 {
		return
	}
	for ; rd.clips > 0; rd.clips-- {
		rd.pdf.ClipEnd()
	}
	rd.state = rd.stack[len(rd.stack)-1]
	rd.stack = rd.stack[:len(rd.stack)-1]
}

func (rd *Renderer) SetMatrix(m svgpath.Matrix2D) { rd.matrix = m }

func (rd *Renderer) Concat(m svgpath.Matrix2D) { rd.matrix = rd.matrix.Mult(m) }

func (rd *Renderer) TotalMatrix() svgpath.Matrix2D { return rd.matrix }

func (rd *Renderer) ClipRect(r svgpath.Rect) {
	var p svgpath.Path
	p.AddRect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	rd.ClipPath(canvas.NewPath(p, canvas.Winding), true)
}

// ClipPath clips to the polygon approximating p. Paths made
// of several sub-paths are approximated by their bounding box.
func (rd *Renderer) ClipPath(p *canvas.Path, _ bool) {
	if rd.skip {
		return
	}
	ops := p.Ops.Transform(rd.matrix)
	polygons := flatten(ops)
	switch len(polygons) {
	case 0:
		// clip everything
		rd.pdf.ClipRect(0, 0, 0, 0, false)
	case 1:
		rd.pdf.ClipPolygon(polygons[0], false)
	default:
		b := ops.Bounds()
		rd.pdf.ClipRect(b.X, b.Y, b.W, b.H, false)
	}
	rd.clips++
}

func (rd *Renderer) setAlpha(a float64) {
	rd.pdf.SetAlpha(math.Max(0, math.Min(1, a*rd.alpha)), "Normal")
}

var (
	capStyles  = [...]string{canvas.ButtCap: "butt", canvas.RoundCap: "round", canvas.SquareCap: "square"}
	joinStyles = [...]string{canvas.MiterJoin: "miter", canvas.RoundJoin: "round", canvas.BevelJoin: "bevel"}
)

// deviceScale returns the mean scaling factor of m
func deviceScale(m svgpath.Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

func (rd *Renderer) DrawPath(p *canvas.Path, paint *canvas.Paint) {
	if rd.skip || p.IsEmpty() || paint == nil {
		return
	}
	if paint.Style != canvas.Stroke {
		rd.fill(p, paint)
	}
	if paint.Style != canvas.Fill && paint.StrokeWidth > 0 {
		rd.stroke(p, paint)
	}
}

func (rd *Renderer) fill(p *canvas.Path, paint *canvas.Paint) {
	ops := p.Ops.Transform(rd.matrix)
	switch shader := paint.Shader.(type) {
	case nil:
		c := paint.Color
		rd.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		rd.setAlpha(float64(c.A) / 0xff)
	case *canvas.ColorShader:
		c := shader.Color
		rd.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		rd.setAlpha(float64(c.A) / 0xff * paint.Alpha())
	case *canvas.LinearGradientShader:
		if rd.linearGradient(ops, shader, paint) {
			return
		}
		rd.rasterize(p, paint)
		return
	default:
		rd.rasterize(p, paint)
		return
	}
	writePath(rd.pdf, ops)
	if p.FillType == canvas.EvenOdd {
		rd.pdf.DrawPath("f*")
	} else {
		rd.pdf.DrawPath("f")
	}
}

func (rd *Renderer) stroke(p *canvas.Path, paint *canvas.Paint) {
	var c = paint.Color
	switch shader := paint.Shader.(type) {
	case nil:
	case *canvas.ColorShader:
		c = shader.Color
		c.A = uint8(float64(c.A) * paint.Alpha())
	default:
		rd.rasterize(p, paint)
		return
	}
	scale := deviceScale(rd.matrix)
	rd.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	rd.setAlpha(float64(c.A) / 0xff)
	rd.pdf.SetLineWidth(paint.StrokeWidth * scale)
	rd.pdf.SetLineCapStyle(capStyles[paint.StrokeCap])
	rd.pdf.SetLineJoinStyle(joinStyles[paint.StrokeJoin])
	if pe := paint.PathEffect; pe != nil {
		dash := make([]float64, len(pe.Intervals))
		for i, v := range pe.Intervals {
			dash[i] = v * scale
		}
		rd.pdf.SetDashPattern(dash, pe.Phase*scale)
	} else {
		rd.pdf.SetDashPattern(nil, 0)
	}
	writePath(rd.pdf, p.Ops.Transform(rd.matrix))
	rd.pdf.DrawPath("D")
}

// linearGradient paints the two stops gradients natively, returning
// false for the other ones.
func (rd *Renderer) linearGradient(ops svgpath.Path, shader *canvas.LinearGradientShader, paint *canvas.Paint) bool {
	if len(shader.Colors) != 2 || shader.Positions[0] != 0 || shader.Positions[1] != 1 ||
		shader.Mode != canvas.Clamp || shader.Colors[0].A != shader.Colors[1].A {
		return false
	}
	polygons := flatten(ops)
	if len(polygons) != 1 {
		return false
	}
	b := ops.Bounds()
	if b.IsEmpty() {
		return true
	}
	m := rd.matrix.Mult(shader.LocalMatrix)
	x1, y1 := m.Transform(shader.Start.X, shader.Start.Y)
	x2, y2 := m.Transform(shader.End.X, shader.End.Y)
	// the gradient vector is relative to the rectangle,
	// with the origin at the lower left corner
	rel := func(x, y float64) (float64, float64) {
		return (x - b.X) / b.W, 1 - (y-b.Y)/b.H
	}
	x1, y1 = rel(x1, y1)
	x2, y2 = rel(x2, y2)

	c1, c2 := shader.Colors[0], shader.Colors[1]
	rd.setAlpha(float64(c1.A) / 0xff * paint.Alpha())
	rd.pdf.ClipPolygon(polygons[0], false)
	rd.pdf.LinearGradient(b.X, b.Y, b.W, b.H,
		int(c1.R), int(c1.G), int(c1.B), int(c2.R), int(c2.G), int(c2.B),
		x1, y1, x2, y2)
	rd.pdf.ClipEnd()
	return true
}

// rasterize draws p with paint into an image, which is
// then embedded in the PDF.
func (rd *Renderer) rasterize(p *canvas.Path, paint *canvas.Paint) {
	bounds := rd.matrix.MapRect(p.Bounds())
	if paint.Style != canvas.Fill {
		margin := paint.StrokeWidth * deviceScale(rd.matrix)
		bounds = svgpath.Rect{X: bounds.X - margin, Y: bounds.Y - margin, W: bounds.W + 2*margin, H: bounds.H + 2*margin}
	}
	k := rd.RasterScale
	w, h := int(math.Ceil(bounds.W*k)), int(math.Ceil(bounds.H*k))
	if w <= 0 || h <= 0 {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	raster := svgraster.NewRenderer(img)
	raster.SetMatrix(svgpath.NewScale(k, k).Translate(-bounds.X, -bounds.Y).Mult(rd.matrix))
	raster.DrawPath(p, paint)
	rd.placeImage(img, bounds, 1)
}

// placeImage embeds img at the given rectangle, in device space.
func (rd *Renderer) placeImage(img image.Image, dst svgpath.Rect, alpha float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		rd.pdf.SetError(err)
		return
	}
	rd.images++
	name := fmt.Sprintf("svgpaint-image-%d", rd.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	rd.pdf.RegisterImageOptionsReader(name, opts, &buf)
	rd.setAlpha(alpha)
	rd.pdf.ImageOptions(name, dst.X, dst.Y, dst.W, dst.H, false, opts, 0, "")
}

// DrawImage places img in the bounding box of the transformed
// destination. Rotations and skews are not supported.
func (rd *Renderer) DrawImage(img image.Image, dst svgpath.Rect, paint *canvas.Paint) {
	if rd.skip || img.Bounds().Empty() || dst.IsEmpty() {
		return
	}
	alpha := 1.
	if paint != nil {
		alpha = paint.Alpha()
	}
	rd.placeImage(img, rd.matrix.MapRect(dst), alpha)
}

func (rd *Renderer) DrawPicture(pic *canvas.Picture) { pic.Playback(rd) }
