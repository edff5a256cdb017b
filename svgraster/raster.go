// Implements a raster backend to render SVG images,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ canvas.Canvas = (*Renderer)(nil) // assert interface conformance

// state is the part of the renderer saved by Save and SaveLayer.
type state struct {
	matrix svgpath.Matrix2D
	clip   *image.Alpha

	// set for SaveLayer
	isLayer bool
	dst     *image.RGBA // the destination of the layer
	paint   *canvas.Paint
}

// Renderer is a canvas.Canvas drawing into an RGBA image.
// Paths are rasterized into a scratch image, which is then composited
// onto the current layer through the clip mask.
type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance

	bounds  image.Rectangle
	scratch *image.RGBA // target of the scanner

	dst    *image.RGBA // current layer
	matrix svgpath.Matrix2D
	clip   *image.Alpha // nil means no clipping
	stack  []state
}

// NewRenderer returns a renderer drawing into dst.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(dst *image.RGBA) *Renderer {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	scratch := image.NewRGBA(bounds)
	scanner := rasterx.NewScannerGV(w, h, scratch, bounds)
	return &Renderer{
		dasher:  rasterx.NewDasher(w, h, scanner),
		filler:  rasterx.NewFiller(w, h, scanner),
		bounds:  bounds,
		scratch: scratch,
		dst:     dst,
		matrix:  svgpath.Identity,
	}
}

func (rd *Renderer) Clear() {
	rd.dasher.Clear()
	rd.filler.Clear()
}

func (rd *Renderer) SetWinding(useNonZeroWinding bool) {
	rd.dasher.SetWinding(useNonZeroWinding)
	rd.filler.SetWinding(useNonZeroWinding)
}

func (rd *Renderer) Save() {
	rd.stack = append(rd.stack, state{matrix: rd.matrix, clip: rd.clip})
}

func (rd *Renderer) SaveLayer(paint *canvas.Paint) {
	rd.stack = append(rd.stack, state{matrix: rd.matrix, clip: rd.clip, isLayer: true, dst: rd.dst, paint: paint})
	rd.dst = image.NewRGBA(rd.bounds)
}

func (rd *Renderer) Restore() {
	if len(rd.stack) == 0 {
		svgdom.Logger().Debug("unbalanced restore")
		return
	}
	st := rd.stack[len(rd.stack)-1]
	rd.stack = rd.stack[:len(rd.stack)-1]
	if st.isLayer {
		composeLayer(st.dst, rd.dst, st.paint, deviceScale(st.matrix))
		rd.dst = st.dst
	}
	rd.matrix, rd.clip = st.matrix, st.clip
}

func (rd *Renderer) SetMatrix(m svgpath.Matrix2D) { rd.matrix = m }

func (rd *Renderer) Concat(m svgpath.Matrix2D) { rd.matrix = rd.matrix.Mult(m) }

func (rd *Renderer) TotalMatrix() svgpath.Matrix2D { return rd.matrix }

func (rd *Renderer) ClipRect(r svgpath.Rect) {
	var p svgpath.Path
	p.AddRect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	rd.ClipPath(canvas.NewPath(p, canvas.Winding), true)
}

// ClipPath intersects the clip mask with the coverage of p.
// Antialiasing is always enabled.
func (rd *Renderer) ClipPath(p *canvas.Path, _ bool) {
	rd.Clear()
	rd.SetWinding(p.FillType == canvas.Winding)
	p.Ops.Transform(rd.matrix).AddTo(rd.filler)
	rd.filler.SetColor(color.White)
	extent := rd.extent()
	rd.filler.Draw()

	mask := image.NewAlpha(rd.bounds)
	for y := extent.Min.Y; y < extent.Max.Y; y++ {
		for x := extent.Min.X; x < extent.Max.X; x++ {
			a := rd.scratch.RGBAAt(x, y).A
			if rd.clip != nil {
				a = uint8(uint16(a) * uint16(rd.clip.AlphaAt(x, y).A) / 0xff)
			}
			mask.SetAlpha(x, y, color.Alpha{A: a})
		}
	}
	rd.clearScratch(extent)
	rd.clip = mask
}

// extent returns the pixels touched by the current path,
// with a margin for antialiasing.
func (rd *Renderer) extent() image.Rectangle {
	ext := rd.filler.Scanner.GetPathExtent()
	r := image.Rect(ext.Min.X.Floor()-1, ext.Min.Y.Floor()-1, ext.Max.X.Ceil()+1, ext.Max.Y.Ceil()+1)
	return r.Intersect(rd.bounds)
}

func (rd *Renderer) clearScratch(r image.Rectangle) {
	draw.Draw(rd.scratch, r, image.Transparent, image.Point{}, draw.Src)
}

// mask returns the clip mask as an image, with a nil interface
// when there is no clip.
func (rd *Renderer) mask() image.Image {
	if rd.clip == nil {
		return nil
	}
	return rd.clip
}

// compose blends the scratch image onto the current layer.
func (rd *Renderer) compose(r image.Rectangle) {
	draw.DrawMask(rd.dst, r, rd.scratch, r.Min, rd.mask(), r.Min, draw.Over)
	rd.clearScratch(r)
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		canvas.MiterJoin: rasterx.Miter,
		canvas.RoundJoin: rasterx.Round,
		canvas.BevelJoin: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		canvas.ButtCap:   rasterx.ButtCap,
		canvas.RoundCap:  rasterx.RoundCap,
		canvas.SquareCap: rasterx.SquareCap,
	}
)

// deviceScale returns the mean scaling factor of m, used to
// convert lengths (stroke widths, blur radius) to device space.
func deviceScale(m svgpath.Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

func (rd *Renderer) setStrokeOptions(paint *canvas.Paint) {
	scale := deviceScale(rd.matrix)
	var (
		dash   []float64
		offset float64
	)
	if pe := paint.PathEffect; pe != nil {
		dash = make([]float64, len(pe.Intervals))
		for i, v := range pe.Intervals {
			dash[i] = v * scale
		}
		offset = pe.Phase * scale
	}
	rd.dasher.SetStroke(
		fixed.Int26_6(paint.StrokeWidth*scale*64), fixed.Int26_6(paint.StrokeMiter*64),
		capToFunc[paint.StrokeCap], capToFunc[paint.StrokeCap], rasterx.FlatGap,
		joinToJoin[paint.StrokeJoin], dash, offset,
	)
}

func (rd *Renderer) fill(p *canvas.Path, paint *canvas.Paint) {
	rd.Clear()
	rd.SetWinding(p.FillType == canvas.Winding)
	p.Ops.Transform(rd.matrix).AddTo(rd.filler)
	rd.filler.SetColor(rd.colorSource(paint))
	r := rd.extent()
	rd.filler.Draw()
	rd.compose(r)
}

func (rd *Renderer) stroke(p *canvas.Path, paint *canvas.Paint) {
	if paint.StrokeWidth <= 0 {
		return
	}
	rd.Clear()
	rd.SetWinding(true)
	rd.setStrokeOptions(paint)
	p.Ops.Transform(rd.matrix).AddTo(rd.dasher)
	rd.dasher.SetColor(rd.colorSource(paint))
	r := rd.extent()
	rd.dasher.Draw()
	rd.compose(r)
}

func (rd *Renderer) DrawPath(p *canvas.Path, paint *canvas.Paint) {
	if p.IsEmpty() || paint == nil {
		return
	}
	switch paint.Style {
	case canvas.Fill:
		rd.fill(p, paint)
	case canvas.Stroke:
		rd.stroke(p, paint)
	case canvas.StrokeAndFill:
		rd.fill(p, paint)
		rd.stroke(p, paint)
	}
}

func (rd *Renderer) DrawPicture(pic *canvas.Picture) { pic.Playback(rd) }
