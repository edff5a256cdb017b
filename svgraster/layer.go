package svgraster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgpath"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// composeLayer applies the filters of paint to layer and
// blends it onto dst. scale converts blur sigmas to pixels.
func composeLayer(dst, layer *image.RGBA, paint *canvas.Paint, scale float64) {
	if paint == nil {
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
		return
	}
	if f := paint.ImageFilter; f != nil {
		// bild only supports isotropic blurs
		if radius := (f.SigmaX + f.SigmaY) / 2 * scale; radius > 0 {
			layer = blur.Gaussian(layer, radius)
		}
	}
	if paint.ColorFilter == canvas.LumaColorFilter {
		lumaToAlpha(layer)
	}

	alpha := paint.Color.A
	switch paint.BlendMode {
	case canvas.DstIn:
		dstIn(dst, layer, alpha)
	default:
		draw.DrawMask(dst, dst.Bounds(), layer, layer.Bounds().Min,
			image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
	}
}

// lumaToAlpha replaces each pixel by a black pixel whose
// opacity is the luminance of the original one.
func lumaToAlpha(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
			img.SetRGBA(x, y, color.RGBA{A: canvas.Luminance(c)})
		}
	}
}

// dstIn scales the pixels of dst by the opacity of src,
// itself scaled by alpha.
func dstIn(dst, src *image.RGBA, alpha uint8) {
	b := dst.Bounds().Intersect(src.Bounds())
	scale := func(v uint8, a uint32) uint8 { return uint8(uint32(v) * a / (0xff * 0xff)) }
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint32(src.RGBAAt(x, y).A) * uint32(alpha)
			c := dst.RGBAAt(x, y)
			dst.SetRGBA(x, y, color.RGBA{R: scale(c.R, a), G: scale(c.G, a), B: scale(c.B, a), A: scale(c.A, a)})
		}
	}
	// outside of src, the content is removed
	for _, r := range [...]image.Rectangle{
		image.Rect(dst.Rect.Min.X, dst.Rect.Min.Y, dst.Rect.Max.X, b.Min.Y),
		image.Rect(dst.Rect.Min.X, b.Max.Y, dst.Rect.Max.X, dst.Rect.Max.Y),
		image.Rect(dst.Rect.Min.X, b.Min.Y, b.Min.X, b.Max.Y),
		image.Rect(b.Max.X, b.Min.Y, dst.Rect.Max.X, b.Max.Y),
	} {
		if !r.Empty() {
			draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
		}
	}
}

// DrawImage draws img, scaled into the rectangle dst (in user space),
// with a bilinear interpolation.
func (rd *Renderer) DrawImage(img image.Image, dst svgpath.Rect, paint *canvas.Paint) {
	src := img.Bounds()
	if src.Empty() || dst.IsEmpty() {
		return
	}
	m := rd.matrix.
		Translate(dst.X, dst.Y).
		Scale(dst.W/float64(src.Dx()), dst.H/float64(src.Dy())).
		Translate(-float64(src.Min.X), -float64(src.Min.Y))
	aff := f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}

	opts := &xdraw.Options{DstMask: rd.mask()}
	if paint != nil && paint.Color.A != 0xff {
		opts.SrcMask = image.NewUniform(color.Alpha{A: paint.Color.A})
	}
	xdraw.BiLinear.Transform(rd.dst, aff, img, src, xdraw.Over, opts)
}
