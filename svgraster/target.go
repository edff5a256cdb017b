package svgraster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgdraw"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// Options configures the rendering.
type Options struct {
	// Ignore disables some SVG features.
	Ignore svgdraw.Attributes
	// Fonts is used for text elements. If nil, the Go fonts are used.
	Fonts canvas.FontManager
	// Background fills the image before drawing. Nil means transparent.
	Background color.Color
}

// Target renders documents into an RGBA image, which is
// reused between frames of the same pixel size.
// A Target is not safe for concurrent use.
type Target struct {
	Options

	// IgnorePixelScaling renders at scale 1, whatever
	// the scale passed to Render.
	IgnorePixelScaling bool

	img *image.RGBA
}

// Render draws doc into an image of width x height units, scaled by scale.
// The returned image is owned by the target, and is overwritten by the
// next call to Render.
func (t *Target) Render(doc *svgdom.Document, width, height, scale float64) (*image.RGBA, error) {
	if t.IgnorePixelScaling {
		scale = 1
	}
	w, h := int(math.Ceil(width*scale)), int(math.Ceil(height*scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New("empty target size")
	}

	if t.img == nil || t.img.Rect.Dx() != w || t.img.Rect.Dy() != h {
		t.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		draw.Draw(t.img, t.img.Rect, image.Transparent, image.Point{}, draw.Src)
	}
	if t.Background != nil {
		draw.Draw(t.img, t.img.Rect, image.NewUniform(t.Background), image.Point{}, draw.Src)
	}

	rd := NewRenderer(t.img)
	viewport := svgpath.Rect{W: width, H: height}
	if err := svgdraw.Paint(rd, doc.Root, viewport, scale, t.Ignore, t.Fonts); err != nil {
		return nil, err
	}
	return t.img, nil
}

// RasterSVGToImage parses the SVG file and renders it
// into a new image, whose size is given by the document.
func RasterSVGToImage(svg io.Reader) (*image.RGBA, error) {
	doc, err := svgdom.Parse(svg, svgdom.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	var target Target
	return target.Render(doc, doc.Width(), doc.Height(), 1)
}
