package svgdraw

import (
	"sync"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

var (
	defaultFonts     *canvas.FaceManager
	defaultFontsOnce sync.Once
)

// orDefaultFonts returns fonts, or the shared manager of
// the embedded Go fonts if fonts is nil.
func orDefaultFonts(fonts canvas.FontManager) canvas.FontManager {
	if fonts != nil {
		return fonts
	}
	defaultFontsOnce.Do(func() { defaultFonts = canvas.NewFontManager() })
	return defaultFonts
}

// RecordPicture records the given elements into a picture of size
// width x height, after applying matrix, and inside a transparency
// layer if opacity is less than 1.
// Elements which can't be compiled are skipped.
// The drawables are owned by the returned picture.
func RecordPicture(elements []*svgdom.Element, width, height float64, matrix svgpath.Matrix2D,
	opacity float64, ignore Attributes, fonts canvas.FontManager,
) *canvas.Picture {
	return newBuilder(ignore, orDefaultFonts(fonts)).recordPicture(elements, width, height, matrix, opacity)
}

func (b *builder) recordPicture(elements []*svgdom.Element, width, height float64, matrix svgpath.Matrix2D, opacity float64) *canvas.Picture {
	bounds := svgpath.Rect{W: width, H: height}

	var (
		recorder canvas.PictureRecorder
		owned    []*Drawable
	)
	c := recorder.BeginRecording(bounds)
	c.SetMatrix(matrix)

	var layer *canvas.Paint
	if !b.ignore.Has(IgnoreOpacity) {
		layer = opacityPaint(opacity)
	}
	if layer != nil {
		c.SaveLayer(layer)
	}

	for _, el := range elements {
		d, err := b.build(el, bounds, nil)
		if err != nil {
			logger().Warn("skipping element", "element", el.Tag, "id", el.ID, "error", err)
			continue
		}
		d.Draw(c)
		owned = append(owned, d)
	}

	if layer != nil {
		c.Restore()
	}

	pic := recorder.EndRecording()
	if layer != nil {
		pic.Attach(layer)
	}
	for _, d := range owned {
		pic.Attach(d)
	}
	return pic
}

// Paint draws the element root (usually the root <svg> element) onto c,
// scaled by scale. viewport is the rectangle used to resolve percentages
// of the outermost element. fonts may be nil to use the embedded Go fonts.
//
// The compiled resources are released when returning, so c must
// consume the operations immediately : use NewPicture to keep
// a recording.
func Paint(c canvas.Canvas, root *svgdom.Element, viewport svgpath.Rect, scale float64,
	ignore Attributes, fonts canvas.FontManager,
) error {
	d, err := NewDrawable(root, viewport, ignore, fonts)
	if err != nil {
		return err
	}
	defer d.Dispose()

	c.Save()
	c.Concat(svgpath.NewScale(scale, scale))
	d.Draw(c)
	c.Restore()
	return nil
}

// NewPicture compiles and records the document, returning the
// picture, which owns the compiled resources, and the bounds of its content.
// The picture size is given by the width and height of the document.
func NewPicture(doc *svgdom.Document, ignore Attributes, fonts canvas.FontManager) (*canvas.Picture, svgpath.Rect, error) {
	size := svgpath.Rect{W: doc.Width(), H: doc.Height()}
	d, err := NewDrawable(doc.Root, size, ignore, fonts)
	if err != nil {
		return nil, svgpath.Rect{}, err
	}

	var recorder canvas.PictureRecorder
	c := recorder.BeginRecording(size)
	d.Draw(c)
	pic := recorder.EndRecording()
	pic.Attach(d)
	return pic, d.TransformedBounds, nil
}
