package svgdraw

import (
	"image"
	"strings"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// Drawable is an element compiled into drawing commands.
// It owns the paints, shaders and sub-drawables created for
// it, which are released by Dispose.
type Drawable struct {
	Element *svgdom.Element
	// Parent is not owned.
	Parent           *Drawable
	IgnoreAttributes Attributes

	// IsDrawable is false when nothing has to be painted : Draw
	// is then a no-op.
	IsDrawable  bool
	IsAntialias bool

	// Transform is applied before drawing the content.
	Transform svgpath.Matrix2D
	// TransformedBounds are the bounds of the content, in the parent
	// coordinate system.
	TransformedBounds svgpath.Rect

	// Path is nil for containers.
	Path         *canvas.Path
	Fill, Stroke *canvas.Paint

	Children []*Drawable
	Markers  []*Drawable

	Image     image.Image
	ImageRect svgpath.Rect

	// Overflow clips the drawable, in the parent coordinate system.
	Overflow *svgpath.Rect
	// Clip clips the content, in the local coordinate system.
	Clip     *svgpath.Rect
	ClipPath *canvas.Path

	Mask      *Drawable
	MaskPaint *canvas.Paint
	MaskDstIn *canvas.Paint

	Opacity *canvas.Paint
	Filter  *canvas.Paint

	Disposable canvas.CompositeDisposable
}

// Dispose releases the resources owned by the drawable, and its
// sub-drawables.
func (d *Drawable) Dispose() { d.Disposable.Dispose() }

// Draw paints the drawable onto c. The state of c is restored
// when returning.
func (d *Drawable) Draw(c canvas.Canvas) {
	if d == nil || !d.IsDrawable {
		return
	}
	ignore := d.IgnoreAttributes

	c.Save()

	if d.Overflow != nil {
		c.ClipRect(*d.Overflow)
	}
	c.Concat(d.Transform)
	if d.Clip != nil {
		c.ClipRect(*d.Clip)
	}
	if d.ClipPath != nil && !ignore.Has(IgnoreClipPath) {
		c.ClipPath(d.ClipPath, d.IsAntialias)
	}

	enableMask := d.Mask != nil && !ignore.Has(IgnoreMask)
	if enableMask {
		c.SaveLayer(d.MaskPaint)
	}
	enableOpacity := d.Opacity != nil && !ignore.Has(IgnoreOpacity)
	if enableOpacity {
		c.SaveLayer(d.Opacity)
	}
	enableFilter := d.Filter != nil && !ignore.Has(IgnoreFilter)
	if enableFilter {
		c.SaveLayer(d.Filter)
	}

	d.onDraw(c)

	if enableFilter {
		c.Restore()
	}
	if enableOpacity {
		c.Restore()
	}
	if enableMask {
		c.SaveLayer(d.MaskDstIn)
		d.Mask.Draw(c)
		c.Restore()
		c.Restore()
	}

	c.Restore()
}

func (d *Drawable) onDraw(c canvas.Canvas) {
	if d.Image != nil {
		c.DrawImage(d.Image, d.ImageRect, nil)
	}
	if d.Path != nil {
		if d.Fill != nil {
			c.DrawPath(d.Path, d.Fill)
		}
		if d.Stroke != nil {
			c.DrawPath(d.Path, d.Stroke)
		}
	}
	for _, child := range d.Children {
		child.Draw(c)
	}
	for _, marker := range d.Markers {
		marker.Draw(c)
	}
}

// addChild takes ownership of child, which is drawn
// only if drawable.
func (d *Drawable) addChild(child *Drawable) {
	if child == nil {
		return
	}
	d.Disposable.Add(child)
	if child.IsDrawable {
		d.Children = append(d.Children, child)
	}
}

// childrenBounds returns the union of the bounds of the children,
// in the local coordinate system.
func (d *Drawable) childrenBounds() svgpath.Rect {
	var out svgpath.Rect
	for i, child := range d.Children {
		if i == 0 {
			out = child.TransformedBounds
		} else {
			out = out.Union(child.TransformedBounds)
		}
	}
	return out
}

// canDraw checks the display and visibility properties.
func canDraw(el *svgdom.Element, ignore Attributes) bool {
	visible := true
	if !ignore.Has(IgnoreVisibility) {
		switch el.Visibility() {
		case "hidden", "collapse":
			visible = false
		}
	}
	displayed := true
	if !ignore.Has(IgnoreDisplay) {
		displayed = el.Style.Display != "none"
	}
	return visible && displayed
}

// SystemLanguage is the language tested by the systemLanguage
// attribute.
var SystemLanguage = "en"

const featurePrefix = "http://www.w3.org/TR/SVG11/feature#"

// supportedFeatures lists the SVG 1.1 features (without prefix)
// accepted by requiredFeatures.
var supportedFeatures = map[string]bool{
	"SVG": true, "SVGDOM": true, "SVG-static": true, "SVGDOM-static": true,
	"CoreAttribute": true, "Structure": true, "BasicStructure": true,
	"ContainerAttribute": true, "ConditionalProcessing": true, "Image": true,
	"Style": true, "ViewportAttribute": true, "Shape": true, "Text": true,
	"BasicText": true, "PaintAttribute": true, "BasicPaintAttribute": true,
	"OpacityAttribute": true, "GraphicsAttribute": true, "BasicGraphicsAttribute": true,
	"Marker": true, "Gradient": true, "Pattern": true, "Clip": true,
	"BasicClip": true, "Mask": true, "XlinkAttribute": true,
}

// hasFeatures evaluates the conditional processing attributes.
func hasFeatures(el *svgdom.Element, ignore Attributes) bool {
	if !ignore.Has(IgnoreRequiredFeatures) && el.RequiredFeatures != nil {
		features := strings.Fields(*el.RequiredFeatures)
		if len(features) == 0 {
			return false
		}
		for _, f := range features {
			if !strings.HasPrefix(f, featurePrefix) || !supportedFeatures[strings.TrimPrefix(f, featurePrefix)] {
				return false
			}
		}
	}
	// no extension is supported
	if !ignore.Has(IgnoreRequiredExtensions) && el.RequiredExtensions != nil {
		return false
	}
	if !ignore.Has(IgnoreSystemLanguage) && el.SystemLanguage != nil {
		found := false
		for _, lang := range strings.Split(*el.SystemLanguage, ",") {
			lang = strings.TrimSpace(lang)
			if lang != "" && (strings.HasPrefix(SystemLanguage, lang) || strings.HasPrefix(lang, SystemLanguage)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// newDrawable returns the base drawable for el, with IsDrawable
// reflecting the conditional and display properties.
func (b *builder) newDrawable(el *svgdom.Element, parent *Drawable) *Drawable {
	return &Drawable{
		Element:          el,
		Parent:           parent,
		IgnoreAttributes: b.ignore,
		IsDrawable:       canDraw(el, b.ignore) && hasFeatures(el, b.ignore),
		IsAntialias:      isAntialias(el),
		Transform:        el.Transform,
	}
}

type factory func(b *builder, el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error)

var factories map[svgdom.Kind]factory

func init() {
	factories = map[svgdom.Kind]factory{
		svgdom.KindSVG:      (*builder).buildFragment,
		svgdom.KindGroup:    (*builder).buildGroup,
		svgdom.KindAnchor:   (*builder).buildGroup,
		svgdom.KindUse:      (*builder).buildUse,
		svgdom.KindSwitch:   (*builder).buildSwitch,
		svgdom.KindRect:     (*builder).buildGeometry,
		svgdom.KindCircle:   (*builder).buildGeometry,
		svgdom.KindEllipse:  (*builder).buildGeometry,
		svgdom.KindLine:     (*builder).buildGeometry,
		svgdom.KindPolyline: (*builder).buildGeometry,
		svgdom.KindPolygon:  (*builder).buildGeometry,
		svgdom.KindPath:     (*builder).buildGeometry,
		svgdom.KindText:     (*builder).buildText,
		svgdom.KindImage:    (*builder).buildImage,
	}
}

// build compiles el and its descendants. Non rendering elements
// (definitions, paint servers, symbols used directly...) yield a
// drawable which is not drawable.
// viewport is the rectangle percentages are relative to.
func (b *builder) build(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	fn := factories[el.Kind]
	if fn == nil {
		d := b.newDrawable(el, parent)
		d.IsDrawable = false
		return d, nil
	}
	return fn(b, el, viewport, parent)
}

// buildChildren adds the children of el to d. Children failing
// to compile are logged and skipped.
func (b *builder) buildChildren(d *Drawable, children []*svgdom.Element, viewport svgpath.Rect) {
	for _, child := range children {
		cd, err := b.build(child, viewport, d)
		if err != nil {
			logger().Warn("skipping element", "element", child.Tag, "id", child.ID, "error", err)
			continue
		}
		d.addChild(cd)
	}
}

// NewDrawable compiles el and its descendants. viewport is the
// rectangle used to resolve percentages. fonts may be nil to use
// the embedded Go fonts.
// The returned error wraps ErrStructural for malformed elements.
func NewDrawable(el *svgdom.Element, viewport svgpath.Rect, ignore Attributes, fonts canvas.FontManager) (*Drawable, error) {
	return newBuilder(ignore, orDefaultFonts(fonts)).build(el, viewport, nil)
}
