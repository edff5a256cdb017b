package svgdraw

import (
	"strings"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// bboxMatrix maps the unit square onto bounds.
func bboxMatrix(bounds svgpath.Rect) svgpath.Matrix2D {
	return svgpath.Matrix2D{A: bounds.W, D: bounds.H, E: bounds.X, F: bounds.Y}
}

// setEffects resolves the clip path, mask, opacity and filter
// of el. bounds are the bounds of the content, before the
// transform of el.
func (b *builder) setEffects(d *Drawable, el *svgdom.Element, bounds, viewport svgpath.Rect) {
	if !b.ignore.Has(IgnoreClipPath) {
		if clip := b.createClipPath(el, bounds, viewport); clip != nil {
			d.ClipPath = clip
			d.Disposable.Add(clip)
		}
	}
	if !b.ignore.Has(IgnoreMask) {
		b.createMask(d, el, bounds, viewport)
	}
	if !b.ignore.Has(IgnoreOpacity) {
		d.Opacity = elementOpacityPaint(el, &d.Disposable)
	}
	if !b.ignore.Has(IgnoreFilter) {
		d.Filter = createFilter(el, bounds, &d.Disposable)
	}
}

// lookupKind returns the element referenced by id, if it
// has the given kind.
func lookupKind(el *svgdom.Element, id string, kind svgdom.Kind) *svgdom.Element {
	if id == "" {
		return nil
	}
	target := el.Lookup(id)
	if target == nil || target.Kind != kind {
		logger().Warn("invalid reference", "id", id, "expected", kind.String())
		return nil
	}
	return target
}

// createClipPath returns the union of the geometries of the
// clipPath referenced by el, or nil.
// An empty clip path clips everything.
func (b *builder) createClipPath(el *svgdom.Element, bounds, viewport svgpath.Rect) *canvas.Path {
	target := lookupKind(el, el.Style.ClipPath, svgdom.KindClipPath)
	if target == nil {
		return nil
	}
	if !b.enter(target) {
		logger().Warn("recursive clip path", "id", target.ID)
		return nil
	}
	defer b.leave(target)

	var (
		out   svgpath.Path
		rules []svgdom.FillRule
	)
	for _, child := range target.Children {
		geom, ok := b.clipGeometry(child, viewport)
		if !ok {
			continue
		}
		out = append(out, geom...)
		rules = append(rules, child.ClipRule())
	}

	m := target.Transform
	if target.ContentUnits == svgdom.ObjectBoundingBox {
		m = m.Mult(bboxMatrix(bounds))
	}
	if !m.IsIdentity() {
		out = out.Transform(m)
	}

	fillType := canvas.Winding
	if len(rules) == 1 {
		fillType = fillTypeOf(rules[0])
	}
	return canvas.NewPath(out, fillType)
}

// clipGeometry returns the outline of a child of a clipPath,
// transformed in the clip path coordinates.
func (b *builder) clipGeometry(child *svgdom.Element, viewport svgpath.Rect) (svgpath.Path, bool) {
	if !canDraw(child, b.ignore) || !hasFeatures(child, b.ignore) {
		return nil, false
	}
	var geom svgpath.Path
	switch child.Kind {
	case svgdom.KindRect, svgdom.KindCircle, svgdom.KindEllipse, svgdom.KindLine,
		svgdom.KindPolyline, svgdom.KindPolygon, svgdom.KindPath:
		var err error
		geom, err = outline(child, viewport)
		if err != nil {
			logger().Warn("invalid clip path child", "element", child.Tag, "error", err)
			return nil, false
		}
	case svgdom.KindText:
		d, err := b.buildText(child, viewport, nil)
		if err != nil || !d.IsDrawable {
			return nil, false
		}
		for _, run := range d.Children {
			geom = appendOutlines(geom, run, svgpath.Identity)
		}
		d.Dispose()
		// the transform of the text is applied below
	case svgdom.KindUse:
		target := child.Lookup(child.Href)
		if target == nil || !b.enter(target) {
			return nil, false
		}
		defer b.leave(target)
		inner, ok := b.clipGeometry(target.CloneUnder(child), viewport)
		if !ok {
			return nil, false
		}
		x := child.X.ToDeviceValue(svgdom.Horizontal, child, viewport)
		y := child.Y.ToDeviceValue(svgdom.Vertical, child, viewport)
		geom = inner.Transform(svgpath.NewTranslation(x, y))
	default:
		return nil, false
	}
	if !child.Transform.IsIdentity() {
		geom = geom.Transform(child.Transform)
	}
	return geom, true
}

// appendOutlines adds the paths of d and its descendants, mapped
// by m, to out.
func appendOutlines(out svgpath.Path, d *Drawable, m svgpath.Matrix2D) svgpath.Path {
	m = m.Mult(d.Transform)
	if d.Path != nil {
		out = append(out, d.Path.Ops.Transform(m)...)
	}
	for _, child := range d.Children {
		out = appendOutlines(out, child, m)
	}
	return out
}

// unitRegion resolves a region attribute, expressed either in user
// space or as a fraction of the bounding box.
func unitRegion(u svgdom.Unit, def float64, rt svgdom.RenderingType, el *svgdom.Element, units svgdom.Units, bounds, viewport svgpath.Rect) float64 {
	if units == svgdom.ObjectBoundingBox {
		v := def
		if u.IsSet() {
			v = u.Value
			if u.Type == svgdom.UnitPercentage {
				v /= 100
			}
		}
		if rt == svgdom.Horizontal {
			return v * bounds.W
		}
		return v * bounds.H
	}
	if !u.IsSet() {
		if rt == svgdom.Horizontal {
			return def * viewport.W
		}
		return def * viewport.H
	}
	return u.ToDeviceValue(rt, el, viewport)
}

// maskRegion returns the area affected by the mask, which defaults
// to 10% around the bounding box.
func maskRegion(mask *svgdom.Element, bounds, viewport svgpath.Rect) svgpath.Rect {
	units := mask.ContentUnits
	r := svgpath.Rect{
		X: unitRegion(mask.X, -0.1, svgdom.Horizontal, mask, units, bounds, viewport),
		Y: unitRegion(mask.Y, -0.1, svgdom.Vertical, mask, units, bounds, viewport),
		W: unitRegion(mask.Width, 1.2, svgdom.Horizontal, mask, units, bounds, viewport),
		H: unitRegion(mask.Height, 1.2, svgdom.Vertical, mask, units, bounds, viewport),
	}
	if units == svgdom.ObjectBoundingBox {
		r.X += bounds.X
		r.Y += bounds.Y
	}
	return r
}

// createMask compiles the mask referenced by el, if any.
func (b *builder) createMask(d *Drawable, el *svgdom.Element, bounds, viewport svgpath.Rect) {
	target := lookupKind(el, el.Style.Mask, svgdom.KindMask)
	if target == nil {
		return
	}
	if !b.enter(target) {
		logger().Warn("recursive mask", "id", target.ID)
		return
	}
	defer b.leave(target)

	region := maskRegion(target, bounds, viewport)
	mask := &Drawable{
		Element:          target,
		Parent:           d,
		IgnoreAttributes: b.ignore,
		IsDrawable:       true,
		IsAntialias:      true,
		Transform:        svgpath.Identity,
		Clip:             &region,
	}
	content := &Drawable{
		Element:          target,
		Parent:           mask,
		IgnoreAttributes: b.ignore,
		IsDrawable:       true,
		IsAntialias:      true,
		Transform:        svgpath.Identity,
	}
	if target.ChildUnits == svgdom.ObjectBoundingBox {
		content.Transform = bboxMatrix(bounds)
	}
	b.buildChildren(content, target.Children, viewport)
	mask.addChild(content)
	mask.TransformedBounds = region

	d.Mask = mask
	d.Disposable.Add(mask)

	d.MaskPaint = canvas.NewPaint()
	d.MaskPaint.Style = canvas.StrokeAndFill
	d.Disposable.Add(d.MaskPaint)

	d.MaskDstIn = canvas.NewPaint()
	d.MaskDstIn.Style = canvas.StrokeAndFill
	d.MaskDstIn.BlendMode = canvas.DstIn
	d.MaskDstIn.ColorFilter = canvas.LumaColorFilter
	d.Disposable.Add(d.MaskDstIn)
}

// createFilter returns the layer paint of the filter referenced
// by el, or nil. Only Gaussian blurs are supported : other primitives
// are ignored.
func createFilter(el *svgdom.Element, bounds svgpath.Rect, cd *canvas.CompositeDisposable) *canvas.Paint {
	target := lookupKind(el, el.Style.Filter, svgdom.KindFilter)
	if target == nil {
		return nil
	}
	for _, child := range target.Children {
		if child.Kind != svgdom.KindFeGaussianBlur {
			if strings.HasPrefix(child.Tag, "fe") {
				logger().Debug("unsupported filter primitive", "primitive", child.Tag)
			}
			continue
		}
		sx, sy := child.StdDeviationX, child.StdDeviationY
		if target.ChildUnits == svgdom.ObjectBoundingBox {
			sx, sy = sx*bounds.W, sy*bounds.H
		}
		if sx <= 0 && sy <= 0 {
			// the primitive is disabled
			return nil
		}
		blur := &canvas.BlurImageFilter{SigmaX: sx, SigmaY: sy}
		cd.Add(blur)
		paint := canvas.NewPaint()
		paint.Style = canvas.StrokeAndFill
		paint.ImageFilter = blur
		cd.Add(paint)
		return paint
	}
	return nil
}
