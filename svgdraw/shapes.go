package svgdraw

import (
	"fmt"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

func fillTypeOf(rule svgdom.FillRule) canvas.FillType {
	if rule == svgdom.EvenOdd {
		return canvas.EvenOdd
	}
	return canvas.Winding
}

// setPaints resolves the fill and stroke of a shape, whose geometry
// has the given bounds. It returns false if the shape must not be drawn :
// when the stroke can't be resolved while the fill could, or when
// there is nothing to paint.
func (b *builder) setPaints(d *Drawable, el *svgdom.Element, bounds svgpath.Rect) bool {
	canDrawFill, canDrawStroke := true, true
	if isValidFill(el) {
		d.Fill = b.fillPaint(el, bounds, &d.Disposable)
		if d.Fill == nil {
			canDrawFill = false
		}
	}
	if isValidStroke(el, bounds) {
		d.Stroke = b.strokePaint(el, bounds, &d.Disposable)
		if d.Stroke == nil {
			canDrawStroke = false
		}
	}
	if canDrawFill && !canDrawStroke {
		return false
	}
	return d.Fill != nil || d.Stroke != nil
}

// buildShape compiles the geometric element el, whose outline in
// user space is path.
func (b *builder) buildShape(el *svgdom.Element, path svgpath.Path, viewport svgpath.Rect, parent *Drawable, withMarkers bool) *Drawable {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d
	}
	if path.IsEmpty() {
		d.IsDrawable = false
		return d
	}

	d.Path = canvas.NewPath(path, fillTypeOf(el.FillRule()))
	d.Disposable.Add(d.Path)
	bounds := path.Bounds()
	d.TransformedBounds = bounds

	if !b.setPaints(d, el, bounds) {
		d.IsDrawable = false
		return d
	}

	// markers extend the drawn area, not the object bounding box
	extent := bounds
	if withMarkers {
		b.createMarkers(d, el, path, viewport)
		for _, m := range d.Markers {
			extent = extent.Union(m.TransformedBounds)
		}
	}

	d.TransformedBounds = d.Transform.MapRect(extent)
	b.setEffects(d, el, bounds, viewport)
	return d
}

// hasMarkers returns true for the kinds accepting markers.
func hasMarkers(kind svgdom.Kind) bool {
	switch kind {
	case svgdom.KindLine, svgdom.KindPolyline, svgdom.KindPolygon, svgdom.KindPath:
		return true
	default:
		return false
	}
}

// buildGeometry compiles the basic shapes and paths.
func (b *builder) buildGeometry(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	path, err := outline(el, viewport)
	if err != nil {
		return nil, err
	}
	return b.buildShape(el, path, viewport, parent, hasMarkers(el.Kind)), nil
}

// outline returns the geometry of a shape element, in its user space.
// Degenerated shapes yield an empty path.
func outline(el *svgdom.Element, viewport svgpath.Rect) (svgpath.Path, error) {
	var path svgpath.Path
	switch el.Kind {
	case svgdom.KindRect:
		x := el.X.ToDeviceValue(svgdom.Horizontal, el, viewport)
		y := el.Y.ToDeviceValue(svgdom.Vertical, el, viewport)
		w := el.Width.ToDeviceValue(svgdom.Horizontal, el, viewport)
		h := el.Height.ToDeviceValue(svgdom.Vertical, el, viewport)
		if w <= 0 || h <= 0 {
			break
		}
		// an auto radius takes the other one
		rx := el.RX.ToDeviceValue(svgdom.Horizontal, el, viewport)
		ry := el.RY.ToDeviceValue(svgdom.Vertical, el, viewport)
		if !el.RX.IsSet() {
			rx = ry
		}
		if !el.RY.IsSet() {
			ry = rx
		}
		path.AddRoundRect(x, y, x+w, y+h, rx, ry)
	case svgdom.KindCircle:
		cx := el.CX.ToDeviceValue(svgdom.Horizontal, el, viewport)
		cy := el.CY.ToDeviceValue(svgdom.Vertical, el, viewport)
		r := el.R.ToDeviceValue(svgdom.Other, el, viewport)
		if r > 0 {
			path.AddEllipse(cx, cy, r, r)
		}
	case svgdom.KindEllipse:
		cx := el.CX.ToDeviceValue(svgdom.Horizontal, el, viewport)
		cy := el.CY.ToDeviceValue(svgdom.Vertical, el, viewport)
		rx := el.RX.ToDeviceValue(svgdom.Horizontal, el, viewport)
		ry := el.RY.ToDeviceValue(svgdom.Vertical, el, viewport)
		if !el.RX.IsSet() {
			rx = ry
		}
		if !el.RY.IsSet() {
			ry = rx
		}
		if rx > 0 && ry > 0 {
			path.AddEllipse(cx, cy, rx, ry)
		}
	case svgdom.KindLine:
		path.Start(svgpath.Point{X: el.X1.ToDeviceValue(svgdom.Horizontal, el, viewport), Y: el.Y1.ToDeviceValue(svgdom.Vertical, el, viewport)})
		path.Line(svgpath.Point{X: el.X2.ToDeviceValue(svgdom.Horizontal, el, viewport), Y: el.Y2.ToDeviceValue(svgdom.Vertical, el, viewport)})
		path.Stop(false)
	case svgdom.KindPolyline, svgdom.KindPolygon:
		if len(el.Points)%2 != 0 {
			return nil, fmt.Errorf("%s with %d coordinates: %w", el.Tag, len(el.Points), ErrStructural)
		}
		path.AddPolyline(el.Points, el.Kind == svgdom.KindPolygon)
	case svgdom.KindPath:
		path = el.PathData
	}
	return path, nil
}
