package svgdraw

import (
	"math"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// createMarkers adds to d the markers placed on the vertices
// of path.
func (b *builder) createMarkers(d *Drawable, el *svgdom.Element, path svgpath.Path, viewport svgpath.Rect) {
	start, mid, end := el.Markers()
	if start == "" && mid == "" && end == "" {
		return
	}
	vertices := path.Vertices()
	last := len(vertices) - 1
	for i, v := range vertices {
		var ids []string
		if i == 0 {
			ids = append(ids, start)
		}
		if i > 0 && i < last {
			ids = append(ids, mid)
		}
		if i == last {
			ids = append(ids, end)
		}
		for _, id := range ids {
			marker := lookupKind(el, id, svgdom.KindMarker)
			if marker == nil {
				continue
			}
			if md := b.buildMarker(marker, el, v, viewport, d); md != nil {
				d.Markers = append(d.Markers, md)
				d.Disposable.Add(md)
			}
		}
	}
}

// buildMarker compiles an instance of marker at the vertex v of
// the owner element, or returns nil if there is nothing to draw.
func (b *builder) buildMarker(marker, owner *svgdom.Element, v svgpath.Vertex, viewport svgpath.Rect, parent *Drawable) *Drawable {
	if !b.enter(marker) {
		logger().Warn("recursive marker", "id", marker.ID)
		return nil
	}
	defer b.leave(marker)

	width := marker.MarkerWidth.ToDeviceValue(svgdom.Horizontal, marker, viewport)
	height := marker.MarkerHeight.ToDeviceValue(svgdom.Vertical, marker, viewport)
	if width <= 0 || height <= 0 {
		return nil
	}

	angle := marker.OrientAngle * math.Pi / 180
	if marker.OrientAuto {
		angle = v.Angle()
	}
	scale := 1.
	if marker.MarkerUnits == svgdom.StrokeWidthUnits {
		scale = owner.StrokeWidth().ToDeviceValue(svgdom.Other, owner, viewport)
	}

	viewBox := svgpath.ViewBoxTransform(marker.ViewBox, marker.AspectRatio, 0, 0, width, height)
	refX, refY := viewBox.Transform(
		marker.RefX.ToDeviceValue(svgdom.Horizontal, marker, viewport),
		marker.RefY.ToDeviceValue(svgdom.Vertical, marker, viewport),
	)

	d := &Drawable{
		Element:          marker,
		Parent:           parent,
		IgnoreAttributes: b.ignore,
		IsDrawable:       true,
		IsAntialias:      true,
		Transform:        svgpath.NewTranslation(v.X, v.Y).Rotate(angle).Scale(scale, scale).Translate(-refX, -refY),
	}
	switch marker.Attrs["overflow"] {
	case "visible", "auto":
	default:
		d.Clip = &svgpath.Rect{W: width, H: height}
	}

	content := &Drawable{
		Element:          marker,
		Parent:           d,
		IgnoreAttributes: b.ignore,
		IsDrawable:       true,
		IsAntialias:      true,
		Transform:        viewBox,
	}
	contentViewport := svgpath.Rect{W: width, H: height}
	if !marker.ViewBox.IsEmpty() {
		contentViewport = marker.ViewBox
	}
	b.buildChildren(content, marker.Children, contentViewport)
	if len(content.Children) == 0 {
		content.Dispose()
		return nil
	}
	content.TransformedBounds = viewBox.MapRect(content.childrenBounds())
	d.addChild(content)
	d.TransformedBounds = d.Transform.MapRect(content.TransformedBounds)
	return d
}
