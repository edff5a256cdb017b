package svgdraw

import (
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// patternAttrs are the attributes of a pattern, each resolved
// independently along the href chain.
type patternAttrs struct {
	content             *svgdom.Element
	x, y, width, height svgdom.Unit
	units, contentUnits svgdom.Units
	viewBox             svgpath.Rect
	aspectRatio         svgpath.AspectRatio
}

// patternChain returns the pattern and the patterns it inherits
// from through href, stopping at the first cycle.
func patternChain(el *svgdom.Element, pattern *svgdom.Pattern) []*svgdom.Pattern {
	var (
		out     []*svgdom.Pattern
		visited = map[*svgdom.Pattern]bool{}
	)
	current := pattern
	for current != nil && !visited[current] {
		visited[current] = true
		out = append(out, current)
		current = nil
		if href := out[len(out)-1].Href; href != "" {
			if target := el.Lookup(href); target != nil {
				current, _ = target.Server.(*svgdom.Pattern)
			}
		}
	}
	return out
}

// resolvePatternAttrs walks the chain of patterns, selecting for each
// attribute the first pattern defining it. The boolean is false
// if the content, width or height is missing.
func resolvePatternAttrs(chain []*svgdom.Pattern) (patternAttrs, bool) {
	out := patternAttrs{
		x:            svgdom.User(0),
		y:            svgdom.User(0),
		units:        svgdom.ObjectBoundingBox,
		contentUnits: svgdom.UserSpaceOnUse,
	}
	var hasX, hasY, hasW, hasH, hasUnits, hasContentUnits, hasViewBox, hasAspect bool
	for _, p := range chain {
		if out.content == nil && p.Element != nil && len(p.Element.Children) > 0 {
			out.content = p.Element
		}
		if !hasX && p.X.IsSet() {
			out.x, hasX = p.X, true
		}
		if !hasY && p.Y.IsSet() {
			out.y, hasY = p.Y, true
		}
		if !hasW && p.Width.IsSet() {
			out.width, hasW = p.Width, true
		}
		if !hasH && p.Height.IsSet() {
			out.height, hasH = p.Height, true
		}
		if !hasUnits && p.Units != svgdom.UnitsInherit {
			out.units, hasUnits = p.Units, true
		}
		if !hasContentUnits && p.ContentUnits != svgdom.UnitsInherit {
			out.contentUnits, hasContentUnits = p.ContentUnits, true
		}
		if !hasViewBox && !p.ViewBox.IsEmpty() {
			out.viewBox, hasViewBox = p.ViewBox, true
		}
		if !hasAspect && p.AspectRatio != nil {
			out.aspectRatio, hasAspect = *p.AspectRatio, true
		}
	}
	return out, out.content != nil && hasW && hasH
}

// patternTile returns the tile rectangle, in the parent coordinate system.
func patternTile(attrs patternAttrs, patEl *svgdom.Element, bounds svgpath.Rect) svgpath.Rect {
	x := attrs.x.ToDeviceValue(svgdom.Horizontal, patEl, bounds)
	y := attrs.y.ToDeviceValue(svgdom.Vertical, patEl, bounds)
	w := attrs.width.ToDeviceValue(svgdom.Horizontal, patEl, bounds)
	h := attrs.height.ToDeviceValue(svgdom.Vertical, patEl, bounds)
	if w <= 0 || h <= 0 {
		return svgpath.Rect{}
	}

	if attrs.units == svgdom.ObjectBoundingBox {
		// percentages are already relative to the bounds
		if attrs.x.Type != svgdom.UnitPercentage {
			x *= bounds.W
		}
		if attrs.y.Type != svgdom.UnitPercentage {
			y *= bounds.H
		}
		if attrs.width.Type != svgdom.UnitPercentage {
			w *= bounds.W
		}
		if attrs.height.Type != svgdom.UnitPercentage {
			h *= bounds.H
		}
		x += bounds.X
		y += bounds.Y
	}
	return svgpath.Rect{X: x, Y: y, W: w, H: h}
}

// createPicture records the content of a pattern into a tile
// and returns a shader repeating it, or nil if the pattern can't be painted.
// The picture is owned by the shader.
func (b *builder) createPicture(el *svgdom.Element, pattern *svgdom.Pattern, bounds svgpath.Rect, opacity float64) canvas.Shader {
	attrs, ok := resolvePatternAttrs(patternChain(el, pattern))
	if !ok {
		return nil
	}
	tile := patternTile(attrs, pattern.Element, bounds)
	if tile.IsEmpty() {
		return nil
	}
	// a pattern used inside its own content
	if !b.enter(attrs.content) {
		logger().Warn("recursive pattern", "id", attrs.content.ID)
		return nil
	}
	defer b.leave(attrs.content)

	matrix := pattern.Transform.Mult(svgpath.NewTranslation(tile.X, tile.Y))

	pictureTransform := svgpath.Identity
	if !attrs.viewBox.IsEmpty() {
		pictureTransform = svgpath.ViewBoxTransform(attrs.viewBox, attrs.aspectRatio, 0, 0, tile.W, tile.H)
	} else if attrs.contentUnits == svgdom.ObjectBoundingBox {
		pictureTransform = svgpath.NewScale(bounds.W, bounds.H)
	}

	pic := b.recordPicture(attrs.content.Children, tile.W, tile.H, pictureTransform, opacity)
	return canvas.NewPictureShader(pic, canvas.Repeat, canvas.Repeat, matrix, pic.CullRect)
}
