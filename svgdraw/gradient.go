package svgdraw

import (
	"image/color"
	"math"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// normalizeUnit converts percentages to fractions
// for the bounding box coordinate system.
func normalizeUnit(u svgdom.Unit, units svgdom.Units) svgdom.Unit {
	if u.Type == svgdom.UnitPercentage && units == svgdom.ObjectBoundingBox {
		return svgdom.User(u.Value / 100)
	}
	return u
}

// gradientChain returns the gradient and the gradients it inherits
// from through href, stopping at the first cycle.
func gradientChain(el *svgdom.Element, grad *svgdom.GradientServer) []*svgdom.GradientServer {
	var (
		out     []*svgdom.GradientServer
		visited = map[*svgdom.GradientServer]bool{}
	)
	for grad != nil && !visited[grad] {
		visited[grad] = true
		out = append(out, grad)
		if grad.Href == "" {
			break
		}
		grad = gradientOf(el.Lookup(grad.Href))
	}
	return out
}

// gradientOf returns the gradient defined by target, or nil.
func gradientOf(target *svgdom.Element) *svgdom.GradientServer {
	if target == nil {
		return nil
	}
	switch server := target.Server.(type) {
	case *svgdom.LinearGradient:
		return &server.GradientServer
	case *svgdom.RadialGradient:
		return &server.GradientServer
	}
	return nil
}

func stopsOf(grad *svgdom.GradientServer) []*svgdom.Element {
	if grad.Element == nil {
		return nil
	}
	var out []*svgdom.Element
	for _, child := range grad.Element.Children {
		if child.Kind == svgdom.KindStop {
			out = append(out, child)
		}
	}
	return out
}

// hasStops returns true if grad or one of the gradients
// it inherits from defines stops.
func hasStops(el *svgdom.Element, grad *svgdom.GradientServer) bool {
	for _, g := range gradientChain(el, grad) {
		if len(stopsOf(g)) > 0 {
			return true
		}
	}
	return false
}

// gradientStops resolves the colors and positions of the stops of grad.
// A gradient without stops uses the ones of the first gradient
// of its href chain defining some.
func (b *builder) gradientStops(el *svgdom.Element, grad *svgdom.GradientServer, bounds svgpath.Rect, opacity float64) (colors []color.NRGBA, positions []float64) {
	for _, g := range gradientChain(el, grad) {
		for _, stop := range stopsOf(g) {
			cs, ok := stop.StopColor().(*svgdom.ColorServer)
			if !ok {
				continue
			}
			colors = append(colors, colorOf(cs, opacity*stop.StopOpacity(), b.ignore, false))
			positions = append(positions, stopOffset(stop, g.Element, bounds))
		}
		if len(colors) > 0 {
			break
		}
	}
	return colors, positions
}

// stopOffset returns the offset of stop, relative to
// the bounds width, clamped to [0,1] and rounded to one decimal.
func stopOffset(stop, gradEl *svgdom.Element, bounds svgpath.Rect) float64 {
	var offset float64
	if bounds.W == 0 {
		// offsets are stored as percentages
		offset = stop.Offset.Value / 100
	} else {
		offset = stop.Offset.ToDeviceValue(svgdom.Horizontal, gradEl, bounds) / bounds.W
	}
	return math.Round(math.Max(0, math.Min(1, offset))*10) / 10
}

func tileModeOf(spread svgdom.SpreadMethod) canvas.TileMode {
	switch spread {
	case svgdom.ReflectSpread:
		return canvas.Mirror
	case svgdom.RepeatSpread:
		return canvas.Repeat
	default:
		return canvas.Clamp
	}
}

// gradientMatrix returns the matrix mapping the gradient space
// to user space.
func gradientMatrix(grad *svgdom.GradientServer, bounds svgpath.Rect) svgpath.Matrix2D {
	if grad.EffectiveUnits() == svgdom.ObjectBoundingBox {
		bbox := svgpath.Matrix2D{A: bounds.W, D: bounds.H, E: bounds.X, F: bounds.Y}
		return bbox.Mult(grad.Transform)
	}
	return grad.Transform
}

// degenerateShader returns the shader used for gradients with less than
// two stops, or nil.
func degenerateShader(colors []color.NRGBA) canvas.Shader {
	switch len(colors) {
	case 0:
		return canvas.NewColorShader(color.NRGBA{})
	case 1:
		return canvas.NewColorShader(colors[0])
	}
	return nil
}

func (b *builder) createLinearGradient(el *svgdom.Element, grad *svgdom.LinearGradient, bounds svgpath.Rect, opacity float64) canvas.Shader {
	units, gradEl := grad.EffectiveUnits(), grad.Element
	x1 := normalizeUnit(grad.X1, units).ToDeviceValue(svgdom.Horizontal, gradEl, bounds)
	y1 := normalizeUnit(grad.Y1, units).ToDeviceValue(svgdom.Vertical, gradEl, bounds)
	x2 := normalizeUnit(grad.X2, units).ToDeviceValue(svgdom.Horizontal, gradEl, bounds)
	y2 := normalizeUnit(grad.Y2, units).ToDeviceValue(svgdom.Vertical, gradEl, bounds)

	colors, positions := b.gradientStops(el, &grad.GradientServer, bounds, opacity)
	if shader := degenerateShader(colors); shader != nil {
		return shader
	}

	return canvas.NewLinearGradient(canvas.Point{X: x1, Y: y1}, canvas.Point{X: x2, Y: y2},
		colors, positions, tileModeOf(grad.Spread), gradientMatrix(&grad.GradientServer, bounds))
}

// createTwoPointConicalGradient maps a radial gradient to a conical one,
// starting at the center with a null radius and ending at the focal point.
func (b *builder) createTwoPointConicalGradient(el *svgdom.Element, grad *svgdom.RadialGradient, bounds svgpath.Rect, opacity float64) canvas.Shader {
	units, gradEl := grad.EffectiveUnits(), grad.Element
	fxU, fyU := grad.Focal()
	cx := normalizeUnit(grad.CX, units).ToDeviceValue(svgdom.Horizontal, gradEl, bounds)
	cy := normalizeUnit(grad.CY, units).ToDeviceValue(svgdom.Vertical, gradEl, bounds)
	fx := normalizeUnit(fxU, units).ToDeviceValue(svgdom.Horizontal, gradEl, bounds)
	fy := normalizeUnit(fyU, units).ToDeviceValue(svgdom.Vertical, gradEl, bounds)
	r := normalizeUnit(grad.R, units).ToDeviceValue(svgdom.Other, gradEl, bounds)

	colors, positions := b.gradientStops(el, &grad.GradientServer, bounds, opacity)
	if shader := degenerateShader(colors); shader != nil {
		return shader
	}

	return canvas.NewTwoPointConicalGradient(canvas.Point{X: cx, Y: cy}, 0, canvas.Point{X: fx, Y: fy}, r,
		colors, positions, tileModeOf(grad.Spread), gradientMatrix(&grad.GradientServer, bounds))
}
