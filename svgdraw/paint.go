package svgdraw

import (
	"image/color"
	"math"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// builder holds the state shared while compiling
// a tree of drawables.
type builder struct {
	ignore Attributes
	fonts  canvas.FontManager
	// elements being compiled, used to break
	// reference cycles (use, pattern, marker, mask)
	active map[*svgdom.Element]bool
}

func newBuilder(ignore Attributes, fonts canvas.FontManager) *builder {
	return &builder{ignore: ignore, fonts: fonts, active: map[*svgdom.Element]bool{}}
}

// enter marks el as being compiled, returning false if it
// already is.
func (b *builder) enter(el *svgdom.Element) bool {
	if b.active[el] {
		return false
	}
	b.active[el] = true
	return true
}

func (b *builder) leave(el *svgdom.Element) { delete(b.active, el) }

// colorOf applies opacity to a plain color.
func colorOf(cs *svgdom.ColorServer, opacity float64, ignore Attributes, forStroke bool) color.NRGBA {
	if cs == svgdom.None {
		return color.NRGBA{}
	}
	if cs == svgdom.NotSet && forStroke {
		return color.NRGBA{}
	}
	c := cs.Color
	if !ignore.Has(IgnoreOpacity) {
		c.A = uint8(math.Round(opacity * (float64(cs.Color.A) / 255) * 255))
	}
	return c
}

// resolveServer replaces a deferred reference by the server
// it targets (or nil), and returns the fallback to use if
// the server can't be painted.
func resolveServer(el *svgdom.Element, server svgdom.PaintServer) (svgdom.PaintServer, svgdom.PaintServer) {
	deferred, ok := server.(*svgdom.DeferredServer)
	if !ok {
		return server, svgdom.None
	}
	fallback := deferred.Fallback
	target := el.Lookup(deferred.ID)
	if target == nil || target.Server == nil {
		logger().Debug("unresolved paint reference", "id", deferred.ID)
		return nil, fallback
	}
	return target.Server, fallback
}

// SetColorOrShader resolves server into paint, for the given
// element, opacity and bounds.
// It returns false if the channel (fill or stroke) must not be painted.
// The resources created are added to cd.
func SetColorOrShader(el *svgdom.Element, server svgdom.PaintServer, opacity float64, bounds svgpath.Rect,
	paint *canvas.Paint, forStroke bool, ignore Attributes, cd *canvas.CompositeDisposable,
) bool {
	return newBuilder(ignore, nil).setColorOrShader(el, server, opacity, bounds, paint, forStroke, cd)
}

func (b *builder) setColorOrShader(el *svgdom.Element, server svgdom.PaintServer, opacity float64, bounds svgpath.Rect,
	paint *canvas.Paint, forStroke bool, cd *canvas.CompositeDisposable,
) bool {
	server, fallback := resolveServer(el, server)

	// useFallback paints with the fallback, if it is a color
	useFallback := func() bool {
		if cs, ok := fallback.(*svgdom.ColorServer); ok {
			paint.Color = colorOf(cs, opacity, b.ignore, forStroke)
			return true
		}
		return false
	}

	switch server := server.(type) {
	case *svgdom.ColorServer:
		paint.Color = colorOf(server, opacity, b.ignore, forStroke)
	case *svgdom.Pattern:
		shader := b.createPicture(el, server, bounds, opacity)
		if shader == nil {
			return false
		}
		cd.Add(shader)
		paint.Shader = shader
	case *svgdom.LinearGradient:
		if server.EffectiveUnits() == svgdom.ObjectBoundingBox && (bounds.W == 0 || bounds.H == 0) {
			return useFallback()
		}
		if !hasStops(el, &server.GradientServer) {
			// painting as if "none" were specified
			return useFallback()
		}
		shader := b.createLinearGradient(el, server, bounds, opacity)
		cd.Add(shader)
		paint.Shader = shader
	case *svgdom.RadialGradient:
		if server.EffectiveUnits() == svgdom.ObjectBoundingBox && (bounds.W == 0 || bounds.H == 0) {
			return useFallback()
		}
		if !hasStops(el, &server.GradientServer) {
			return useFallback()
		}
		shader := b.createTwoPointConicalGradient(el, server, bounds, opacity)
		cd.Add(shader)
		paint.Shader = shader
	default:
		// unresolved reference
		return useFallback()
	}
	return true
}

// isAntialias returns false for the rendering hints
// disabling anti-aliasing.
func isAntialias(el *svgdom.Element) bool {
	switch el.ShapeRendering() {
	case svgdom.ShapeRenderingOptimizeSpeed, svgdom.ShapeRenderingCrispEdges, svgdom.ShapeRenderingGeometricPrecision:
		return false
	default:
		return true
	}
}

func isValidFill(el *svgdom.Element) bool { return el.Fill() != nil }

func isValidStroke(el *svgdom.Element, bounds svgpath.Rect) bool {
	stroke := el.Stroke()
	return stroke != nil && stroke != svgdom.None &&
		el.StrokeWidth().ToDeviceValue(svgdom.Other, el, bounds) > 0
}

// fillPaint returns the fill paint of el, or nil
// if it can't be resolved.
func (b *builder) fillPaint(el *svgdom.Element, bounds svgpath.Rect, cd *canvas.CompositeDisposable) *canvas.Paint {
	paint := canvas.NewPaint()
	paint.IsAntialias = isAntialias(el)
	paint.Style = canvas.Fill

	if !b.setColorOrShader(el, el.Fill(), el.FillOpacity(), bounds, paint, false, cd) {
		return nil
	}
	cd.Add(paint)
	return paint
}

var (
	capToCap = [...]canvas.StrokeCap{
		svgdom.ButtCap:   canvas.ButtCap,
		svgdom.RoundCap:  canvas.RoundCap,
		svgdom.SquareCap: canvas.SquareCap,
	}
	joinToJoin = [...]canvas.StrokeJoin{
		svgdom.MiterJoin: canvas.MiterJoin,
		svgdom.RoundJoin: canvas.RoundJoin,
		svgdom.BevelJoin: canvas.BevelJoin,
	}
)

// strokePaint returns the stroke paint of el, or nil
// if it can't be resolved.
func (b *builder) strokePaint(el *svgdom.Element, bounds svgpath.Rect, cd *canvas.CompositeDisposable) *canvas.Paint {
	paint := canvas.NewPaint()
	paint.IsAntialias = isAntialias(el)
	paint.Style = canvas.Stroke

	if !b.setColorOrShader(el, el.Stroke(), el.StrokeOpacity(), bounds, paint, true, cd) {
		return nil
	}

	paint.StrokeCap = capToCap[el.StrokeLineCap()]
	paint.StrokeJoin = joinToJoin[el.StrokeLineJoin()]
	paint.StrokeMiter = el.StrokeMiterLimit()
	paint.StrokeWidth = el.StrokeWidth().ToDeviceValue(svgdom.Other, el, bounds)
	if el.StrokeDashArray() != nil {
		setDash(el, paint, bounds, cd)
	}

	cd.Add(paint)
	return paint
}

// opacityPaint returns the paint of a transparency layer,
// or nil if opacity is 1.
func opacityPaint(opacity float64) *canvas.Paint {
	if opacity >= 1 {
		return nil
	}
	paint := canvas.NewPaint()
	paint.Style = canvas.StrokeAndFill
	paint.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(math.Round(opacity * 255))}
	return paint
}

// elementOpacityPaint returns the transparency layer paint of el.
func elementOpacityPaint(el *svgdom.Element, cd *canvas.CompositeDisposable) *canvas.Paint {
	paint := opacityPaint(el.Opacity())
	if paint != nil {
		cd.Add(paint)
	}
	return paint
}
