package svgdom

// FillRule selects the winding rule
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// LineCap is the stroke-linecap property
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin is the stroke-linejoin property
type LineJoin uint8

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// ShapeRendering is the shape-rendering hint
type ShapeRendering uint8

const (
	ShapeRenderingAuto ShapeRendering = iota
	ShapeRenderingOptimizeSpeed
	ShapeRenderingCrispEdges
	ShapeRenderingGeometricPrecision
)

// FontWeight is the font-weight property
type FontWeight uint8

const (
	WeightNormal FontWeight = iota // also 400
	WeightBold                     // also 700
	WeightBolder
	WeightLighter
	Weight100
	Weight200
	Weight300
	Weight500
	Weight600
	Weight800
	Weight900
)

// FontStyle is the font-style property
type FontStyle uint8

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

// TextAnchor is the text-anchor property
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// Presentation stores the presentation attributes
// explicitly set on an element. Nil pointers (and unset units)
// denote inherited (or default) values : use the accessors
// methods on Element to resolve them.
type Presentation struct {
	Fill, Stroke               PaintServer
	FillOpacity, StrokeOpacity *float64
	Opacity                    *float64 // not inherited
	FillRule, ClipRule         *FillRule
	StrokeWidth                Unit
	StrokeLineCap              *LineCap
	StrokeLineJoin             *LineJoin
	StrokeMiterLimit           *float64
	StrokeDashArray            []Unit // non nil but empty for "none"
	StrokeDashOffset           Unit
	ShapeRendering             *ShapeRendering
	Display                    string // not inherited
	Visibility                 string
	FontFamily                 string
	FontSize                   Unit
	FontWeight                 *FontWeight
	FontStyle                  *FontStyle
	TextAnchor                 *TextAnchor
	MarkerStart, MarkerMid     string
	MarkerEnd                  string
	ClipPath, Mask, Filter     string // element ids, not inherited
	StopColor                  PaintServer
	StopOpacity                *float64
	CurrentColor               *ColorServer // the color property
}

// lookup walks the ancestors of e, returning the first value
// accepted by get.
func lookup[T any](e *Element, get func(*Presentation) (T, bool), def T) T {
	for el := e; el != nil; el = el.Parent {
		if v, ok := get(&el.Style); ok {
			return v
		}
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Fill returns the inherited fill, or NotSet.
func (e *Element) Fill() PaintServer {
	return lookup(e, func(p *Presentation) (PaintServer, bool) { return p.Fill, p.Fill != nil }, PaintServer(NotSet))
}

// Stroke returns the inherited stroke, or nil if the stroke is not specified.
func (e *Element) Stroke() PaintServer {
	return lookup(e, func(p *Presentation) (PaintServer, bool) { return p.Stroke, p.Stroke != nil }, nil)
}

func optFloat(get func(*Presentation) *float64) func(*Presentation) (float64, bool) {
	return func(p *Presentation) (float64, bool) {
		if v := get(p); v != nil {
			return *v, true
		}
		return 0, false
	}
}

// FillOpacity returns the inherited fill-opacity, clamped to [0,1]
func (e *Element) FillOpacity() float64 {
	return clamp01(lookup(e, optFloat(func(p *Presentation) *float64 { return p.FillOpacity }), 1))
}

// StrokeOpacity returns the inherited stroke-opacity, clamped to [0,1]
func (e *Element) StrokeOpacity() float64 {
	return clamp01(lookup(e, optFloat(func(p *Presentation) *float64 { return p.StrokeOpacity }), 1))
}

// Opacity returns the opacity of the element (not inherited), clamped to [0,1]
func (e *Element) Opacity() float64 {
	if e.Style.Opacity == nil {
		return 1
	}
	return clamp01(*e.Style.Opacity)
}

// FillRule returns the inherited fill-rule
func (e *Element) FillRule() FillRule {
	return lookup(e, func(p *Presentation) (FillRule, bool) {
		if p.FillRule != nil {
			return *p.FillRule, true
		}
		return 0, false
	}, NonZero)
}

// ClipRule returns the inherited clip-rule
func (e *Element) ClipRule() FillRule {
	return lookup(e, func(p *Presentation) (FillRule, bool) {
		if p.ClipRule != nil {
			return *p.ClipRule, true
		}
		return 0, false
	}, NonZero)
}

// StrokeWidth returns the inherited stroke width, 1 by default.
func (e *Element) StrokeWidth() Unit {
	return lookup(e, func(p *Presentation) (Unit, bool) { return p.StrokeWidth, p.StrokeWidth.IsSet() }, User(1))
}

// StrokeLineCap returns the inherited cap
func (e *Element) StrokeLineCap() LineCap {
	return lookup(e, func(p *Presentation) (LineCap, bool) {
		if p.StrokeLineCap != nil {
			return *p.StrokeLineCap, true
		}
		return 0, false
	}, ButtCap)
}

// StrokeLineJoin returns the inherited join
func (e *Element) StrokeLineJoin() LineJoin {
	return lookup(e, func(p *Presentation) (LineJoin, bool) {
		if p.StrokeLineJoin != nil {
			return *p.StrokeLineJoin, true
		}
		return 0, false
	}, MiterJoin)
}

// StrokeMiterLimit returns the inherited miter limit, 4 by default.
func (e *Element) StrokeMiterLimit() float64 {
	return lookup(e, optFloat(func(p *Presentation) *float64 { return p.StrokeMiterLimit }), 4)
}

// StrokeDashArray returns the inherited dash array, or nil.
func (e *Element) StrokeDashArray() []Unit {
	return lookup(e, func(p *Presentation) ([]Unit, bool) { return p.StrokeDashArray, p.StrokeDashArray != nil }, nil)
}

// StrokeDashOffset returns the inherited dash offset, which may be unset.
func (e *Element) StrokeDashOffset() Unit {
	return lookup(e, func(p *Presentation) (Unit, bool) { return p.StrokeDashOffset, p.StrokeDashOffset.IsSet() }, Unit{})
}

// ShapeRendering returns the inherited rendering hint.
func (e *Element) ShapeRendering() ShapeRendering {
	return lookup(e, func(p *Presentation) (ShapeRendering, bool) {
		if p.ShapeRendering != nil {
			return *p.ShapeRendering, true
		}
		return 0, false
	}, ShapeRenderingAuto)
}

// Visibility returns the inherited visibility
func (e *Element) Visibility() string {
	return lookup(e, func(p *Presentation) (string, bool) { return p.Visibility, p.Visibility != "" }, "visible")
}

// FontFamily returns the inherited font-family, or an empty string.
func (e *Element) FontFamily() string {
	return lookup(e, func(p *Presentation) (string, bool) { return p.FontFamily, p.FontFamily != "" }, "")
}

// FontSize returns the inherited font size, which may be unset.
func (e *Element) FontSize() Unit {
	return lookup(e, func(p *Presentation) (Unit, bool) { return p.FontSize, p.FontSize.IsSet() }, Unit{})
}

// FontWeight returns the inherited font weight
func (e *Element) FontWeight() FontWeight {
	return lookup(e, func(p *Presentation) (FontWeight, bool) {
		if p.FontWeight != nil {
			return *p.FontWeight, true
		}
		return 0, false
	}, WeightNormal)
}

// FontStyle returns the inherited font style
func (e *Element) FontStyle() FontStyle {
	return lookup(e, func(p *Presentation) (FontStyle, bool) {
		if p.FontStyle != nil {
			return *p.FontStyle, true
		}
		return 0, false
	}, FontStyleNormal)
}

// TextAnchor returns the inherited text anchor
func (e *Element) TextAnchor() TextAnchor {
	return lookup(e, func(p *Presentation) (TextAnchor, bool) {
		if p.TextAnchor != nil {
			return *p.TextAnchor, true
		}
		return 0, false
	}, AnchorStart)
}

// Markers returns the inherited marker references (element ids).
func (e *Element) Markers() (start, mid, end string) {
	start = lookup(e, func(p *Presentation) (string, bool) { return p.MarkerStart, p.MarkerStart != "" }, "")
	mid = lookup(e, func(p *Presentation) (string, bool) { return p.MarkerMid, p.MarkerMid != "" }, "")
	end = lookup(e, func(p *Presentation) (string, bool) { return p.MarkerEnd, p.MarkerEnd != "" }, "")
	return start, mid, end
}

// StopOpacity returns the stop opacity of a <stop> element, clamped to [0,1]
func (e *Element) StopOpacity() float64 {
	if e.Style.StopOpacity == nil {
		return 1
	}
	return clamp01(*e.Style.StopOpacity)
}

// StopColor returns the stop color of a <stop> element, black by default.
func (e *Element) StopColor() PaintServer {
	if e.Style.StopColor == nil {
		return NotSet
	}
	return e.Style.StopColor
}

// Color returns the inherited value of the color property,
// used by "currentColor".
func (e *Element) Color() *ColorServer {
	return lookup(e, func(p *Presentation) (*ColorServer, bool) { return p.CurrentColor, p.CurrentColor != nil }, NotSet)
}
