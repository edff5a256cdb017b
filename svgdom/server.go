package svgdom

import (
	"image/color"

	"github.com/benoitkugler/svgpaint/svgpath"
)

// PaintServer is the value of a fill or stroke property.
// It is one of *ColorServer, *LinearGradient, *RadialGradient,
// *Pattern or *DeferredServer.
type PaintServer interface {
	isPaintServer()
}

func (*ColorServer) isPaintServer()    {}
func (*LinearGradient) isPaintServer() {}
func (*RadialGradient) isPaintServer() {}
func (*Pattern) isPaintServer()        {}
func (*DeferredServer) isPaintServer() {}

// ColorServer paints with a plain color.
type ColorServer struct {
	Color color.NRGBA
}

var (
	// None is the explicit "none" paint
	None = &ColorServer{}
	// NotSet is used when no paint is specified : it is black
	// for fills and transparent for strokes.
	NotSet = &ColorServer{Color: color.NRGBA{A: 0xff}}
)

// NewColor returns a plain color server
func NewColor(c color.NRGBA) *ColorServer { return &ColorServer{Color: c} }

// Units is the coordinate system of gradients, patterns,
// clip paths and masks.
type Units uint8

const (
	UnitsInherit Units = iota // not specified
	ObjectBoundingBox
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod uint8

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradientServer stores the attributes common to
// linear and radial gradients.
// Its stops are the KindStop children of Element.
type GradientServer struct {
	Element   *Element
	Units     Units // ObjectBoundingBox when UnitsInherit
	Transform svgpath.Matrix2D
	Spread    SpreadMethod
	Href      string // id of the gradient providing default stops
}

// EffectiveUnits resolves the default units
func (g *GradientServer) EffectiveUnits() Units {
	if g.Units == UnitsInherit {
		return ObjectBoundingBox
	}
	return g.Units
}

// LinearGradient is a <linearGradient> element.
type LinearGradient struct {
	GradientServer
	X1, Y1, X2, Y2 Unit
}

// NewLinearGradient returns a gradient with the default
// vector (0%, 0%) -> (100%, 0%).
func NewLinearGradient(el *Element) *LinearGradient {
	return &LinearGradient{
		GradientServer: GradientServer{Element: el, Transform: svgpath.Identity},
		X1:             Percent(0),
		Y1:             Percent(0),
		X2:             Percent(100),
		Y2:             Percent(0),
	}
}

// RadialGradient is a <radialGradient> element.
type RadialGradient struct {
	GradientServer
	CX, CY, R, FX, FY Unit
}

// NewRadialGradient returns a gradient with the default
// 50% center and radius.
func NewRadialGradient(el *Element) *RadialGradient {
	return &RadialGradient{
		GradientServer: GradientServer{Element: el, Transform: svgpath.Identity},
		CX:             Percent(50),
		CY:             Percent(50),
		R:              Percent(50),
	}
}

// Focal returns the focal point, which defaults to the center.
func (r *RadialGradient) Focal() (fx, fy Unit) {
	fx, fy = r.FX, r.FY
	if !fx.IsSet() {
		fx = r.CX
	}
	if !fy.IsSet() {
		fy = r.CY
	}
	return fx, fy
}

// Pattern is a <pattern> element. Unset attributes
// are inherited from the Href chain.
type Pattern struct {
	Element             *Element
	X, Y, Width, Height Unit
	Units, ContentUnits Units
	ViewBox             svgpath.Rect
	// nil when not specified
	AspectRatio *svgpath.AspectRatio
	Transform   svgpath.Matrix2D
	Href        string
}

// DeferredServer is an url(#id) reference, resolved
// at paint time. Fallback may be nil.
type DeferredServer struct {
	ID       string
	Fallback PaintServer
}
