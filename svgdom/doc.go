// Package svgdom provides the attributed element tree consumed
// by the drawing packages, and an XML loader building it from SVG files.
//
// Presentation attributes are stored as typed values (units, colors,
// enums), unset values being inherited from the parent chain through
// the accessors methods of Element.
package svgdom

import (
	"strings"

	"github.com/benoitkugler/svgpaint/svgpath"
)

// Kind identifies the type of an SVG element.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSVG
	KindGroup
	KindAnchor
	KindUse
	KindSwitch
	KindSymbol
	KindDefs
	KindRect
	KindCircle
	KindEllipse
	KindLine
	KindPolyline
	KindPolygon
	KindPath
	KindText
	KindTSpan
	KindTextNode // character data inside text elements
	KindImage
	KindLinearGradient
	KindRadialGradient
	KindStop
	KindPattern
	KindMarker
	KindClipPath
	KindMask
	KindFilter
	KindFeGaussianBlur
	KindTitle
	KindDesc
	KindStyle
)

var kindTags = [...]string{
	KindUnknown:        "",
	KindSVG:            "svg",
	KindGroup:          "g",
	KindAnchor:         "a",
	KindUse:            "use",
	KindSwitch:         "switch",
	KindSymbol:         "symbol",
	KindDefs:           "defs",
	KindRect:           "rect",
	KindCircle:         "circle",
	KindEllipse:        "ellipse",
	KindLine:           "line",
	KindPolyline:       "polyline",
	KindPolygon:        "polygon",
	KindPath:           "path",
	KindText:           "text",
	KindTSpan:          "tspan",
	KindTextNode:       "#text",
	KindImage:          "image",
	KindLinearGradient: "linearGradient",
	KindRadialGradient: "radialGradient",
	KindStop:           "stop",
	KindPattern:        "pattern",
	KindMarker:         "marker",
	KindClipPath:       "clipPath",
	KindMask:           "mask",
	KindFilter:         "filter",
	KindFeGaussianBlur: "feGaussianBlur",
	KindTitle:          "title",
	KindDesc:           "desc",
	KindStyle:          "style",
}

func (k Kind) String() string {
	if int(k) < len(kindTags) && k != KindUnknown {
		return kindTags[k]
	}
	return "<unknown>"
}

// kindFromTag returns KindUnknown for unsupported tags.
func kindFromTag(tag string) Kind {
	for k, t := range kindTags {
		if t == tag && t != "" {
			return Kind(k)
		}
	}
	return KindUnknown
}

// MarkerUnits is the coordinate system of marker contents.
type MarkerUnits uint8

const (
	StrokeWidthUnits MarkerUnits = iota // default
	UserSpaceUnits
)

// Element is a node of the SVG tree. Apart from
// the Style and Transform fields, which are shared
// by every kind, the geometric fields are only meaningful
// for the kinds using them.
type Element struct {
	Kind     Kind
	Tag      string
	ID       string
	Classes  []string
	Parent   *Element
	Children []*Element

	// Attrs stores the raw attributes, as found in the source,
	// for properties without typed counterpart (e.g. font-stretch).
	Attrs map[string]string

	Style     Presentation
	Transform svgpath.Matrix2D // identity when not specified

	// rect, image, use, svg, pattern, marker, mask, filter
	X, Y, Width, Height Unit
	// rect corners and ellipse radii
	RX, RY Unit
	// circle and ellipse
	CX, CY, R Unit
	// line
	X1, Y1, X2, Y2 Unit
	// polyline and polygon, as a flat list of coordinates
	Points []float64
	// path
	PathData svgpath.Path

	// character data for text nodes, titles and styles
	Text string
	// text and tspan absolute and relative positions
	TextX, TextY, DX, DY []Unit

	// referenced element id (without '#'), or data URI for images
	Href string

	ViewBox     svgpath.Rect
	AspectRatio svgpath.AspectRatio

	// Server is the paint server defined by gradient and pattern elements.
	Server PaintServer
	// stop offset, as a unit
	Offset Unit

	// marker
	RefX, RefY   Unit
	MarkerUnits  MarkerUnits
	OrientAuto   bool
	OrientAngle  float64 // in degrees
	MarkerWidth  Unit
	MarkerHeight Unit

	// clipPathUnits, maskUnits, filterUnits
	ContentUnits Units
	// maskContentUnits, primitiveUnits
	ChildUnits Units

	// feGaussianBlur
	StdDeviationX, StdDeviationY float64

	// conditional processing attributes; nil when absent
	RequiredFeatures, RequiredExtensions, SystemLanguage *string

	doc *Document
}

// NewElement returns an empty element of the given kind.
func NewElement(kind Kind) *Element {
	return &Element{
		Kind:         kind,
		Tag:          kind.String(),
		Attrs:        map[string]string{},
		Transform:    svgpath.Identity,
		MarkerWidth:  User(3),
		MarkerHeight: User(3),
	}
}

// AppendChild adds c to the children of e.
func (e *Element) AppendChild(c *Element) {
	c.Parent = e
	c.doc = e.doc
	e.Children = append(e.Children, c)
	if e.doc != nil {
		e.doc.index(c)
	}
}

// Document returns the document owning the element, or nil
// for detached elements.
func (e *Element) Document() *Document { return e.doc }

// HasClass returns true if the class attribute of e contains class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Lookup resolves an element id (with or without a leading '#')
// in the document owning e.
func (e *Element) Lookup(id string) *Element {
	if e.doc == nil {
		return nil
	}
	return e.doc.Lookup(id)
}

// CloneUnder returns a deep copy of e attached below parent,
// without modifying the tree : the copy inherits its presentation
// attributes from parent, as required for <use> instances.
// The copy is not indexed in the document.
func (e *Element) CloneUnder(parent *Element) *Element {
	out := *e
	out.Parent = parent
	out.Children = make([]*Element, len(e.Children))
	for i, c := range e.Children {
		out.Children[i] = c.CloneUnder(&out)
	}
	return &out
}

// TextContent returns the concatenated character data of the text nodes
// below e.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(el *Element)
	walk = func(el *Element) {
		if el.Kind == KindTextNode {
			b.WriteString(el.Text)
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(e)
	return b.String()
}

// Document is a parsed SVG file.
type Document struct {
	Root         *Element
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here

	ids map[string]*Element
}

// NewDocument returns the document rooted at root, linking
// parents and registering element ids.
func NewDocument(root *Element) *Document {
	doc := &Document{Root: root, ids: map[string]*Element{}}
	root.Parent = nil
	var walk func(el *Element)
	walk = func(el *Element) {
		el.doc = doc
		doc.index(el)
		for _, c := range el.Children {
			c.Parent = el
			walk(c)
		}
	}
	walk(root)
	return doc
}

func (doc *Document) index(el *Element) {
	if el.ID == "" {
		return
	}
	// the first definition wins
	if _, has := doc.ids[el.ID]; !has {
		doc.ids[el.ID] = el
	}
}

// Lookup returns the element with the given id, or nil.
func (doc *Document) Lookup(id string) *Element {
	return doc.ids[strings.TrimPrefix(id, "#")]
}

// Width returns the width attribute of the root element, or the viewBox width.
func (doc *Document) Width() float64 {
	if w := doc.Root.Width; w.IsSet() && w.Type != UnitPercentage {
		return w.ToDeviceValue(Horizontal, doc.Root, svgpath.Rect{})
	}
	return doc.Root.ViewBox.W
}

// Height returns the height attribute of the root element, or the viewBox height.
func (doc *Document) Height() float64 {
	if h := doc.Root.Height; h.IsSet() && h.Type != UnitPercentage {
		return h.ToDeviceValue(Vertical, doc.Root, svgpath.Rect{})
	}
	return doc.Root.ViewBox.H
}
