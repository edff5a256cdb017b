package svgdom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/svgpaint/svgpath"
	tstrconv "github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/net/html/charset"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
// and invalid attributes.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements and invalid attributes
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for unsupported elements and invalid attributes
	WarnErrorMode
	// StrictErrorMode returns an error on unsupported elements and invalid attributes
	StrictErrorMode
)

var (
	errInvalidSVG   = errors.New("invalid svg xml document")
	errZeroLengthID = errors.New("zero length id")
)

// docCursor is used while parsing SVG files
type docCursor struct {
	errorMode ErrorMode
	doc       *Document
	root      *Element
	stack     []*Element // currently opened elements

	rules                   []*css.Rule // rules from <style> elements
	inTitleText, inDescText bool
}

func (c *docCursor) handleError(errStr string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return errors.New(errStr)
	case WarnErrorMode:
		Logger().Warn(errStr)
	}
	return nil
}

func (c *docCursor) top() *Element {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Parse reads the SVG document from the given io.Reader.
// This only supports a sub-set of SVG, but
// is enough to draw most files. errMode determines if the parser ignores, errors out, or logs a warning
// if it does not handle an element or an attribute found in the file.
func Parse(stream io.Reader, errMode ErrorMode) (*Document, error) {
	cursor := &docCursor{errorMode: errMode, doc: &Document{}}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if err = cursor.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err = cursor.readEndElement(); err != nil {
				return nil, err
			}
		case xml.CharData:
			cursor.readCharData(se)
		}
	}
	if cursor.root == nil || cursor.root.Kind != KindSVG {
		return nil, errInvalidSVG
	}
	doc := NewDocument(cursor.root)
	doc.Titles, doc.Descriptions = cursor.doc.Titles, cursor.doc.Descriptions
	return doc, nil
}

// ParseFile reads the SVG document from the named file.
// See Parse for the meaning of errMode.
func ParseFile(file string, errMode ErrorMode) (*Document, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Parse(fin, errMode)
}

func (c *docCursor) readStartElement(se xml.StartElement) error {
	kind := kindFromTag(se.Name.Local)
	el := NewElement(kind)
	el.Tag = se.Name.Local
	if kind == KindUnknown {
		if err := c.handleError("Cannot process svg element " + se.Name.Local); err != nil {
			return err
		}
	}
	if parent := c.top(); parent != nil {
		parent.Children = append(parent.Children, el)
		el.Parent = parent
	} else if c.root == nil {
		c.root = el
	} else {
		return errInvalidSVG
	}
	c.stack = append(c.stack, el)

	if err := c.readAttributes(el, se.Attr); err != nil {
		return err
	}
	if df, ok := buildFuncs[kind]; ok {
		return df(c, el)
	}
	return nil
}

func (c *docCursor) readEndElement() error {
	el := c.top()
	if el == nil {
		return errInvalidSVG
	}
	c.stack = c.stack[:len(c.stack)-1]
	switch el.Kind {
	case KindTitle:
		c.inTitleText = false
	case KindDesc:
		c.inDescText = false
	case KindStyle:
		sheet, err := parser.Parse(el.Text)
		if err != nil {
			return c.handleError(fmt.Sprintf("invalid style sheet: %s", err))
		}
		c.rules = append(c.rules, sheet.Rules...)
	}
	return nil
}

func (c *docCursor) readCharData(data xml.CharData) {
	if c.inTitleText {
		c.doc.Titles[len(c.doc.Titles)-1] += string(data)
	}
	if c.inDescText {
		c.doc.Descriptions[len(c.doc.Descriptions)-1] += string(data)
	}
	el := c.top()
	if el == nil {
		return
	}
	switch el.Kind {
	case KindStyle:
		el.Text += string(data)
	case KindText, KindTSpan:
		text := normalizeSpaces(string(data))
		if text == "" {
			return
		}
		node := NewElement(KindTextNode)
		node.Text = text
		node.Parent = el
		el.Children = append(el.Children, node)
	}
}

// normalizeSpaces applies the default xml:space handling,
// keeping one space at the boundaries.
func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\t' || b == '\r' }

// readAttributes stores the raw attributes and resolves the
// presentation ones, with the usual precedence : attributes, then
// style sheets, then the style attribute.
func (c *docCursor) readAttributes(el *Element, attrs []xml.Attr) error {
	var style string
	for _, attr := range attrs {
		if attr.Name.Local == "style" {
			style = attr.Value
			continue
		}
		el.Attrs[attr.Name.Local] = attr.Value
		switch attr.Name.Local {
		case "id":
			if attr.Value == "" {
				return errZeroLengthID
			}
			el.ID = attr.Value
		case "class":
			el.Classes = strings.Fields(attr.Value)
		}
	}
	for _, attr := range attrs {
		if attr.Name.Local == "style" {
			continue
		}
		if err := c.readAttr(el, attr.Name.Local, attr.Value); err != nil {
			return err
		}
	}
	for _, rule := range c.rules {
		if rule.Kind != css.QualifiedRule || !matchRule(el, rule) {
			continue
		}
		for _, decl := range rule.Declarations {
			if err := c.readAttr(el, decl.Property, decl.Value); err != nil {
				return err
			}
		}
	}
	if style = strings.TrimSpace(style); style != "" {
		// the last declaration is dropped without a trailing ;
		if !strings.HasSuffix(style, ";") {
			style += ";"
		}
		decls, err := parser.ParseDeclarations(style)
		if err != nil {
			if err = c.handleError(fmt.Sprintf("invalid style attribute %q: %s", style, err)); err != nil {
				return err
			}
		}
		for _, decl := range decls {
			el.Attrs[decl.Property] = decl.Value
			if err := c.readAttr(el, decl.Property, decl.Value); err != nil {
				return err
			}
		}
	}
	el.Style.Fill = resolveCurrentColor(el, el.Style.Fill)
	el.Style.Stroke = resolveCurrentColor(el, el.Style.Stroke)
	el.Style.StopColor = resolveCurrentColor(el, el.Style.StopColor)
	return nil
}

// resolveCurrentColor replaces the currentColor placeholder
// by the color property of el.
func resolveCurrentColor(el *Element, ps PaintServer) PaintServer {
	switch ps := ps.(type) {
	case *ColorServer:
		if ps == currentColor {
			return el.Color()
		}
	case *DeferredServer:
		ps.Fallback = resolveCurrentColor(el, ps.Fallback)
	}
	return ps
}

// matchRule supports the simple selectors "*", "tag", ".class", "#id"
// and "tag.class".
func matchRule(el *Element, rule *css.Rule) bool {
	for _, sel := range rule.Selectors {
		sel = strings.TrimSpace(sel)
		if strings.ContainsAny(sel, " >+~:[") {
			continue
		}
		if matchSimpleSelector(el, sel) {
			return true
		}
	}
	return false
}

func matchSimpleSelector(el *Element, sel string) bool {
	if sel == "*" {
		return true
	}
	if i := strings.IndexByte(sel, '#'); i != -1 {
		return (i == 0 || sel[:i] == el.Tag) && sel[i+1:] == el.ID
	}
	if i := strings.IndexByte(sel, '.'); i != -1 {
		return (i == 0 || sel[:i] == el.Tag) && el.HasClass(sel[i+1:])
	}
	return sel == el.Tag
}

// parseNumber parses a float, accepting percentages as fractions.
func parseNumber(v string) (float64, error) {
	v = strings.TrimSpace(v)
	d := 1.
	if strings.HasSuffix(v, "%") {
		d = 100
		v = v[:len(v)-1]
	}
	f, n := tstrconv.ParseFloat([]byte(v))
	if n == 0 || n != len(v) {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return f / d, nil
}

// parseURLRef returns the id in "url(#id)", or an empty string for "none".
func parseURLRef(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "none" || v == "" {
		return "", nil
	}
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", fmt.Errorf("invalid reference %q", v)
	}
	ref := strings.Trim(strings.TrimSpace(v[4:len(v)-1]), `'"`)
	return strings.TrimPrefix(ref, "#"), nil
}

func (c *docCursor) readAttr(el *Element, k, v string) error {
	err := readAttr(el, strings.TrimSpace(k), strings.TrimSpace(v))
	if err != nil {
		return c.handleError(fmt.Sprintf("invalid attribute %s=%q on <%s>: %s", k, v, el.Tag, err))
	}
	return nil
}

func optFloatOf(v string) (*float64, error) {
	if v == "inherit" {
		return nil, nil
	}
	f, err := parseNumber(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// readAttr handles presentation attributes and
// the geometric attributes shared by several kinds.
func readAttr(el *Element, k, v string) (err error) {
	st := &el.Style
	switch k {
	case "fill":
		st.Fill, err = ParsePaint(v)
	case "stroke":
		st.Stroke, err = ParsePaint(v)
	case "color":
		if v == "inherit" {
			st.CurrentColor = nil
			break
		}
		col, errc := ParseColor(v)
		if errc != nil {
			return errc
		}
		st.CurrentColor = NewColor(col)
	case "stop-color":
		st.StopColor, err = ParsePaint(v)
	case "fill-opacity":
		st.FillOpacity, err = optFloatOf(v)
	case "stroke-opacity":
		st.StrokeOpacity, err = optFloatOf(v)
	case "opacity":
		st.Opacity, err = optFloatOf(v)
	case "stop-opacity":
		st.StopOpacity, err = optFloatOf(v)
	case "fill-rule", "clip-rule":
		var rule *FillRule
		switch v {
		case "nonzero":
			r := NonZero
			rule = &r
		case "evenodd":
			r := EvenOdd
			rule = &r
		case "inherit":
		default:
			return fmt.Errorf("invalid rule %q", v)
		}
		if k == "fill-rule" {
			st.FillRule = rule
		} else {
			st.ClipRule = rule
		}
	case "stroke-width":
		st.StrokeWidth, err = parseUnitOrInherit(v)
	case "stroke-linecap":
		var lc LineCap
		switch v {
		case "butt":
			lc = ButtCap
		case "round":
			lc = RoundCap
		case "square":
			lc = SquareCap
		case "inherit":
			st.StrokeLineCap = nil
			return nil
		default:
			return fmt.Errorf("invalid line cap %q", v)
		}
		st.StrokeLineCap = &lc
	case "stroke-linejoin":
		var lj LineJoin
		switch v {
		case "miter", "miter-clip", "arcs":
			lj = MiterJoin
		case "round":
			lj = RoundJoin
		case "bevel":
			lj = BevelJoin
		case "inherit":
			st.StrokeLineJoin = nil
			return nil
		default:
			return fmt.Errorf("invalid line join %q", v)
		}
		st.StrokeLineJoin = &lj
	case "stroke-miterlimit":
		st.StrokeMiterLimit, err = optFloatOf(v)
	case "stroke-dasharray":
		switch v {
		case "none":
			st.StrokeDashArray = []Unit{}
		case "inherit":
			st.StrokeDashArray = nil
		default:
			st.StrokeDashArray, err = ParseUnitList(v)
		}
	case "stroke-dashoffset":
		st.StrokeDashOffset, err = parseUnitOrInherit(v)
	case "shape-rendering":
		var sr ShapeRendering
		switch v {
		case "auto":
			sr = ShapeRenderingAuto
		case "optimizeSpeed":
			sr = ShapeRenderingOptimizeSpeed
		case "crispEdges":
			sr = ShapeRenderingCrispEdges
		case "geometricPrecision":
			sr = ShapeRenderingGeometricPrecision
		case "inherit":
			st.ShapeRendering = nil
			return nil
		default:
			return fmt.Errorf("invalid shape rendering %q", v)
		}
		st.ShapeRendering = &sr
	case "display":
		st.Display = v
	case "visibility":
		if v == "inherit" {
			v = ""
		}
		st.Visibility = v
	case "font-family":
		if v == "inherit" {
			v = ""
		}
		st.FontFamily = v
	case "font-size":
		st.FontSize, err = parseUnitOrInherit(v)
	case "font-weight":
		st.FontWeight, err = parseFontWeight(v)
	case "font-style":
		var fs FontStyle
		switch v {
		case "normal":
			fs = FontStyleNormal
		case "italic":
			fs = FontStyleItalic
		case "oblique":
			fs = FontStyleOblique
		case "inherit":
			st.FontStyle = nil
			return nil
		default:
			return fmt.Errorf("invalid font style %q", v)
		}
		st.FontStyle = &fs
	case "text-anchor":
		var ta TextAnchor
		switch v {
		case "start":
			ta = AnchorStart
		case "middle":
			ta = AnchorMiddle
		case "end":
			ta = AnchorEnd
		case "inherit":
			st.TextAnchor = nil
			return nil
		default:
			return fmt.Errorf("invalid text anchor %q", v)
		}
		st.TextAnchor = &ta
	case "marker":
		var id string
		id, err = parseURLRef(v)
		st.MarkerStart, st.MarkerMid, st.MarkerEnd = id, id, id
	case "marker-start":
		st.MarkerStart, err = parseURLRef(v)
	case "marker-mid":
		st.MarkerMid, err = parseURLRef(v)
	case "marker-end":
		st.MarkerEnd, err = parseURLRef(v)
	case "clip-path":
		st.ClipPath, err = parseURLRef(v)
	case "mask":
		st.Mask, err = parseURLRef(v)
	case "filter":
		st.Filter, err = parseURLRef(v)
	case "transform":
		el.Transform, err = svgpath.ParseTransform(v)
	case "x", "y", "dx", "dy":
		if el.Kind == KindText || el.Kind == KindTSpan {
			var list []Unit
			list, err = ParseUnitList(v)
			switch k {
			case "x":
				el.TextX = list
			case "y":
				el.TextY = list
			case "dx":
				el.DX = list
			case "dy":
				el.DY = list
			}
		} else if k == "x" {
			el.X, err = ParseUnit(v)
		} else if k == "y" {
			el.Y, err = ParseUnit(v)
		}
	case "width":
		el.Width, err = parseUnitOrAuto(v)
	case "height":
		el.Height, err = parseUnitOrAuto(v)
	case "rx":
		el.RX, err = parseUnitOrAuto(v)
	case "ry":
		el.RY, err = parseUnitOrAuto(v)
	case "cx":
		el.CX, err = ParseUnit(v)
	case "cy":
		el.CY, err = ParseUnit(v)
	case "r":
		el.R, err = ParseUnit(v)
	case "x1":
		el.X1, err = ParseUnit(v)
	case "y1":
		el.Y1, err = ParseUnit(v)
	case "x2":
		el.X2, err = ParseUnit(v)
	case "y2":
		el.Y2, err = ParseUnit(v)
	case "points":
		el.Points, err = svgpath.ParseNumbers(v)
		if err == nil && len(el.Points)%2 != 0 {
			// keep the valid pairs
			el.Points = el.Points[:len(el.Points)-1]
			err = errors.New("odd number of coordinates")
		}
	case "d":
		el.PathData, err = svgpath.ParsePathData(v)
	case "href":
		if el.Kind == KindImage {
			el.Href = v
		} else {
			el.Href = strings.TrimPrefix(v, "#")
		}
	case "viewBox":
		var nums []float64
		nums, err = svgpath.ParseNumbers(v)
		if err == nil && len(nums) != 4 {
			err = fmt.Errorf("invalid viewBox %q", v)
		}
		if err == nil {
			el.ViewBox = svgpath.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
		}
	case "preserveAspectRatio":
		el.AspectRatio, err = svgpath.ParseAspectRatio(v)
	case "requiredFeatures":
		el.RequiredFeatures = &v
	case "requiredExtensions":
		el.RequiredExtensions = &v
	case "systemLanguage":
		el.SystemLanguage = &v
	}
	return err
}

func parseUnitOrInherit(v string) (Unit, error) {
	if v == "inherit" {
		return Unit{}, nil
	}
	return ParseUnit(v)
}

func parseUnitOrAuto(v string) (Unit, error) {
	if v == "auto" {
		return Unit{}, nil
	}
	return ParseUnit(v)
}

func parseFontWeight(v string) (*FontWeight, error) {
	var fw FontWeight
	switch v {
	case "inherit":
		return nil, nil
	case "normal", "400":
		fw = WeightNormal
	case "bold", "700":
		fw = WeightBold
	case "bolder":
		fw = WeightBolder
	case "lighter":
		fw = WeightLighter
	case "100":
		fw = Weight100
	case "200":
		fw = Weight200
	case "300":
		fw = Weight300
	case "500":
		fw = Weight500
	case "600":
		fw = Weight600
	case "800":
		fw = Weight800
	case "900":
		fw = Weight900
	default:
		return nil, fmt.Errorf("invalid font weight %q", v)
	}
	return &fw, nil
}

func parseUnits(v string, def Units) (Units, error) {
	switch v {
	case "":
		return def, nil
	case "objectBoundingBox":
		return ObjectBoundingBox, nil
	case "userSpaceOnUse":
		return UserSpaceOnUse, nil
	}
	return def, fmt.Errorf("invalid units %q", v)
}

type svgFunc func(c *docCursor, el *Element) error

var buildFuncs = map[Kind]svgFunc{
	KindTitle:          titleF,
	KindDesc:           descF,
	KindLinearGradient: linearGradientF,
	KindRadialGradient: radialGradientF,
	KindStop:           stopF,
	KindPattern:        patternF,
	KindMarker:         markerF,
	KindClipPath:       clipPathF,
	KindMask:           maskF,
	KindFeGaussianBlur: blurF,
}

func descF(c *docCursor, _ *Element) error {
	c.inDescText = true
	c.doc.Descriptions = append(c.doc.Descriptions, "")
	return nil
}

func titleF(c *docCursor, _ *Element) error {
	c.inTitleText = true
	c.doc.Titles = append(c.doc.Titles, "")
	return nil
}

// readGradAttrs reads the attributes shared by linear and radial gradients
func (c *docCursor) readGradAttrs(el *Element, grad *GradientServer) error {
	var err error
	grad.Units, err = parseUnits(el.Attrs["gradientUnits"], UnitsInherit)
	if err != nil {
		return c.handleError(err.Error())
	}
	if v, ok := el.Attrs["gradientTransform"]; ok {
		grad.Transform, err = svgpath.ParseTransform(v)
		if err != nil {
			return c.handleError(err.Error())
		}
	}
	switch el.Attrs["spreadMethod"] {
	case "reflect":
		grad.Spread = ReflectSpread
	case "repeat":
		grad.Spread = RepeatSpread
	}
	grad.Href = el.Href
	return nil
}

func linearGradientF(c *docCursor, el *Element) error {
	grad := NewLinearGradient(el)
	for _, p := range [...]struct {
		src Unit
		dst *Unit
	}{{el.X1, &grad.X1}, {el.Y1, &grad.Y1}, {el.X2, &grad.X2}, {el.Y2, &grad.Y2}} {
		if p.src.IsSet() {
			*p.dst = p.src
		}
	}
	el.Server = grad
	return c.readGradAttrs(el, &grad.GradientServer)
}

func radialGradientF(c *docCursor, el *Element) error {
	grad := NewRadialGradient(el)
	for _, p := range [...]struct {
		src Unit
		dst *Unit
	}{{el.CX, &grad.CX}, {el.CY, &grad.CY}, {el.R, &grad.R}} {
		if p.src.IsSet() {
			*p.dst = p.src
		}
	}
	var err error
	if v, ok := el.Attrs["fx"]; ok {
		if grad.FX, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	if v, ok := el.Attrs["fy"]; ok {
		if grad.FY, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	el.Server = grad
	return c.readGradAttrs(el, &grad.GradientServer)
}

// stopF stores the offset as a percentage clamped to [0, 100]
func stopF(c *docCursor, el *Element) error {
	v, ok := el.Attrs["offset"]
	if !ok {
		el.Offset = Percent(0)
		return nil
	}
	u, err := ParseUnit(v)
	if err != nil {
		el.Offset = Percent(0)
		return c.handleError(err.Error())
	}
	if u.Type != UnitPercentage {
		u = Percent(u.Value * 100)
	}
	u.Value = clamp01(u.Value/100) * 100
	el.Offset = u
	return nil
}

func patternF(c *docCursor, el *Element) error {
	pat := &Pattern{
		Element:   el,
		X:         el.X,
		Y:         el.Y,
		Width:     el.Width,
		Height:    el.Height,
		ViewBox:   el.ViewBox,
		Transform: svgpath.Identity,
		Href:      el.Href,
	}
	if _, ok := el.Attrs["preserveAspectRatio"]; ok {
		ar := el.AspectRatio
		pat.AspectRatio = &ar
	}
	var err error
	if pat.Units, err = parseUnits(el.Attrs["patternUnits"], UnitsInherit); err != nil {
		return c.handleError(err.Error())
	}
	if pat.ContentUnits, err = parseUnits(el.Attrs["patternContentUnits"], UnitsInherit); err != nil {
		return c.handleError(err.Error())
	}
	if v, ok := el.Attrs["patternTransform"]; ok {
		if pat.Transform, err = svgpath.ParseTransform(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	el.Server = pat
	return nil
}

func markerF(c *docCursor, el *Element) error {
	var err error
	if v, ok := el.Attrs["refX"]; ok {
		if el.RefX, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	if v, ok := el.Attrs["refY"]; ok {
		if el.RefY, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	if v, ok := el.Attrs["markerWidth"]; ok {
		if el.MarkerWidth, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	if v, ok := el.Attrs["markerHeight"]; ok {
		if el.MarkerHeight, err = ParseUnit(v); err != nil {
			return c.handleError(err.Error())
		}
	}
	if el.Attrs["markerUnits"] == "userSpaceOnUse" {
		el.MarkerUnits = UserSpaceUnits
	}
	switch v := el.Attrs["orient"]; v {
	case "", "0":
	case "auto", "auto-start-reverse":
		el.OrientAuto = true
	default:
		if el.OrientAngle, err = parseNumber(strings.TrimSuffix(v, "deg")); err != nil {
			return c.handleError(err.Error())
		}
	}
	return nil
}

func clipPathF(c *docCursor, el *Element) error {
	var err error
	el.ContentUnits, err = parseUnits(el.Attrs["clipPathUnits"], UserSpaceOnUse)
	if err != nil {
		return c.handleError(err.Error())
	}
	return nil
}

func maskF(c *docCursor, el *Element) error {
	var err error
	el.ContentUnits, err = parseUnits(el.Attrs["maskUnits"], ObjectBoundingBox)
	if err != nil {
		return c.handleError(err.Error())
	}
	el.ChildUnits, err = parseUnits(el.Attrs["maskContentUnits"], UserSpaceOnUse)
	if err != nil {
		return c.handleError(err.Error())
	}
	return nil
}

func blurF(c *docCursor, el *Element) error {
	v, ok := el.Attrs["stdDeviation"]
	if !ok {
		return nil
	}
	nums, err := svgpath.ParseNumbers(v)
	if err != nil || len(nums) == 0 || len(nums) > 2 {
		return c.handleError(fmt.Sprintf("invalid stdDeviation %q", v))
	}
	el.StdDeviationX, el.StdDeviationY = nums[0], nums[0]
	if len(nums) == 2 {
		el.StdDeviationY = nums[1]
	}
	return nil
}
