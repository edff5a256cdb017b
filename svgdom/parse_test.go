package svgdom

import (
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"
	width="200" height="100" viewBox="0 0 400 200">
	<title>Sample</title>
	<desc>Shapes and servers</desc>
	<style>
		.warm { fill: orange }
		#special { stroke-width: 3 }
		rect.thin { stroke-width: 0.5 }
		g > rect { fill: blue }
	</style>
	<defs>
		<linearGradient id="lg" x2="0.5" gradientUnits="userSpaceOnUse" spreadMethod="reflect">
			<stop offset="0.25" stop-color="red"/>
			<stop offset="150%" style="stop-color: currentColor; stop-opacity: 0.5" color="#00ff00"/>
		</linearGradient>
		<radialGradient id="rg" xlink:href="#lg" fx="10%"/>
		<pattern id="pat" width="10" height="10" patternUnits="userSpaceOnUse" preserveAspectRatio="xMinYMin">
			<circle r="2"/>
		</pattern>
	</defs>
	<g fill="red" stroke="url(#lg) blue" stroke-dasharray="5, 2" color="rgb(10, 20, 30)">
		<rect id="special" class="warm thin" x="10%" y="1in" width="20" height="10" rx="2"/>
		<ellipse cx="5" cy="6" rx="3" ry="4" style="fill: currentColor; opacity: 0.5"/>
		<path d="M 0 0 L 10 10 Z" fill="none" transform="translate(3 4)"/>
		<polyline points="0 0 10 0 10 10"/>
	</g>
	<text x="1 2" dy="3">Hello <tspan font-weight="bold">big</tspan> world</text>
</svg>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(sample), StrictErrorMode)
	require.NoError(t, err)
	return doc
}

func TestParseTree(t *testing.T) {
	doc := parseSample(t)
	assert.Equal(t, KindSVG, doc.Root.Kind)
	assert.Equal(t, []string{"Sample"}, doc.Titles)
	assert.Equal(t, []string{"Shapes and servers"}, doc.Descriptions)
	assert.Equal(t, svgpath.Rect{X: 0, Y: 0, W: 400, H: 200}, doc.Root.ViewBox)
	assert.Equal(t, 200., doc.Width())
	assert.Equal(t, 100., doc.Height())

	rect := doc.Lookup("#special")
	require.NotNil(t, rect)
	assert.Equal(t, KindRect, rect.Kind)
	assert.Equal(t, Percent(10), rect.X)
	assert.Equal(t, Unit{Value: 1, Type: UnitInch}, rect.Y)
	assert.Equal(t, 96., rect.Y.ToDeviceValue(Vertical, rect, svgpath.Rect{}))
	assert.Equal(t, 40., rect.X.ToDeviceValue(Horizontal, rect, svgpath.Rect{W: 400, H: 200}))
	assert.True(t, rect.HasClass("thin"))
	assert.Same(t, doc, rect.Document())
	assert.Equal(t, KindGroup, rect.Parent.Kind)
}

func TestParseStyleCascade(t *testing.T) {
	doc := parseSample(t)
	g := doc.Root.Children[4]
	require.Equal(t, KindGroup, g.Kind)
	rect, ellipse, path, polyline := g.Children[0], g.Children[1], g.Children[2], g.Children[3]

	// class rule overrides the inherited fill
	assert.Equal(t, NewColor(color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}), rect.Fill())
	// the last matching rule wins
	assert.Equal(t, User(0.5), rect.StrokeWidth())
	assert.Equal(t, []Unit{User(5), User(2)}, rect.StrokeDashArray())

	// currentColor is resolved from the inherited color property
	assert.Equal(t, NewColor(color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}), ellipse.Fill())
	assert.Equal(t, 0.5, ellipse.Opacity())
	// opacity is not inherited
	assert.Equal(t, 1., g.Opacity())

	assert.Same(t, None, path.Fill())
	assert.Equal(t, svgpath.NewTranslation(3, 4), path.Transform)
	assert.Len(t, path.PathData, 3)

	assert.Equal(t, NewColor(color.NRGBA{R: 0xff, A: 0xff}), polyline.Fill())
	stroke, ok := polyline.Stroke().(*DeferredServer)
	require.True(t, ok)
	assert.Equal(t, "lg", stroke.ID)
	assert.Equal(t, NewColor(color.NRGBA{B: 0xff, A: 0xff}), stroke.Fallback)
	assert.Equal(t, []float64{0, 0, 10, 0, 10, 10}, polyline.Points)
}

func TestParseServers(t *testing.T) {
	doc := parseSample(t)

	lg, ok := doc.Lookup("lg").Server.(*LinearGradient)
	require.True(t, ok)
	assert.Equal(t, User(0.5), lg.X2)
	assert.Equal(t, Percent(0), lg.Y2)
	assert.Equal(t, UserSpaceOnUse, lg.EffectiveUnits())
	assert.Equal(t, ReflectSpread, lg.Spread)

	stops := doc.Lookup("lg").Children
	require.Len(t, stops, 2)
	assert.Equal(t, Percent(25), stops[0].Offset)
	assert.Equal(t, Percent(100), stops[1].Offset) // clamped
	assert.Equal(t, NewColor(color.NRGBA{G: 0xff, A: 0xff}), stops[1].StopColor())
	assert.Equal(t, 0.5, stops[1].StopOpacity())

	rg, ok := doc.Lookup("rg").Server.(*RadialGradient)
	require.True(t, ok)
	assert.Equal(t, "lg", rg.Href)
	assert.Equal(t, ObjectBoundingBox, rg.EffectiveUnits())
	fx, fy := rg.Focal()
	assert.Equal(t, Percent(10), fx)
	assert.Equal(t, Percent(50), fy)

	pat, ok := doc.Lookup("pat").Server.(*Pattern)
	require.True(t, ok)
	assert.Equal(t, User(10), pat.Width)
	assert.Equal(t, UserSpaceOnUse, pat.Units)
	assert.Equal(t, UnitsInherit, pat.ContentUnits)
	require.NotNil(t, pat.AspectRatio)
	assert.Equal(t, svgpath.AlignXMinYMin, pat.AspectRatio.Align)
}

func TestParseText(t *testing.T) {
	doc := parseSample(t)
	text := doc.Root.Children[5]
	require.Equal(t, KindText, text.Kind)
	assert.Equal(t, "Hello big world", text.TextContent())
	assert.Equal(t, []Unit{User(1), User(2)}, text.TextX)
	assert.Equal(t, []Unit{User(3)}, text.DY)
	require.Len(t, text.Children, 3)
	assert.Equal(t, WeightBold, text.Children[1].FontWeight())
	assert.Equal(t, WeightNormal, text.FontWeight())
}

func TestErrorModes(t *testing.T) {
	const src = `<svg><unknown/><rect width="abc"/></svg>`
	_, err := Parse(strings.NewReader(src), StrictErrorMode)
	assert.Error(t, err)

	doc, err := Parse(strings.NewReader(src), IgnoreErrorMode)
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, KindUnknown, doc.Root.Children[0].Kind)
	assert.False(t, doc.Root.Children[1].Width.IsSet())

	_, err = Parse(strings.NewReader(`<g/>`), IgnoreErrorMode)
	assert.ErrorIs(t, err, errInvalidSVG)

	_, err = Parse(strings.NewReader(`<svg><rect id=""/></svg>`), IgnoreErrorMode)
	assert.ErrorIs(t, err, errZeroLengthID)
}

func TestParseStyleAttribute(t *testing.T) {
	for _, test := range []struct {
		style       string
		strokeWidth Unit
		opacity     float64
	}{
		{"stroke-width: 3", User(3), 1},
		{"stroke-width: 3;", User(3), 1},
		{" opacity:0.5 ; stroke-width:2 ", User(2), 0.5},
		{"stroke-width:4;opacity:0.25;;", User(4), 0.25},
	} {
		src := `<svg><rect width="1" height="1" style="` + test.style + `"/></svg>`
		doc, err := Parse(strings.NewReader(src), StrictErrorMode)
		require.NoError(t, err, test.style)
		rect := doc.Root.Children[0]
		assert.Equal(t, test.strokeWidth, rect.Style.StrokeWidth, test.style)
		opacity := 1.
		if rect.Style.Opacity != nil {
			opacity = *rect.Style.Opacity
		}
		assert.Equal(t, test.opacity, opacity, test.style)
	}

	doc, err := Parse(strings.NewReader(`<svg><stop style="stop-opacity: 0.4"/></svg>`), StrictErrorMode)
	require.NoError(t, err)
	assert.Equal(t, "0.4", doc.Root.Children[0].Attrs["stop-opacity"])
}

func TestParseColor(t *testing.T) {
	for _, test := range []struct {
		in  string
		exp color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#FBD9BD", color.NRGBA{0xfb, 0xd9, 0xbd, 255}},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}},
		{"rgb(100%, 0%, 50%)", color.NRGBA{255, 0, 128, 255}},
		{"rgba(1, 2, 3, 0.5)", color.NRGBA{1, 2, 3, 128}},
		{"RoyalBlue", color.NRGBA{65, 105, 225, 255}},
		{"transparent", color.NRGBA{}},
	} {
		got, err := ParseColor(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.exp, got, test.in)
	}
	for _, bad := range []string{"", "#12", "rgb(1,2)", "notacolor"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, errInvalidColor, bad)
	}
}

func TestParsePaint(t *testing.T) {
	ps, err := ParsePaint("none")
	require.NoError(t, err)
	assert.Same(t, None, ps)

	ps, err = ParsePaint("inherit")
	require.NoError(t, err)
	assert.Nil(t, ps)

	ps, err = ParsePaint("url('#grad')")
	require.NoError(t, err)
	assert.Equal(t, &DeferredServer{ID: "grad"}, ps)

	ps, err = ParsePaint("url(#grad) none")
	require.NoError(t, err)
	assert.Same(t, None, ps.(*DeferredServer).Fallback)
}

func TestUnits(t *testing.T) {
	u, err := ParseUnit("2.5EM")
	require.NoError(t, err)
	assert.Equal(t, Unit{Value: 2.5, Type: UnitEm}, u)

	// em are relative to the inherited font size
	parent := NewElement(KindGroup)
	parent.Style.FontSize = User(10)
	child := NewElement(KindRect)
	parent.AppendChild(child)
	assert.Equal(t, 25., u.ToDeviceValue(Horizontal, child, svgpath.Rect{}))
	assert.Equal(t, 40., u.ToDeviceValue(Horizontal, nil, svgpath.Rect{}))

	diag := Percent(100).ToDeviceValue(Other, nil, svgpath.Rect{W: 3, H: 4})
	assert.InDelta(t, 3.5355, diag, 1e-4)

	_, err = ParseUnit("12furlongs")
	assert.Error(t, err)

	list, err := ParseUnitList("1, 2mm 3%")
	require.NoError(t, err)
	assert.Equal(t, []Unit{User(1), {Value: 2, Type: UnitMillimeter}, Percent(3)}, list)
}

func TestInheritance(t *testing.T) {
	root := NewElement(KindSVG)
	g := NewElement(KindGroup)
	rect := NewElement(KindRect)
	root.AppendChild(g)
	g.AppendChild(rect)

	assert.Same(t, NotSet, rect.Fill())
	assert.Nil(t, rect.Stroke())
	assert.Equal(t, User(1), rect.StrokeWidth())
	assert.Equal(t, 4., rect.StrokeMiterLimit())
	assert.Equal(t, "visible", rect.Visibility())

	op := 2.
	g.Style.FillOpacity = &op
	g.Style.Stroke = None
	rule := EvenOdd
	root.Style.FillRule = &rule
	assert.Equal(t, 1., rect.FillOpacity()) // clamped
	assert.Same(t, None, rect.Stroke())
	assert.Equal(t, EvenOdd, rect.FillRule())

	doc := NewDocument(root)
	rect.ID = "r"
	assert.Nil(t, doc.Lookup("r")) // ids are registered when indexing
	doc = NewDocument(root)
	assert.Same(t, rect, doc.Lookup("r"))
}
