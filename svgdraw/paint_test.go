package svgdraw

import (
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, content string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(content), svgdom.StrictErrorMode)
	require.NoError(t, err)
	return doc
}

func TestSolidColorAlpha(t *testing.T) {
	el := svgdom.NewElement(svgdom.KindRect)
	red := svgdom.NewColor(color.NRGBA{R: 0xff, A: 0xff})
	halfBlue := svgdom.NewColor(color.NRGBA{B: 0xff, A: 0x80})

	for _, test := range []struct {
		server    svgdom.PaintServer
		opacity   float64
		ignore    Attributes
		forStroke bool
		expected  color.NRGBA
	}{
		{red, 0.5, IgnoreNone, false, color.NRGBA{R: 0xff, A: 128}},
		{red, 0.5, IgnoreOpacity, false, color.NRGBA{R: 0xff, A: 0xff}},
		{red, 1. / 3, IgnoreNone, false, color.NRGBA{R: 0xff, A: 85}},
		{halfBlue, 0.5, IgnoreNone, false, color.NRGBA{B: 0xff, A: 64}},
		{halfBlue, 1, IgnoreOpacity, false, color.NRGBA{B: 0xff, A: 0x80}},
		{svgdom.None, 1, IgnoreNone, false, color.NRGBA{}},
		{svgdom.NotSet, 1, IgnoreNone, true, color.NRGBA{}},
		{svgdom.NotSet, 1, IgnoreNone, false, color.NRGBA{A: 0xff}},
	} {
		var cd canvas.CompositeDisposable
		paint := canvas.NewPaint()
		ok := SetColorOrShader(el, test.server, test.opacity, svgpath.Rect{W: 10, H: 10}, paint, test.forStroke, test.ignore, &cd)
		assert.True(t, ok)
		assert.Equal(t, test.expected, paint.Color)
		assert.Nil(t, paint.Shader)
	}
}

func TestDeferredFallback(t *testing.T) {
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<rect id="a" width="10" height="10" fill="url(#missing) green"/>
		<rect id="b" width="10" height="10" fill="url(#missing)"/>
		<rect id="c" width="10" height="10" fill="url(#missing) none"/>
	</svg>`)
	bounds := svgpath.Rect{W: 10, H: 10}

	for _, test := range []struct {
		id       string
		ok       bool
		expected color.NRGBA
	}{
		{"a", true, color.NRGBA{G: 0x80, A: 0xff}},
		{"b", false, color.NRGBA{A: 0xff}},
		{"c", true, color.NRGBA{}},
	} {
		el := doc.Lookup(test.id)
		var cd canvas.CompositeDisposable
		paint := canvas.NewPaint()
		ok := SetColorOrShader(el, el.Fill(), 1, bounds, paint, false, IgnoreNone, &cd)
		assert.Equal(t, test.ok, ok, test.id)
		assert.Equal(t, test.expected, paint.Color, test.id)
	}
}

const gradients = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
	<defs>
		<linearGradient id="empty"/>
		<linearGradient id="single"><stop offset="0.3" stop-color="blue"/></linearGradient>
		<linearGradient id="two" spreadMethod="reflect">
			<stop offset="0" stop-color="red"/>
			<stop offset="0.46" stop-color="blue" stop-opacity="0.5"/>
		</linearGradient>
		<linearGradient id="inherits" xlink:href="#two" x1="10%"/>
		<radialGradient id="radial" cx="0.5" cy="0.5" r="0.5" fx="0.25" fy="0.5">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</radialGradient>
		<linearGradient id="unordered">
			<stop offset="0.8" stop-color="red"/>
			<stop offset="0.2" stop-color="lime"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<linearGradient id="cycle1" xlink:href="#cycle2"/>
		<linearGradient id="cycle2" xlink:href="#cycle1"/>
	</defs>
	<rect id="r" width="10" height="10"/>
</svg>`

func TestGradientStops(t *testing.T) {
	doc := parseDoc(t, gradients)
	el := doc.Lookup("r")
	bounds := svgpath.Rect{X: 5, Y: 5, W: 20, H: 10}
	b := newBuilder(IgnoreNone, nil)

	lin := func(id string) *svgdom.LinearGradient {
		return doc.Lookup(id).Server.(*svgdom.LinearGradient)
	}

	// no stops : transparent color shader
	shader := b.createLinearGradient(el, lin("empty"), bounds, 1)
	require.IsType(t, &canvas.ColorShader{}, shader)
	assert.Equal(t, color.NRGBA{}, shader.(*canvas.ColorShader).Color)

	// one stop : plain color
	shader = b.createLinearGradient(el, lin("single"), bounds, 0.5)
	require.IsType(t, &canvas.ColorShader{}, shader)
	assert.Equal(t, color.NRGBA{B: 0xff, A: 128}, shader.(*canvas.ColorShader).Color)

	shader = b.createLinearGradient(el, lin("two"), bounds, 1)
	require.IsType(t, &canvas.LinearGradientShader{}, shader)
	ls := shader.(*canvas.LinearGradientShader)
	assert.Equal(t, []float64{0, 0.5}, ls.Positions) // rounded to one decimal
	assert.Equal(t, []color.NRGBA{{R: 0xff, A: 0xff}, {B: 0xff, A: 128}}, ls.Colors)
	assert.Equal(t, canvas.Mirror, ls.Mode)
	assert.Equal(t, canvas.Point{X: 0, Y: 0}, ls.Start)
	assert.Equal(t, canvas.Point{X: 1, Y: 0}, ls.End)
	assert.Equal(t, svgpath.Matrix2D{A: 20, D: 10, E: 5, F: 5}, ls.LocalMatrix)

	// stops are inherited through href, not the other attributes
	shader = b.createLinearGradient(el, lin("inherits"), bounds, 1)
	ls = shader.(*canvas.LinearGradientShader)
	assert.Len(t, ls.Colors, 2)
	assert.Equal(t, canvas.Clamp, ls.Mode)
	assert.InDelta(t, 0.1, ls.Start.X, 1e-9)

	// stops keep the document order, offsets never decrease
	shader = b.createLinearGradient(el, lin("unordered"), bounds, 1)
	require.IsType(t, &canvas.LinearGradientShader{}, shader)
	ls = shader.(*canvas.LinearGradientShader)
	assert.Equal(t, []float64{0.8, 0.8, 1}, ls.Positions)
	assert.Equal(t, []color.NRGBA{{R: 0xff, A: 0xff}, {G: 0xff, A: 0xff}, {B: 0xff, A: 0xff}}, ls.Colors)

	// cycles are broken
	assert.False(t, hasStops(el, &lin("cycle1").GradientServer))
	assert.Len(t, gradientChain(el, &lin("cycle1").GradientServer), 2)

	rad := doc.Lookup("radial").Server.(*svgdom.RadialGradient)
	shader = b.createTwoPointConicalGradient(el, rad, bounds, 1)
	require.IsType(t, &canvas.TwoPointConicalShader{}, shader)
	cs := shader.(*canvas.TwoPointConicalShader)
	assert.Equal(t, canvas.Point{X: 0.5, Y: 0.5}, cs.Start)
	assert.Equal(t, 0., cs.StartRadius)
	assert.Equal(t, canvas.Point{X: 0.25, Y: 0.5}, cs.End)
	assert.InDelta(t, 0.5, cs.EndRadius, 1e-9)
}

func TestGradientPaint(t *testing.T) {
	doc := parseDoc(t, gradients)
	el := doc.Lookup("r")

	// zero stops : painted as none
	var cd canvas.CompositeDisposable
	paint := canvas.NewPaint()
	ok := SetColorOrShader(el, &svgdom.DeferredServer{ID: "empty"}, 1, svgpath.Rect{W: 10, H: 10}, paint, false, IgnoreNone, &cd)
	assert.False(t, ok)

	paint = canvas.NewPaint()
	ok = SetColorOrShader(el, &svgdom.DeferredServer{ID: "empty", Fallback: svgdom.NewColor(color.NRGBA{G: 0xff, A: 0xff})},
		1, svgpath.Rect{W: 10, H: 10}, paint, false, IgnoreNone, &cd)
	assert.True(t, ok)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, paint.Color)

	// bounding box units with a flat box
	paint = canvas.NewPaint()
	ok = SetColorOrShader(el, &svgdom.DeferredServer{ID: "two"}, 1, svgpath.Rect{W: 10}, paint, false, IgnoreNone, &cd)
	assert.False(t, ok)

	paint = canvas.NewPaint()
	ok = SetColorOrShader(el, &svgdom.DeferredServer{ID: "two"}, 1, svgpath.Rect{W: 10, H: 10}, paint, false, IgnoreNone, &cd)
	assert.True(t, ok)
	assert.IsType(t, &canvas.LinearGradientShader{}, paint.Shader)
	assert.Equal(t, 1, cd.Len())
}

func TestPatternChain(t *testing.T) {
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
		<pattern id="base" width="10" height="20" viewBox="0 0 5 5" patternContentUnits="objectBoundingBox">
			<circle r="2"/>
		</pattern>
		<pattern id="derived" xlink:href="#base" x="3" patternUnits="userSpaceOnUse" preserveAspectRatio="none"/>
		<pattern id="loop1" xlink:href="#loop2" width="1"/>
		<pattern id="loop2" xlink:href="#loop1" height="1"/>
		<rect id="r" width="10" height="10"/>
	</svg>`)
	el := doc.Lookup("r")
	derived := doc.Lookup("derived").Server.(*svgdom.Pattern)

	chain := patternChain(el, derived)
	require.Len(t, chain, 2)
	attrs, ok := resolvePatternAttrs(chain)
	require.True(t, ok)
	assert.Equal(t, doc.Lookup("base"), attrs.content)
	assert.Equal(t, svgdom.User(3), attrs.x)
	assert.Equal(t, svgdom.User(0), attrs.y)
	assert.Equal(t, svgdom.User(10), attrs.width)
	assert.Equal(t, svgdom.User(20), attrs.height)
	assert.Equal(t, svgdom.UserSpaceOnUse, attrs.units)
	assert.Equal(t, svgdom.ObjectBoundingBox, attrs.contentUnits)
	assert.Equal(t, svgpath.Rect{W: 5, H: 5}, attrs.viewBox)
	assert.Equal(t, svgpath.AlignNone, attrs.aspectRatio.Align)

	// defaults
	attrs, ok = resolvePatternAttrs(patternChain(el, doc.Lookup("base").Server.(*svgdom.Pattern)))
	require.True(t, ok)
	assert.Equal(t, svgdom.ObjectBoundingBox, attrs.units)
	assert.Equal(t, svgpath.AlignXMidYMid, attrs.aspectRatio.Align)

	// cycles terminate; no content
	chain = patternChain(el, doc.Lookup("loop1").Server.(*svgdom.Pattern))
	assert.Len(t, chain, 2)
	_, ok = resolvePatternAttrs(chain)
	assert.False(t, ok)
}

func TestPatternShader(t *testing.T) {
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<pattern id="p" x="1" y="2" width="4" height="5" patternUnits="userSpaceOnUse" patternTransform="scale(2)">
			<rect width="2" height="2" fill="red"/>
		</pattern>
		<pattern id="empty" width="4" height="5"/>
		<rect id="r" width="10" height="10" fill="url(#p) green"/>
	</svg>`)
	el := doc.Lookup("r")

	var cd canvas.CompositeDisposable
	paint := canvas.NewPaint()
	ok := SetColorOrShader(el, el.Fill(), 1, svgpath.Rect{W: 10, H: 10}, paint, false, IgnoreNone, &cd)
	require.True(t, ok)
	require.IsType(t, &canvas.PictureShader{}, paint.Shader)
	ps := paint.Shader.(*canvas.PictureShader)
	assert.Equal(t, canvas.Repeat, ps.TileX)
	assert.Equal(t, canvas.Repeat, ps.TileY)
	assert.Equal(t, svgpath.Rect{W: 4, H: 5}, ps.Tile)
	assert.Equal(t, svgpath.NewScale(2, 2).Mult(svgpath.NewTranslation(1, 2)), ps.LocalMatrix)
	assert.NotEmpty(t, ps.Picture.Ops())

	// the picture is released with the shader
	cd.Dispose()
	assert.Equal(t, 1, ps.DisposeCount())
	assert.Equal(t, 1, ps.Picture.DisposeCount())

	// patterns never use the fallback
	paint = canvas.NewPaint()
	ok = SetColorOrShader(el, &svgdom.DeferredServer{ID: "empty", Fallback: svgdom.None}, 1, svgpath.Rect{W: 10, H: 10}, paint, false, IgnoreNone, &cd)
	assert.False(t, ok)
}

func TestDash(t *testing.T) {
	bounds := svgpath.Rect{W: 100, H: 100}
	el := svgdom.NewElement(svgdom.KindPath)

	el.Style.StrokeDashArray = []svgdom.Unit{svgdom.User(5)}
	effect := createDash(el, bounds)
	require.NotNil(t, effect)
	assert.Equal(t, []float64{5, 5}, effect.Intervals)
	assert.Equal(t, 0., effect.Phase)

	el.Style.StrokeDashArray = []svgdom.Unit{svgdom.User(5), svgdom.User(1), svgdom.Percent(10)}
	el.Style.StrokeDashOffset = svgdom.User(2)
	effect = createDash(el, bounds)
	require.NotNil(t, effect)
	assert.Equal(t, []float64{5, 1, 10, 5, 1, 10}, effect.Intervals)
	assert.Equal(t, 2., effect.Phase)

	el.Style.StrokeDashArray = []svgdom.Unit{svgdom.User(5), svgdom.User(-1)}
	assert.Nil(t, createDash(el, bounds))

	el.Style.StrokeDashArray = []svgdom.Unit{svgdom.User(0), svgdom.User(0)}
	assert.Nil(t, createDash(el, bounds))

	el.Style.StrokeDashArray = []svgdom.Unit{}
	assert.Nil(t, createDash(el, bounds))
}

func TestStrokePaint(t *testing.T) {
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<path id="p" d="M0 0 L10 10" stroke="blue" stroke-width="5%" stroke-linecap="round"
			stroke-linejoin="bevel" stroke-miterlimit="7" stroke-dasharray="3" stroke-opacity="0.5"/>
	</svg>`)
	el := doc.Lookup("p")
	bounds := svgpath.Rect{W: 100, H: 100}
	require.True(t, isValidStroke(el, bounds))

	var cd canvas.CompositeDisposable
	paint := newBuilder(IgnoreNone, nil).strokePaint(el, bounds, &cd)
	require.NotNil(t, paint)
	assert.Equal(t, canvas.Stroke, paint.Style)
	assert.Equal(t, canvas.RoundCap, paint.StrokeCap)
	assert.Equal(t, canvas.BevelJoin, paint.StrokeJoin)
	assert.Equal(t, 7., paint.StrokeMiter)
	assert.InDelta(t, 5., paint.StrokeWidth, 1e-9)
	assert.Equal(t, color.NRGBA{B: 0xff, A: 128}, paint.Color)
	require.NotNil(t, paint.PathEffect)
	assert.Equal(t, []float64{3, 3}, paint.PathEffect.Intervals)
	assert.Equal(t, 2, cd.Len()) // dash and paint

	el.Style.StrokeWidth = svgdom.User(0)
	assert.False(t, isValidStroke(el, bounds))
	el.Style.StrokeWidth = svgdom.User(1)
	el.Style.Stroke = svgdom.None
	assert.False(t, isValidStroke(el, bounds))
}

func TestOpacityPaint(t *testing.T) {
	assert.Nil(t, opacityPaint(1))
	p := opacityPaint(0.5)
	require.NotNil(t, p)
	assert.Equal(t, canvas.StrokeAndFill, p.Style)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 128}, p.Color)
}

type fakeFonts struct {
	available map[string]bool
	requested []string
	returned  []*canvas.Typeface
}

func (f *fakeFonts) DefaultFamily() string { return "Default" }

func (f *fakeFonts) MatchFamily(family string, weight, width int, slant canvas.FontSlant) *canvas.Typeface {
	f.requested = append(f.requested, family)
	name := "Default"
	if f.available[family] {
		name = family
	}
	tf := &canvas.Typeface{Family: name, Weight: weight, Width: width, Slant: slant}
	f.returned = append(f.returned, tf)
	return tf
}

func TestTypeface(t *testing.T) {
	assert.Equal(t, []string{"Foo", "Bar", "Baz Qux"}, splitFontFamily(` Foo, 'Bar' ,"Baz Qux",,`))

	fonts := &fakeFonts{available: map[string]bool{"Bar": true}}
	tf := matchTypeface(fonts, []string{"Foo", "Bar"}, 700, 5, canvas.Italic)
	require.NotNil(t, tf)
	assert.Equal(t, "Bar", tf.Family)
	assert.Equal(t, 700, tf.Weight)
	assert.Equal(t, canvas.Italic, tf.Slant)
	assert.Equal(t, []string{"Foo", "Bar"}, fonts.requested)
	// the disguised default is released
	assert.True(t, fonts.returned[0].IsDisposed())
	assert.False(t, fonts.returned[1].IsDisposed())

	// the default family is accepted when requested
	fonts = &fakeFonts{}
	tf = matchTypeface(fonts, []string{"Default"}, 400, 5, canvas.Upright)
	require.NotNil(t, tf)
	assert.Equal(t, "Default", tf.Family)

	assert.Nil(t, matchTypeface(&fakeFonts{}, []string{"Foo", "Bar"}, 400, 5, canvas.Upright))
}

func TestPaintText(t *testing.T) {
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg">
		<g font-size="20">
			<text id="t" font-family="Foo, 'Bar'" font-weight="bold" font-style="oblique"
				font-stretch="Condensed" text-anchor="middle">A</text>
			<text id="em" font-size="2em">B</text>
		</g>
		<text id="default">C</text>
	</svg>`)
	fonts := &fakeFonts{available: map[string]bool{"Bar": true}}
	b := newBuilder(IgnoreNone, fonts)
	bounds := svgpath.Rect{W: 100, H: 100}

	var cd canvas.CompositeDisposable
	paint := canvas.NewPaint()
	b.setPaintText(doc.Lookup("t"), bounds, paint, &cd)
	assert.Equal(t, canvas.AlignCenter, paint.TextAlign)
	assert.Equal(t, 20., paint.TextSize)
	require.NotNil(t, paint.Typeface)
	assert.Equal(t, "Bar", paint.Typeface.Family)
	assert.Equal(t, canvas.WeightBold, paint.Typeface.Weight)
	assert.Equal(t, 3, paint.Typeface.Width)
	assert.Equal(t, canvas.Oblique, paint.Typeface.Slant)

	paint = canvas.NewPaint()
	b.setPaintText(doc.Lookup("em"), bounds, paint, &cd)
	assert.Equal(t, 40., paint.TextSize)

	paint = canvas.NewPaint()
	b.setPaintText(doc.Lookup("default"), bounds, paint, &cd)
	assert.Equal(t, float64(defaultFontSize), paint.TextSize)
	assert.Equal(t, canvas.AlignLeft, paint.TextAlign)
}
