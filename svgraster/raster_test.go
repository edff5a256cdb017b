package svgraster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toPngBytes(m image.Image) ([]byte, error) {
	var b bytes.Buffer
	err := png.Encode(&b, m)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func parse(t *testing.T, content string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(content), svgdom.StrictErrorMode)
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, content string) *image.RGBA {
	t.Helper()
	doc := parse(t, content)
	var target Target
	img, err := target.Render(doc, doc.Width(), doc.Height(), 1)
	require.NoError(t, err)
	return img
}

func assertColor(t *testing.T, expected color.RGBA, img *image.RGBA, x, y int) {
	t.Helper()
	got := img.RGBAAt(x, y)
	assert.InDelta(t, expected.R, got.R, 3, "red at (%d, %d)", x, y)
	assert.InDelta(t, expected.G, got.G, 3, "green at (%d, %d)", x, y)
	assert.InDelta(t, expected.B, got.B, 3, "blue at (%d, %d)", x, y)
	assert.InDelta(t, expected.A, got.A, 3, "alpha at (%d, %d)", x, y)
}

var (
	red         = color.RGBA{R: 0xff, A: 0xff}
	blue        = color.RGBA{B: 0xff, A: 0xff}
	transparent = color.RGBA{}
)

func TestFill(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<rect width="10" height="10" fill="red"/>
	</svg>`)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	assertColor(t, red, img, 5, 5)
	assertColor(t, transparent, img, 15, 15)
}

func TestStroke(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<line x1="0" y1="10" x2="20" y2="10" stroke="blue" stroke-width="4"/>
		<line x1="0" y1="2" x2="20" y2="2" stroke="blue" stroke-dasharray="5"/>
	</svg>`)
	assertColor(t, blue, img, 10, 10)
	assertColor(t, blue, img, 10, 9)
	assertColor(t, transparent, img, 10, 15)
	// dashes
	assert.Greater(t, img.RGBAAt(2, 2).A, uint8(100))
	assertColor(t, transparent, img, 7, 2)
}

func TestTargetScaling(t *testing.T) {
	doc := parse(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<rect width="10" height="10" fill="red"/>
	</svg>`)
	var target Target
	img, err := target.Render(doc, 20, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())
	assertColor(t, red, img, 15, 15)
	assertColor(t, transparent, img, 25, 25)

	// the buffer is reused and cleared
	img.SetRGBA(30, 30, blue)
	img2, err := target.Render(doc, 20, 20, 2)
	require.NoError(t, err)
	assert.Same(t, img, img2)
	assertColor(t, transparent, img2, 30, 30)

	target.IgnorePixelScaling = true
	img3, err := target.Render(doc, 20, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img3.Bounds())

	_, err = target.Render(doc, 0, 20, 1)
	assert.Error(t, err)
}

func TestBackground(t *testing.T) {
	doc := parse(t, `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"/>`)
	target := Target{Options: Options{Background: color.White}}
	img, err := target.Render(doc, 4, 4, 1)
	require.NoError(t, err)
	assertColor(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img, 1, 1)
}

func TestOpacityLayer(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<g opacity="0.5">
			<rect width="10" height="10" fill="red"/>
			<rect x="5" y="5" width="10" height="10" fill="red"/>
		</g>
	</svg>`)
	// the group is composited as a whole
	assertColor(t, color.RGBA{R: 128, A: 128}, img, 7, 7)
	assertColor(t, color.RGBA{R: 128, A: 128}, img, 2, 2)
}

func TestClipPath(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<clipPath id="c"><rect x="5" y="5" width="10" height="10"/></clipPath>
		<rect width="20" height="20" fill="red" clip-path="url(#c)"/>
	</svg>`)
	assertColor(t, red, img, 10, 10)
	assertColor(t, transparent, img, 2, 2)
	assertColor(t, transparent, img, 17, 17)
}

func TestMask(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<mask id="white"><rect width="20" height="20" fill="white"/></mask>
		<mask id="black"><rect width="20" height="20" fill="black"/></mask>
		<rect width="10" height="20" fill="red" mask="url(#white)"/>
		<rect x="10" width="10" height="20" fill="red" mask="url(#black)"/>
	</svg>`)
	assertColor(t, red, img, 5, 10)
	assertColor(t, transparent, img, 15, 10)
}

func TestGradient(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<linearGradient id="g">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<rect width="20" height="20" fill="url(#g)"/>
	</svg>`)
	left, right := img.RGBAAt(1, 10), img.RGBAAt(18, 10)
	assert.Greater(t, left.R, uint8(200))
	assert.Less(t, left.B, uint8(50))
	assert.Greater(t, right.B, uint8(200))
	assert.Less(t, right.R, uint8(50))
	assert.Equal(t, uint8(0xff), left.A)
}

func TestPattern(t *testing.T) {
	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<pattern id="p" width="10" height="10" patternUnits="userSpaceOnUse">
			<rect width="5" height="5" fill="red"/>
		</pattern>
		<rect width="20" height="20" fill="url(#p)"/>
	</svg>`)
	assertColor(t, red, img, 2, 2)
	assertColor(t, red, img, 12, 12)
	assertColor(t, transparent, img, 7, 7)
	assertColor(t, transparent, img, 17, 2)
}

func TestImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for _, p := range [...]image.Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		src.SetRGBA(p.X, p.Y, color.RGBA{G: 0xff, A: 0xff})
	}
	data, err := toPngBytes(src)
	require.NoError(t, err)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	img := render(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<image width="10" height="10" href="`+uri+`"/>
	</svg>`)
	assertColor(t, color.RGBA{G: 0xff, A: 0xff}, img, 5, 5)
	assertColor(t, transparent, img, 15, 15)
}

func TestRasterSVGToImage(t *testing.T) {
	img, err := RasterSVGToImage(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8 6">
		<circle cx="4" cy="3" r="2" fill="blue"/>
	</svg>`))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
	assertColor(t, blue, img, 4, 3)
	assertColor(t, transparent, img, 0, 0)

	_, err = RasterSVGToImage(strings.NewReader("<g/>"))
	assert.Error(t, err)
}
