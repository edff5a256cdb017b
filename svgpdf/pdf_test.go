package svgpdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, content string) string {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(content), svgdom.StrictErrorMode)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Render(doc, &out, Options{}))
	require.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	return out.String()
}

func TestFlatten(t *testing.T) {
	var p svgpath.Path
	p.AddRect(0, 0, 10, 20)
	polygons := flatten(p)
	require.Len(t, polygons, 1)
	assert.Equal(t, fpdf.PointType{X: 10, Y: 20}, polygons[0][2])

	p.Clear()
	p.AddEllipse(5, 5, 5, 5)
	p.AddRect(20, 20, 30, 30)
	polygons = flatten(p)
	require.Len(t, polygons, 2)
	for _, pt := range polygons[0] {
		assert.InDelta(t, 5, pt.X, 5.01)
		assert.InDelta(t, 5, pt.Y, 5.01)
	}

	// degenerate sub-paths are dropped
	p.Clear()
	p.AddPolyline([]float64{0, 0, 10, 10}, false)
	assert.Empty(t, flatten(p))
}

func TestRenderShapes(t *testing.T) {
	out := renderString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
		<rect x="10" y="10" width="20" height="20" fill="red" stroke="blue" stroke-width="2"
			stroke-dasharray="4 2" stroke-linecap="round"/>
		<circle cx="70" cy="25" r="10" fill="green" fill-rule="evenodd" opacity="0.5"/>
	</svg>`)
	assert.Contains(t, out, "1.000 0.000 0.000 rg") // red fill
	assert.Contains(t, out, "0.000 0.000 1.000 RG") // blue stroke
	assert.Contains(t, out, " d")                   // dash pattern
	assert.Contains(t, out, "1 J")                  // round caps
	assert.Contains(t, out, "f*")
	assert.Regexp(t, `/ca 0\.(498|502)`, out)
}

func TestRenderClip(t *testing.T) {
	out := renderString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<clipPath id="c"><circle cx="10" cy="10" r="5"/></clipPath>
		<rect width="20" height="20" fill="red" clip-path="url(#c)"/>
	</svg>`)
	assert.Contains(t, out, "W n")
}

func TestRenderGradients(t *testing.T) {
	out := renderString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<linearGradient id="two">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<radialGradient id="radial">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</radialGradient>
		<rect width="10" height="10" fill="url(#two)"/>
		<rect x="10" width="10" height="10" fill="url(#radial)"/>
	</svg>`)
	// native shading for the linear gradient
	assert.Contains(t, out, "/ShadingType 2")
	// the radial one is rasterized
	assert.Contains(t, out, "/Subtype /Image")
}

func TestRenderImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{G: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	out := renderString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<image width="10" height="10" href="`+uri+`"/>
	</svg>`)
	assert.Contains(t, out, "/Subtype /Image")
}

func TestRendererState(t *testing.T) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	rd := NewRenderer(pdf)

	rd.Save()
	rd.Concat(svgpath.NewScale(2, 2))
	rd.SaveLayer(&canvas.Paint{Color: color.NRGBA{A: 0x80}})
	assert.InDelta(t, 0.5, rd.alpha, 0.01)
	rd.ClipRect(svgpath.Rect{W: 10, H: 10})
	assert.Equal(t, 1, rd.clips)

	rd.SaveLayer(&canvas.Paint{Color: color.NRGBA{A: 0xff}, BlendMode: canvas.DstIn})
	assert.True(t, rd.skip)
	rd.Restore()
	assert.False(t, rd.skip)

	rd.Restore()
	assert.Equal(t, 0, rd.clips)
	assert.Equal(t, 1., rd.alpha)
	rd.Restore()
	assert.Equal(t, svgpath.Identity, rd.TotalMatrix())

	// unbalanced restore is a no-op
	rd.Restore()
	assert.NoError(t, pdf.Error())
}

func TestRenderSVGToPDF(t *testing.T) {
	var out bytes.Buffer
	err := RenderSVGToPDF(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 30 20">
		<path d="M0 0 Q 15 20 30 0 C 20 10 10 10 0 0 Z" fill="navy"/>
	</svg>`), &out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))

	err = RenderSVGToPDF(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"/>`), &out)
	assert.Error(t, err)
}
