package svgpdf

import (
	"errors"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgdraw"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// number of segments used to approximate a curve
const curveSteps = 8

// flatten approximates each sub-path of p by a polygon.
func flatten(p svgpath.Path) [][]fpdf.PointType {
	var (
		out     [][]fpdf.PointType
		current []fpdf.PointType
		last    fpdf.PointType
	)
	point := func(x, y float64) fpdf.PointType { return fpdf.PointType{X: x, Y: y} }
	flush := func() {
		if len(current) >= 3 {
			out = append(out, current)
		}
		current = nil
	}
	for _, op := range p {
		switch op := op.(type) {
		case svgpath.MoveTo:
			flush()
			last = point(op.X, op.Y)
			current = append(current, last)
		case svgpath.LineTo:
			last = point(op.X, op.Y)
			current = append(current, last)
		case svgpath.QuadTo:
			cx, cy := op[0].X, op[0].Y
			x, y := op[1].X, op[1].Y
			x0, y0 := last.X, last.Y
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				current = append(current, point(
					u*u*x0+2*u*t*cx+t*t*x,
					u*u*y0+2*u*t*cy+t*t*y,
				))
			}
			last = point(x, y)
		case svgpath.CubicTo:
			cx0, cy0 := op[0].X, op[0].Y
			cx1, cy1 := op[1].X, op[1].Y
			x, y := op[2].X, op[2].Y
			x0, y0 := last.X, last.Y
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				current = append(current, point(
					u*u*u*x0+3*u*u*t*cx0+3*u*t*t*cx1+t*t*t*x,
					u*u*u*y0+3*u*u*t*cy0+3*u*t*t*cy1+t*t*t*y,
				))
			}
			last = point(x, y)
		case svgpath.Close:
			if len(current) != 0 {
				last = current[0]
			}
		}
	}
	flush()
	return out
}

// Options configures the PDF output.
type Options struct {
	// Ignore disables some SVG features.
	Ignore svgdraw.Attributes
	// Fonts is used for text elements. If nil, the Go fonts are used.
	Fonts canvas.FontManager
	// RasterResolution is the number of pixels per point used
	// for the paints rasterized into images. Defaults to 2.
	RasterResolution float64
	// Compress enables the compression of the PDF streams.
	Compress bool
}

// Render writes a one page PDF document, whose page has the size
// of doc, in points.
func Render(doc *svgdom.Document, output io.Writer, opts Options) error {
	width, height := doc.Width(), doc.Height()
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return errors.New("empty document size")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCompression(opts.Compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	rd := NewRenderer(pdf)
	if opts.RasterResolution > 0 {
		rd.RasterScale = opts.RasterResolution
	}
	viewport := svgpath.Rect{W: width, H: height}
	if err := svgdraw.Paint(rd, doc.Root, viewport, 1, opts.Ignore, opts.Fonts); err != nil {
		return err
	}
	return pdf.Output(output)
}

// RenderSVGToPDF parses the SVG file and writes
// it as PDF into output.
func RenderSVGToPDF(svg io.Reader, output io.Writer) error {
	doc, err := svgdom.Parse(svg, svgdom.WarnErrorMode)
	if err != nil {
		return err
	}
	return Render(doc, output, Options{Compress: true})
}
