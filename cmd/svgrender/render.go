package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgpaint/cmd/svgrender/config"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpdf"
	"github.com/benoitkugler/svgpaint/svgraster"
)

const (
	formatPNG = "png"
	formatPDF = "pdf"
)

// job renders one input file. Its raster target is
// kept between runs.
type job struct {
	input, output string
	format        string
	scale         float64
	mode          svgdom.ErrorMode

	raster svgraster.Target
	pdf    svgpdf.Options
}

// newJob validates cfg and resolves the output file and format.
func newJob(input, output string, cfg config.Config) (*job, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = formatPNG
	}
	if format != formatPNG && format != formatPDF {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", cfg.Scale)
	}

	mode, err := cfg.ParseMode()
	if err != nil {
		return nil, err
	}
	ignore, err := cfg.IgnoreAttributes()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	fonts, err := cfg.FontManager()
	if err != nil {
		return nil, err
	}

	j := &job{input: input, output: output, format: format, scale: cfg.Scale, mode: mode}
	j.raster.Options = svgraster.Options{Ignore: ignore, Fonts: fonts, Background: bg}
	j.pdf = svgpdf.Options{Ignore: ignore, Fonts: fonts, RasterResolution: cfg.RasterResolution, Compress: true}
	return j, nil
}

// run parses the input and writes the output file.
func (j *job) run() error {
	doc, err := svgdom.ParseFile(j.input, j.mode)
	if err != nil {
		return err
	}

	f, err := os.Create(j.output)
	if err != nil {
		return err
	}
	defer f.Close()

	switch j.format {
	case formatPDF:
		err = svgpdf.Render(doc, f, j.pdf)
	default:
		img, rerr := j.raster.Render(doc, doc.Width(), doc.Height(), j.scale)
		if rerr != nil {
			return rerr
		}
		err = png.Encode(f, img)
	}
	if err != nil {
		return err
	}
	svgdom.Logger().Info("rendered", "input", j.input, "output", j.output)
	return f.Close()
}
