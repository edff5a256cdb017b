package canvas

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
)

// FontSlant is the posture of a typeface.
type FontSlant uint8

const (
	Upright FontSlant = iota
	Italic
	Oblique
)

// Font weights and widths follow the CSS scales :
// weights from 100 to 900, widths from 1 (ultra-condensed)
// to 9 (ultra-expanded).
const (
	WeightNormal = 400
	WeightBold   = 700

	WidthNormal = 5
)

// stretchByWidth maps the 1..9 width scale to
// the OpenType stretch ratios.
var stretchByWidth = [...]float32{0.5, 0.625, 0.75, 0.875, 1, 1.125, 1.25, 1.5, 2}

// Typeface is a font face with its style.
type Typeface struct {
	resource

	Family string
	Weight int
	Width  int
	Slant  FontSlant

	font *sfnt.Font
}

// FontManager matches font requests to typefaces.
type FontManager interface {
	// MatchFamily returns the best typeface for the given family
	// and style. As for system font managers, an unknown family
	// yields a typeface of the default family.
	// Nil is returned if no typeface is available at all.
	MatchFamily(family string, weight, width int, slant FontSlant) *Typeface
	// DefaultFamily returns the family used as fallback.
	DefaultFamily() string
}

type faceEntry struct {
	family string // as found in the font
	key    string // folded family
	aspect font.Aspect
	font   *sfnt.Font
}

// FaceManager is a FontManager over a fixed set of
// font files. Its zero value is not usable : see NewFontManager.
type FaceManager struct {
	faces         []faceEntry
	defaultFamily string
	fold          cases.Caser
}

// NewFontManager returns a manager loaded with the Go fonts,
// whose family "Go" is the default.
func NewFontManager() *FaceManager {
	fm := &FaceManager{fold: cases.Fold()}
	for _, data := range [][]byte{
		goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF,
		gomedium.TTF, gomediumitalic.TTF, gomono.TTF, gomonobold.TTF,
	} {
		if err := fm.AddFont(data); err != nil {
			// the embedded fonts are valid
			panic(err)
		}
	}
	fm.defaultFamily = "Go"
	return fm
}

// AddFont registers a TrueType or OpenType font file.
// The first font added becomes the default family if none is set.
func (fm *FaceManager) AddFont(data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid font file: %w", err)
	}
	outlines, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid font file: %w", err)
	}
	desc := face.Describe()
	fm.faces = append(fm.faces, faceEntry{
		family: desc.Family,
		key:    fm.fold.String(desc.Family),
		aspect: desc.Aspect,
		font:   outlines,
	})
	if fm.defaultFamily == "" {
		fm.defaultFamily = desc.Family
	}
	return nil
}

// DefaultFamily implements FontManager.
func (fm *FaceManager) DefaultFamily() string { return fm.defaultFamily }

// MatchFamily implements FontManager.
func (fm *FaceManager) MatchFamily(family string, weight, width int, slant FontSlant) *Typeface {
	key := fm.fold.String(strings.TrimSpace(family))
	best := fm.closest(key, weight, width, slant)
	if best == nil {
		best = fm.closest(fm.fold.String(fm.defaultFamily), weight, width, slant)
	}
	if best == nil {
		return nil
	}
	return &Typeface{
		Family: best.family,
		Weight: int(best.aspect.Weight),
		Width:  widthFromStretch(best.aspect.Stretch),
		Slant:  slantFromStyle(best.aspect.Style),
		font:   best.font,
	}
}

// closest returns the face of the family with the nearest style,
// or nil if the family is unknown.
func (fm *FaceManager) closest(key string, weight, width int, slant FontSlant) *faceEntry {
	var (
		best      *faceEntry
		bestScore = math.Inf(1)
	)
	for i := range fm.faces {
		face := &fm.faces[i]
		if face.key != key {
			continue
		}
		score := math.Abs(float64(face.aspect.Weight)-float64(weight)) +
			100*math.Abs(float64(widthFromStretch(face.aspect.Stretch)-width))
		if (slant == Upright) != (face.aspect.Style == font.StyleNormal) {
			score += 1000
		}
		if score < bestScore {
			best, bestScore = face, score
		}
	}
	return best
}

func slantFromStyle(s font.Style) FontSlant {
	if s == font.StyleItalic {
		return Italic
	}
	return Upright
}

func widthFromStretch(s font.Stretch) int {
	if s == 0 {
		return WidthNormal
	}
	best, dist := WidthNormal, math.Inf(1)
	for i, v := range stretchByWidth {
		if d := math.Abs(float64(v - float32(s))); d < dist {
			best, dist = i+1, d
		}
	}
	return best
}

// TextPath returns the outlines of text, drawn with the baseline
// origin at (x, y), and the advance of the text.
// Runes missing from the typeface are skipped.
func TextPath(tf *Typeface, text string, size, x, y float64) (svgpath.Path, float64) {
	if tf == nil || tf.font == nil || size <= 0 {
		return nil, 0
	}
	var (
		buf     sfnt.Buffer
		out     svgpath.Path
		ppem    = fixed.Int26_6(size * 64)
		advance fixed.Int26_6
		prev    sfnt.GlyphIndex
	)
	for i, r := range text {
		gi, err := tf.font.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			continue
		}
		if i > 0 && prev != 0 {
			if kern, err := tf.font.Kern(&buf, prev, gi, ppem, 0); err == nil {
				advance += kern
			}
		}
		segments, err := tf.font.LoadGlyph(&buf, gi, ppem, nil)
		if err != nil {
			continue
		}
		dotX := x + float64(advance)/64
		at := func(a fixed.Point26_6) svgpath.Point {
			p := svgpath.FromFixed(a)
			return svgpath.Point{X: p.X + dotX, Y: p.Y + y}
		}
		started := false
		for _, seg := range segments {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if started {
					out.Stop(true)
				}
				out.Start(at(seg.Args[0]))
				started = true
			case sfnt.SegmentOpLineTo:
				out.Line(at(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				out.QuadBezier(at(seg.Args[0]), at(seg.Args[1]))
			case sfnt.SegmentOpCubeTo:
				out.CubeBezier(at(seg.Args[0]), at(seg.Args[1]), at(seg.Args[2]))
			}
		}
		if started {
			out.Stop(true)
		}
		if adv, err := tf.font.GlyphAdvance(&buf, gi, ppem, 0); err == nil {
			advance += adv
		}
		prev = gi
	}
	return out, float64(advance) / 64
}

// MeasureText returns the advance of text.
func MeasureText(tf *Typeface, text string, size float64) float64 {
	_, adv := TextPath(tf, text, size, 0, 0)
	return adv
}
