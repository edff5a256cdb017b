package svgdraw

import (
	"strings"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"golang.org/x/text/cases"
)

// defaultFontSize is used when no font-size is specified.
const defaultFontSize = 12

var fontWeights = [...]int{
	svgdom.WeightNormal:  canvas.WeightNormal,
	svgdom.WeightBold:    canvas.WeightBold,
	svgdom.WeightBolder:  canvas.WeightNormal,
	svgdom.WeightLighter: canvas.WeightNormal,
	svgdom.Weight100:     100,
	svgdom.Weight200:     200,
	svgdom.Weight300:     300,
	svgdom.Weight500:     500,
	svgdom.Weight600:     600,
	svgdom.Weight800:     800,
	svgdom.Weight900:     900,
}

// fontWeight maps to the CSS numeric scale. Relative
// weights are not supported and yield the normal weight.
func fontWeight(w svgdom.FontWeight) int {
	if int(w) < len(fontWeights) {
		return fontWeights[w]
	}
	return canvas.WeightNormal
}

var fontStretches = map[string]int{
	"ultra-condensed": 1,
	"extra-condensed": 2,
	"condensed":       3,
	"semi-condensed":  4,
	"normal":          5,
	"semi-expanded":   6,
	"expanded":        7,
	"extra-expanded":  8,
	"ultra-expanded":  9,
}

// fontWidth parses a font-stretch keyword, case-insensitively.
func fontWidth(stretch string) int {
	if w, ok := fontStretches[cases.Fold().String(strings.TrimSpace(stretch))]; ok {
		return w
	}
	return canvas.WidthNormal
}

func fontSlant(style svgdom.FontStyle) canvas.FontSlant {
	switch style {
	case svgdom.FontStyleItalic:
		return canvas.Italic
	case svgdom.FontStyleOblique:
		return canvas.Oblique
	default:
		return canvas.Upright
	}
}

func textAlign(anchor svgdom.TextAnchor) canvas.TextAlign {
	switch anchor {
	case svgdom.AnchorMiddle:
		return canvas.AlignCenter
	case svgdom.AnchorEnd:
		return canvas.AlignRight
	default:
		return canvas.AlignLeft
	}
}

// splitFontFamily returns the candidates of a font-family list,
// without spaces and quotes.
func splitFontFamily(family string) []string {
	var out []string
	for _, name := range strings.Split(family, ",") {
		name = strings.Trim(strings.TrimSpace(name), `'"`)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// matchTypeface tries each family in order. A match silently
// replaced by the default family is rejected, so that a later
// candidate may be selected.
func matchTypeface(fonts canvas.FontManager, families []string, weight, width int, slant canvas.FontSlant) *canvas.Typeface {
	if fonts == nil {
		return nil
	}
	defaultName := fonts.DefaultFamily()
	for _, family := range families {
		tf := fonts.MatchFamily(family, weight, width, slant)
		if tf == nil {
			continue
		}
		if tf.Family != family && tf.Family == defaultName {
			tf.Dispose()
			continue
		}
		return tf
	}
	return nil
}

// fallbackTypeface returns the face of the default family closest to
// the style of el, used to outline text whose families all failed.
func (b *builder) fallbackTypeface(el *svgdom.Element) *canvas.Typeface {
	if b.fonts == nil {
		return nil
	}
	return b.fonts.MatchFamily(b.fonts.DefaultFamily(),
		fontWeight(el.FontWeight()), fontWidth(el.Attrs["font-stretch"]), fontSlant(el.FontStyle()))
}

// setTypeface selects the typeface of a text element. It is
// left unset when no family matches.
func (b *builder) setTypeface(el *svgdom.Element, paint *canvas.Paint, cd *canvas.CompositeDisposable) {
	tf := matchTypeface(b.fonts, splitFontFamily(el.FontFamily()),
		fontWeight(el.FontWeight()), fontWidth(el.Attrs["font-stretch"]), fontSlant(el.FontStyle()))
	if tf == nil {
		logger().Debug("no matching typeface", "font-family", el.FontFamily())
		return
	}
	cd.Add(tf)
	paint.Typeface = tf
}

// setPaintText sets the text properties of paint : alignment,
// size and typeface.
func (b *builder) setPaintText(el *svgdom.Element, bounds svgpath.Rect, paint *canvas.Paint, cd *canvas.CompositeDisposable) {
	paint.TextAlign = textAlign(el.TextAnchor())
	paint.TextSize = defaultFontSize
	if size := el.FontSize(); size.IsSet() {
		// em are relative to the parent font size
		paint.TextSize = size.ToDeviceValue(svgdom.Vertical, el.Parent, bounds)
	}
	b.setTypeface(el, paint, cd)
}
