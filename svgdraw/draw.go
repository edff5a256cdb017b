// Given a parsed SVG document, implements how to
// draw it on a canvas.
// The document is first compiled into a tree of drawables,
// with resolved paints (colors, gradients, patterns), geometry
// and bounds. The drawables are then painted onto a canvas.Canvas,
// such as a rasterizer to output .png images, a pdf writer, or
// a picture recorder.
package svgdraw

import (
	"errors"
	"log/slog"

	"github.com/benoitkugler/svgpaint/svgdom"
)

// ErrStructural is wrapped by the errors returned for elements
// whose data is inconsistent with their kind.
var ErrStructural = errors.New("malformed SVG element")

// Attributes is a set of SVG attributes, used to ignore some
// features when drawing.
type Attributes uint16

const (
	IgnoreDisplay Attributes = 1 << iota
	IgnoreVisibility
	IgnoreOpacity
	IgnoreFilter
	IgnoreClipPath
	IgnoreMask
	IgnoreRequiredFeatures
	IgnoreRequiredExtensions
	IgnoreSystemLanguage

	IgnoreNone Attributes = 0
)

// Has returns true if all the attributes in a are in the set.
func (as Attributes) Has(a Attributes) bool { return as&a == a }

func logger() *slog.Logger { return svgdom.Logger() }
