package svgpath

import (
	"strings"
)

// Align is the alignement part of the preserveAspectRatio attribute
type Align uint8

const (
	AlignXMidYMid Align = iota // default value
	AlignNone
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

var alignNames = map[string]Align{
	"none":     AlignNone,
	"xMinYMin": AlignXMinYMin,
	"xMidYMin": AlignXMidYMin,
	"xMaxYMin": AlignXMaxYMin,
	"xMinYMid": AlignXMinYMid,
	"xMidYMid": AlignXMidYMid,
	"xMaxYMid": AlignXMaxYMid,
	"xMinYMax": AlignXMinYMax,
	"xMidYMax": AlignXMidYMax,
	"xMaxYMax": AlignXMaxYMax,
}

// AspectRatio is the parsed value of the preserveAspectRatio attribute.
// Its zero value is "xMidYMid meet".
type AspectRatio struct {
	Align Align
	Slice bool // "slice" instead of "meet"
}

// ParseAspectRatio parses a preserveAspectRatio attribute,
// such as "xMinYMax slice".
func ParseAspectRatio(v string) (AspectRatio, error) {
	fields := strings.Fields(v)
	var out AspectRatio
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return out, errParamMismatch
	}
	al, ok := alignNames[fields[0]]
	if !ok {
		return out, errParamMismatch
	}
	out.Align = al
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			out.Slice = true
		default:
			return out, errParamMismatch
		}
	}
	return out, nil
}

// alignFactors returns the fraction of the free space
// to put before the content, for each axis.
func (al Align) alignFactors() (fx, fy float64) {
	switch al {
	case AlignXMinYMin:
		return 0, 0
	case AlignXMidYMin:
		return 0.5, 0
	case AlignXMaxYMin:
		return 1, 0
	case AlignXMinYMid:
		return 0, 0.5
	case AlignXMaxYMid:
		return 1, 0.5
	case AlignXMinYMax:
		return 0, 1
	case AlignXMidYMax:
		return 0.5, 1
	case AlignXMaxYMax:
		return 1, 1
	default:
		return 0.5, 0.5
	}
}

// ViewBoxTransform returns the matrix mapping the user space
// defined by `viewBox` into the viewport (x, y, width, height),
// honoring `ar`.
// An empty view box yields the translation to (x, y).
func ViewBoxTransform(viewBox Rect, ar AspectRatio, x, y, width, height float64) Matrix2D {
	if viewBox.IsEmpty() {
		return NewTranslation(x, y)
	}
	sx, sy := width/viewBox.W, height/viewBox.H
	if ar.Align == AlignNone {
		return NewTranslation(x, y).Scale(sx, sy).Translate(-viewBox.X, -viewBox.Y)
	}
	s := sx
	if ar.Slice {
		if sy > s {
			s = sy
		}
	} else if sy < s {
		s = sy
	}
	fx, fy := ar.Align.alignFactors()
	tx := x + (width-viewBox.W*s)*fx
	ty := y + (height-viewBox.H*s)*fy
	return NewTranslation(tx, ty).Scale(s, s).Translate(-viewBox.X, -viewBox.Y)
}
