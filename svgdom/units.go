package svgdom

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/tdewolff/parse/v2/strconv"
)

// UnitType is the kind of a length
type UnitType uint8

const (
	UnitNone UnitType = iota // the attribute is not set
	UnitUser                 // unitless number
	UnitPixel
	UnitPercentage
	UnitEm
	UnitEx
	UnitInch
	UnitCentimeter
	UnitMillimeter
	UnitPoint
	UnitPica
)

var unitSuffixes = [...]struct {
	suffix string
	typ    UnitType
}{
	{"px", UnitPixel},
	{"%", UnitPercentage},
	{"em", UnitEm},
	{"ex", UnitEx},
	{"in", UnitInch},
	{"cm", UnitCentimeter},
	{"mm", UnitMillimeter},
	{"pt", UnitPoint},
	{"pc", UnitPica},
}

// RenderingType selects the reference length used to resolve
// percentages.
type RenderingType uint8

const (
	Horizontal RenderingType = iota // relative to the width
	Vertical                        // relative to the height
	Other                           // relative to the normalized diagonal
)

// defaultFontSize is the size of 1em when no font-size applies.
const defaultFontSize = 16

// Unit is a length, as found in SVG attributes.
// The zero value is the unset length.
type Unit struct {
	Value float64
	Type  UnitType
}

// User returns a unitless length
func User(v float64) Unit { return Unit{Value: v, Type: UnitUser} }

// Percent returns a percentage length
func Percent(v float64) Unit { return Unit{Value: v, Type: UnitPercentage} }

// IsSet returns false for the zero Unit.
func (u Unit) IsSet() bool { return u.Type != UnitNone }

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.typ == u.Type {
			return fmt.Sprintf("%g%s", u.Value, s.suffix)
		}
	}
	if u.Type == UnitNone {
		return "<none>"
	}
	return fmt.Sprintf("%g", u.Value)
}

// ParseUnit parses a length such as "12", "5.5px" or "50%".
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	b := []byte(s)
	f, n := strconv.ParseFloat(b)
	if n == 0 {
		return Unit{}, fmt.Errorf("invalid length %q", s)
	}
	rest := strings.TrimSpace(s[n:])
	if rest == "" {
		return Unit{Value: f, Type: UnitUser}, nil
	}
	for _, suffix := range unitSuffixes {
		if strings.EqualFold(rest, suffix.suffix) {
			return Unit{Value: f, Type: suffix.typ}, nil
		}
	}
	return Unit{}, fmt.Errorf("invalid length unit in %q", s)
}

// ParseUnitList parses a list of lengths separated by commas
// and/or spaces, as used by stroke-dasharray.
func ParseUnitList(s string) ([]Unit, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]Unit, 0, len(fields))
	for _, f := range fields {
		u, err := ParseUnit(f)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// ToDeviceValue converts the length to user space units.
// Percentages are resolved against `bounds`, relative ones against
// the font size of `element`, which may be nil.
func (u Unit) ToDeviceValue(rt RenderingType, element *Element, bounds svgpath.Rect) float64 {
	const ppi = 96
	switch u.Type {
	case UnitNone:
		return 0
	case UnitPercentage:
		switch rt {
		case Horizontal:
			return bounds.W * u.Value / 100
		case Vertical:
			return bounds.H * u.Value / 100
		default:
			diag := math.Sqrt((bounds.W*bounds.W + bounds.H*bounds.H) / 2)
			return diag * u.Value / 100
		}
	case UnitEm:
		return u.Value * fontSizeOf(element, bounds)
	case UnitEx:
		return u.Value * fontSizeOf(element, bounds) / 2
	case UnitInch:
		return u.Value * ppi
	case UnitCentimeter:
		return u.Value * ppi / 2.54
	case UnitMillimeter:
		return u.Value * ppi / 25.4
	case UnitPoint:
		return u.Value * ppi / 72
	case UnitPica:
		return u.Value * ppi / 6
	default: // user and pixels
		return u.Value
	}
}

// fontSizeOf returns the font size applying to element, used
// as the reference for em and ex units.
func fontSizeOf(element *Element, bounds svgpath.Rect) float64 {
	for el := element; el != nil; el = el.Parent {
		fs := el.Style.FontSize
		if !fs.IsSet() {
			continue
		}
		switch fs.Type {
		case UnitEm, UnitEx, UnitPercentage:
			// relative to the parent font size
			parent := fontSizeOf(el.Parent, bounds)
			switch fs.Type {
			case UnitEm:
				return fs.Value * parent
			case UnitEx:
				return fs.Value * parent / 2
			default:
				return fs.Value * parent / 100
			}
		default:
			return fs.ToDeviceValue(Vertical, nil, bounds)
		}
	}
	return defaultFontSize
}
