package svgdom

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var errInvalidColor = errors.New("invalid color")

// currentColor is a placeholder replaced by the value
// of the color property once all the attributes of
// an element are read.
var currentColor = &ColorServer{}

// parseColorNum reads an hex color string e.g. #FBD9BD, #fff or #00000080
func parseColorNum(colorStr string) (color.NRGBA, error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 3, 4:
		// SVG specs say duplicate characters in case of 3 digit hex number
		b := make([]byte, 0, 8)
		for i := range colorStr {
			b = append(b, colorStr[i], colorStr[i])
		}
		colorStr = string(b)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", errInvalidColor, colorStr)
	}
	out := color.NRGBA{A: 0xff}
	for i, c := range []*uint8{&out.R, &out.G, &out.B, &out.A} {
		if 2*i+2 > len(colorStr) {
			break
		}
		t, err := strconv.ParseUint(colorStr[2*i:2*i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %s", errInvalidColor, err)
		}
		*c = uint8(t)
	}
	return out, nil
}

// parseColorValue parses a component of rgb(), either
// a number in [0,255] or a percentage.
func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errInvalidColor
	}
	var (
		f   float64
		err error
	)
	if strings.HasSuffix(v, "%") {
		f, err = strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		f = f * 0xff / 100
	} else {
		f, err = strconv.ParseFloat(v, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errInvalidColor, err)
	}
	if f > 255 {
		f = 255
	} else if f < 0 {
		f = 0
	}
	return uint8(f + 0.5), nil
}

// parseAlphaValue parses the alpha component of rgba(),
// in [0,1] or as a percentage.
func parseAlphaValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	d := 1.
	if strings.HasSuffix(v, "%") {
		d = 100
		v = v[:len(v)-1]
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errInvalidColor, err)
	}
	return uint8(clamp01(f/d)*0xff + 0.5), nil
}

// ParseColor parses an SVG color string in all forms
// including all SVG1.1 names, obtained from the colornames package.
func ParseColor(colorStr string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	if v == "" {
		return color.NRGBA{}, errInvalidColor
	}
	if v == "transparent" {
		return color.NRGBA{}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: cn.R, G: cn.G, B: cn.B, A: cn.A}, nil
	}
	if v[0] == '#' {
		return parseColorNum(v)
	}
	for _, prefix := range [...]string{"rgba(", "rgb("} {
		cStr := strings.TrimPrefix(v, prefix)
		if cStr == v {
			continue
		}
		cStr = strings.TrimSuffix(cStr, ")")
		vals := strings.Split(cStr, ",")
		if len(vals) != 3 && len(vals) != 4 {
			return color.NRGBA{}, fmt.Errorf("%w: %q", errInvalidColor, colorStr)
		}
		out := color.NRGBA{A: 0xff}
		var err error
		for i, c := range []*uint8{&out.R, &out.G, &out.B} {
			*c, err = parseColorValue(vals[i])
			if err != nil {
				return color.NRGBA{}, err
			}
		}
		if len(vals) == 4 {
			out.A, err = parseAlphaValue(vals[3])
			if err != nil {
				return color.NRGBA{}, err
			}
		}
		return out, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", errInvalidColor, colorStr)
}

// ParsePaint parses the value of a fill or stroke property.
// It returns nil for "inherit", meaning the property is unset.
func ParsePaint(s string) (PaintServer, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "none":
		return None, nil
	case "inherit", "":
		return nil, nil
	case "currentcolor":
		return currentColor, nil
	}
	if strings.HasPrefix(s, "url(") {
		end := strings.IndexByte(s, ')')
		if end == -1 {
			return nil, fmt.Errorf("invalid paint reference %q", s)
		}
		ref := strings.Trim(strings.TrimSpace(s[4:end]), `'"`)
		out := &DeferredServer{ID: strings.TrimPrefix(ref, "#")}
		if fallback := strings.TrimSpace(s[end+1:]); fallback != "" {
			fb, err := ParsePaint(fallback)
			if err != nil {
				return nil, err
			}
			out.Fallback = fb
		}
		return out, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return nil, err
	}
	return NewColor(c), nil
}
