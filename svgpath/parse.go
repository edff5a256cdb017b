package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

var errParamMismatch = errors.New("param mismatch")

// ErrInvalidPath is returned (wrapped) for malformed path data.
var ErrInvalidPath = errors.New("invalid path data")

// isSeparator returns true for the runes separating numbers
func isSeparator(b byte) bool {
	return b == ' ' || b == ',' || b == '\n' || b == '\r' || b == '\t'
}

func skipSeparators(s []byte) int {
	i := 0
	for i < len(s) && isSeparator(s[i]) {
		i++
	}
	return i
}

// ParseNumbers reads a list of numbers separated by
// spaces and/or commas, such as found in the points, viewBox or
// stroke-dasharray attributes.
func ParseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	for i := skipSeparators(b); i < len(b); i += skipSeparators(b[i:]) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return out, fmt.Errorf("invalid number list %q at position %d", s, i)
		}
		out = append(out, f)
		i += n
	}
	return out, nil
}

// pathCursor is used while parsing SVG path data
type pathCursor struct {
	path                Path
	points              []float64
	placeX, placeY      float64 // current point
	startX, startY      float64 // start of the current sub path
	cntlPtX, cntlPtY    float64 // last control point, for smooth curves
	lastKey             byte
	inPath              bool
	prevCurve, prevQuad bool
}

var commandArgs = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6,
	'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// ParsePathData compiles the `d` attribute of a path element.
func ParsePathData(d string) (Path, error) {
	var c pathCursor
	err := c.compilePath([]byte(d))
	return c.path, err
}

func (c *pathCursor) compilePath(d []byte) error {
	i := skipSeparators(d)
	for i < len(d) {
		key := d[i]
		upper := key &^ 0x20 // upper case
		nbArgs, ok := commandArgs[upper]
		if !ok {
			return fmt.Errorf("%w: unknown command %q at position %d", ErrInvalidPath, key, i)
		}
		i++
		i += skipSeparators(d[i:])
		if nbArgs == 0 {
			if err := c.addSeg(key, nil); err != nil {
				return err
			}
			continue
		}
		// read as many argument groups as available
		first := true
		for first || (i < len(d) && isNumberStart(d[i])) {
			first = false
			c.points = c.points[:0]
			for j := 0; j < nbArgs; j++ {
				if upper == 'A' && (j == 3 || j == 4) {
					// flags may be written without separators
					if i >= len(d) || (d[i] != '0' && d[i] != '1') {
						return fmt.Errorf("%w: invalid arc flag at position %d", ErrInvalidPath, i)
					}
					c.points = append(c.points, float64(d[i]-'0'))
					i++
				} else {
					f, n := strconv.ParseFloat(d[i:])
					if n == 0 {
						return fmt.Errorf("%w: expected %d numbers after %q at position %d", ErrInvalidPath, nbArgs, key, i)
					}
					c.points = append(c.points, f)
					i += n
				}
				i += skipSeparators(d[i:])
			}
			if err := c.addSeg(key, c.points); err != nil {
				return err
			}
			// implicit line to after a move
			if key == 'M' {
				key = 'L'
			} else if key == 'm' {
				key = 'l'
			}
		}
	}
	return nil
}

func isNumberStart(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.' || b == '-' || b == '+'
}

func (c *pathCursor) valsToAbs(rel bool, vals []float64) {
	if !rel {
		return
	}
	for i := 0; i+1 < len(vals); i += 2 {
		vals[i] += c.placeX
		vals[i+1] += c.placeY
	}
}

// reflectControl returns the reflection of the last control point,
// or the current point if the last command is not of the given family.
func (c *pathCursor) reflectControl(quad bool) (x, y float64) {
	if c.prevCurve && c.prevQuad == quad {
		return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
	}
	return c.placeX, c.placeY
}

func (c *pathCursor) addSeg(key byte, points []float64) error {
	rel := key >= 'a'
	upper := key &^ 0x20
	hadCntl := c.lastKey != 0 && strings.IndexByte("CSQTcsqt", c.lastKey) != -1
	c.prevCurve = hadCntl
	c.prevQuad = hadCntl && strings.IndexByte("QTqt", c.lastKey) != -1
	c.lastKey = key
	switch upper {
	case 'Z':
		c.path.Stop(true)
		c.placeX, c.placeY = c.startX, c.startY
		c.inPath = false
	case 'M':
		c.valsToAbs(rel, points)
		c.placeX, c.placeY = points[0], points[1]
		c.startX, c.startY = c.placeX, c.placeY
		c.path.Start(Point{c.placeX, c.placeY})
		c.inPath = true
	case 'L', 'H', 'V':
		if upper == 'H' {
			x := points[0]
			if rel {
				x += c.placeX
			}
			c.placeX = x
		} else if upper == 'V' {
			y := points[0]
			if rel {
				y += c.placeY
			}
			c.placeY = y
		} else {
			c.valsToAbs(rel, points)
			c.placeX, c.placeY = points[0], points[1]
		}
		c.ensureStart()
		c.path.Line(Point{c.placeX, c.placeY})
	case 'Q', 'T':
		var cx, cy, x, y float64
		if upper == 'T' {
			cx, cy = c.reflectControl(true)
			c.valsToAbs(rel, points)
			x, y = points[0], points[1]
		} else {
			c.valsToAbs(rel, points)
			cx, cy, x, y = points[0], points[1], points[2], points[3]
		}
		c.ensureStart()
		c.path.QuadBezier(Point{cx, cy}, Point{x, y})
		c.cntlPtX, c.cntlPtY = cx, cy
		c.placeX, c.placeY = x, y
	case 'C', 'S':
		var c1x, c1y, c2x, c2y, x, y float64
		if upper == 'S' {
			c1x, c1y = c.reflectControl(false)
			c.valsToAbs(rel, points)
			c2x, c2y, x, y = points[0], points[1], points[2], points[3]
		} else {
			c.valsToAbs(rel, points)
			c1x, c1y, c2x, c2y, x, y = points[0], points[1], points[2], points[3], points[4], points[5]
		}
		c.ensureStart()
		c.path.CubeBezier(Point{c1x, c1y}, Point{c2x, c2y}, Point{x, y})
		c.cntlPtX, c.cntlPtY = c2x, c2y
		c.placeX, c.placeY = x, y
	case 'A':
		if rel {
			points[5] += c.placeX
			points[6] += c.placeY
		}
		c.ensureStart()
		to := Point{points[5], points[6]}
		c.path.arcTo(Point{c.placeX, c.placeY}, points[0], points[1], points[2], points[3] != 0, points[4] != 0, to)
		c.placeX, c.placeY = to.X, to.Y
	}
	return nil
}

// ensureStart opens a sub path at the current point
// when a drawing command follows a close.
func (c *pathCursor) ensureStart() {
	if !c.inPath {
		c.path.Start(Point{c.placeX, c.placeY})
		c.startX, c.startY = c.placeX, c.placeY
		c.inPath = true
	}
}

func readTransformAttr(m1 Matrix2D, k string, points []float64) (Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// ParseTransform parses a transform list, such as
// "translate(10, 20) rotate(45)", and returns the
// resulting matrix.
func ParseTransform(v string) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := Identity
	for _, t := range ts {
		t = strings.TrimSpace(t)
		t = strings.TrimLeft(t, ", ")
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, fmt.Errorf("invalid transform %q: %w", v, errParamMismatch) // badly formed transformation
		}
		points, err := ParseNumbers(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return m1, fmt.Errorf("invalid transform %q: %w", v, err)
		}
	}
	return m1, nil
}
