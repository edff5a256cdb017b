package svgpath

import "math"

// Vertex is a node of a path, where markers are placed.
type Vertex struct {
	X, Y float64
	// In and Out are the directions (in radians) of the incoming
	// and outgoing segments.
	In, Out float64

	hasIn, hasOut bool
}

// Angle returns the bisector of the incoming and outgoing
// directions, as used by orient="auto".
func (v Vertex) Angle() float64 {
	d := v.Out - v.In
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return v.In + d/2
}

func direction(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// tangent returns the direction from `a` to the first of
// `pts` distinct from `a`
func tangent(a Point, pts ...Point) float64 {
	for _, p := range pts {
		if p != a {
			return direction(a, p)
		}
	}
	return 0
}

// Vertices returns the nodes of the path, in order.
func (p Path) Vertices() []Vertex {
	var (
		out            []Vertex
		start, current Point
	)
	// adds a segment ending at `end`, with the given directions
	segment := func(end Point, outDir, inDir float64) {
		if n := len(out); n > 0 {
			out[n-1].Out, out[n-1].hasOut = outDir, true
		}
		out = append(out, Vertex{X: end.X, Y: end.Y, In: inDir, hasIn: true})
		current = end
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			start, current = Point(op), Point(op)
			out = append(out, Vertex{X: start.X, Y: start.Y})
		case LineTo:
			b := Point(op)
			d := direction(current, b)
			segment(b, d, d)
		case QuadTo:
			segment(op[1], tangent(current, op[0], op[1]), tangent(op[1], op[0], current)+math.Pi)
		case CubicTo:
			segment(op[2], tangent(current, op[0], op[1], op[2]), tangent(op[2], op[1], op[0], current)+math.Pi)
		case Close:
			if current != start {
				d := direction(current, start)
				segment(start, d, d)
			}
		}
	}
	for i := range out {
		v := &out[i]
		if !v.hasIn {
			v.In = v.Out
		}
		if !v.hasOut {
			v.Out = v.In
		}
	}
	return out
}
