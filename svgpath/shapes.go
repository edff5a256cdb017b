package svgpath

import "math"

// Basic shapes (rectangles, ellipses, polylines and elliptical
// arcs) reduced to path operations.

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(Point{minX, minY})
	p.Line(Point{maxX, minY})
	p.Line(Point{maxX, maxY})
	p.Line(Point{minX, maxY})
	p.Stop(true)
}

// AddRoundRect adds a rectangle with elliptical corners of radii
// rx and ry, clamped to half the size of the rectangle.
// A zero (or negative) radius yields a sharp rectangle.
func (p *Path) AddRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(minX, minY, maxX, maxY)
		return
	}
	rx = math.Min(rx, (maxX-minX)/2)
	ry = math.Min(ry, (maxY-minY)/2)

	corner := ellipse{rx: rx, ry: ry}
	p.Start(Point{minX + rx, minY})
	p.Line(Point{maxX - rx, minY})
	corner.cx, corner.cy = maxX-rx, minY+ry
	corner.addArc(p, -math.Pi/2, math.Pi/2)
	p.Line(Point{maxX, maxY - ry})
	corner.cx, corner.cy = maxX-rx, maxY-ry
	corner.addArc(p, 0, math.Pi/2)
	p.Line(Point{minX + rx, maxY})
	corner.cx, corner.cy = minX+rx, maxY-ry
	corner.addArc(p, math.Pi/2, math.Pi/2)
	p.Line(Point{minX, minY + ry})
	corner.cx, corner.cy = minX+rx, minY+ry
	corner.addArc(p, math.Pi, math.Pi/2)
	p.Stop(true)
}

// AddEllipse adds a closed ellipse centered at (cx, cy),
// starting at its rightmost point.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	e := ellipse{cx: cx, cy: cy, rx: rx, ry: ry}
	p.Start(e.pointAt(0))
	e.addArc(p, 0, 2*math.Pi)
	p.Stop(true)
}

// AddPolyline adds the lines joining the points given
// as x0, y0, x1, y1, ... and closes the path if `closeLoop` is true.
// Nothing is added for less than two points.
func (p *Path) AddPolyline(points []float64, closeLoop bool) {
	if len(points) < 4 {
		return
	}
	p.Start(Point{points[0], points[1]})
	for i := 2; i < len(points)-1; i += 2 {
		p.Line(Point{points[i], points[i+1]})
	}
	p.Stop(closeLoop)
}

// ellipse is parametrized by the angle t as
// center + R(phi) * (rx cos t, ry sin t)
type ellipse struct {
	cx, cy, rx, ry float64
	sinPhi, cosPhi float64 // rotation of the x axis
}

func (e ellipse) rotation() (sin, cos float64) {
	if e.sinPhi == 0 && e.cosPhi == 0 {
		return 0, 1
	}
	return e.sinPhi, e.cosPhi
}

func (e ellipse) pointAt(t float64) Point {
	sin, cos := e.rotation()
	x, y := e.rx*math.Cos(t), e.ry*math.Sin(t)
	return Point{e.cx + x*cos - y*sin, e.cy + x*sin + y*cos}
}

// derivativeAt returns the tangent vector at t.
func (e ellipse) derivativeAt(t float64) Point {
	sin, cos := e.rotation()
	x, y := -e.rx*math.Sin(t), e.ry*math.Cos(t)
	return Point{x*cos - y*sin, x*sin + y*cos}
}

// maxArcSpan is the largest angle approximated by one cubic.
const maxArcSpan = math.Pi / 2

// addArc appends cubics following the ellipse from angle t0, over
// span radians (negative for a counter clockwise sweep). The current
// point of p is expected to be at t0.
func (e ellipse) addArc(p *Path, t0, span float64) {
	n := int(math.Ceil(math.Abs(span)/maxArcSpan - 1e-9))
	if n < 1 {
		n = 1
	}
	delta := span / float64(n)
	// length of the control vectors, relative to the derivative
	k := 4. / 3 * math.Tan(delta/4)
	from, dFrom := e.pointAt(t0), e.derivativeAt(t0)
	for i := 1; i <= n; i++ {
		t := t0 + delta*float64(i)
		to, dTo := e.pointAt(t), e.derivativeAt(t)
		p.CubeBezier(
			Point{from.X + k*dFrom.X, from.Y + k*dFrom.Y},
			Point{to.X - k*dTo.X, to.Y - k*dTo.Y},
			to,
		)
		from, dFrom = to, dTo
	}
}

// vectorAngle returns the signed angle from u to v.
func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// arcTo adds the elliptical arc of the A path command, going from
// `from` to `to`. Radii too small to join the end points are scaled
// up; a zero radius yields a straight line.
func (p *Path) arcTo(from Point, rx, ry, rotation float64, largeArc, sweep bool, to Point) {
	if from == to {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.Line(to)
		return
	}
	sinPhi, cosPhi := math.Sincos(rotation * math.Pi / 180)

	// end points in the frame centered on their middle, aligned
	// on the axes of the ellipse
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num) / den)
	if largeArc == sweep {
		coef = -coef
	}
	cx1, cy1 := coef*rx*y1/ry, -coef*ry*x1/rx

	e := ellipse{
		cx: cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2,
		cy: sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2,
		rx: rx, ry: ry,
		sinPhi: sinPhi, cosPhi: cosPhi,
	}
	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	t0 := vectorAngle(1, 0, ux, uy)
	span := vectorAngle(ux, uy, vx, vy)
	if !sweep && span > 0 {
		span -= 2 * math.Pi
	} else if sweep && span < 0 {
		span += 2 * math.Pi
	}

	e.addArc(p, t0, span)
	// the end point is exact
	if last, ok := (*p)[len(*p)-1].(CubicTo); ok {
		last[2] = to
		(*p)[len(*p)-1] = last
	}
}
