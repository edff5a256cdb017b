package svgdraw

import (
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// createDash returns the dash effect defined by the
// stroke-dasharray and stroke-dashoffset properties, or nil
// if the dash array is invalid.
// Odd lists are repeated to yield an even number of intervals.
func createDash(el *svgdom.Element, bounds svgpath.Rect) *canvas.DashPathEffect {
	array := el.StrokeDashArray()
	count := len(array)
	if count == 0 {
		return nil
	}

	isOdd := count%2 != 0
	intervals := make([]float64, count, 2*count)
	var sum float64
	for i, u := range array {
		dash := u.ToDeviceValue(svgdom.Other, el, bounds)
		if dash < 0 {
			return nil
		}
		intervals[i] = dash
		sum += dash
	}
	if sum <= 0 {
		return nil
	}
	if isOdd {
		intervals = append(intervals, intervals...)
	}

	var phase float64
	if offset := el.StrokeDashOffset(); offset.IsSet() {
		phase = offset.ToDeviceValue(svgdom.Other, el, bounds)
	}
	return canvas.NewDashPathEffect(intervals, phase)
}

func setDash(el *svgdom.Element, paint *canvas.Paint, bounds svgpath.Rect, cd *canvas.CompositeDisposable) {
	if effect := createDash(el, bounds); effect != nil {
		cd.Add(effect)
		paint.PathEffect = effect
	}
}
