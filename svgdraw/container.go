package svgdraw

import (
	"fmt"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// finishContainer computes the bounds of a container, and marks
// it as not drawable when it has no drawable child.
func (b *builder) finishContainer(d *Drawable, el *svgdom.Element, viewport svgpath.Rect) {
	if len(d.Children) == 0 {
		d.IsDrawable = false
		return
	}
	bounds := d.childrenBounds()
	d.TransformedBounds = d.Transform.MapRect(bounds)
	b.setEffects(d, el, bounds, viewport)
}

func (b *builder) buildGroup(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	b.buildChildren(d, el.Children, viewport)
	b.finishContainer(d, el, viewport)
	return d, nil
}

// viewportOf resolves the x, y, width and height of an establishing
// viewport element (svg, symbol instance). Width and height
// default to 100%.
func viewportOf(el *svgdom.Element, viewport svgpath.Rect) svgpath.Rect {
	x := el.X.ToDeviceValue(svgdom.Horizontal, el, viewport)
	y := el.Y.ToDeviceValue(svgdom.Vertical, el, viewport)
	width, height := el.Width, el.Height
	if !width.IsSet() {
		width = svgdom.Percent(100)
	}
	if !height.IsSet() {
		height = svgdom.Percent(100)
	}
	return svgpath.Rect{
		X: x, Y: y,
		W: width.ToDeviceValue(svgdom.Horizontal, el, viewport),
		H: height.ToDeviceValue(svgdom.Vertical, el, viewport),
	}
}

// buildViewport compiles the children of el into a new viewport,
// clipped to rect and mapping viewBox (if any) onto it.
// viewport is the one of the parent, used to resolve the effects of el.
func (b *builder) buildViewport(d *Drawable, el *svgdom.Element, viewport, rect, viewBox svgpath.Rect, ar svgpath.AspectRatio) {
	if rect.IsEmpty() {
		d.IsDrawable = false
		return
	}
	overflow := rect
	d.Overflow = &overflow
	d.Transform = el.Transform.Mult(svgpath.ViewBoxTransform(viewBox, ar, rect.X, rect.Y, rect.W, rect.H))

	childViewport := svgpath.Rect{W: rect.W, H: rect.H}
	if !viewBox.IsEmpty() {
		childViewport = viewBox
	}
	b.buildChildren(d, el.Children, childViewport)
	b.finishContainer(d, el, viewport)
}

// buildFragment compiles a <svg> element. The position of the
// root element is ignored.
func (b *builder) buildFragment(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	rect := viewportOf(el, viewport)
	if el.Parent == nil {
		rect.X, rect.Y = 0, 0
	}
	b.buildViewport(d, el, viewport, rect, el.ViewBox, el.AspectRatio)
	return d, nil
}

// buildUse compiles an instance of the referenced element, which
// inherits its properties from the <use> element.
func (b *builder) buildUse(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	target := el.Lookup(el.Href)
	if target == nil {
		return nil, fmt.Errorf("use of unknown element %q: %w", el.Href, ErrStructural)
	}
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	if !b.enter(target) {
		logger().Warn("recursive use", "id", el.Href)
		d.IsDrawable = false
		return d, nil
	}
	defer b.leave(target)

	x := el.X.ToDeviceValue(svgdom.Horizontal, el, viewport)
	y := el.Y.ToDeviceValue(svgdom.Vertical, el, viewport)
	d.Transform = el.Transform.Mult(svgpath.NewTranslation(x, y))

	instance := target.CloneUnder(el)
	var (
		child *Drawable
		err   error
	)
	if target.Kind == svgdom.KindSymbol {
		child = b.buildSymbol(instance, el, viewport, d)
	} else {
		child, err = b.build(instance, viewport, d)
		if err != nil {
			return nil, err
		}
	}
	d.addChild(child)
	b.finishContainer(d, el, viewport)
	return d, nil
}

// buildSymbol compiles a <symbol> instanciated by use, whose
// width and height override the ones of the symbol.
func (b *builder) buildSymbol(symbol, use *svgdom.Element, viewport svgpath.Rect, parent *Drawable) *Drawable {
	d := b.newDrawable(symbol, parent)
	if !d.IsDrawable {
		return d
	}
	sized := *symbol
	if use.Width.IsSet() {
		sized.Width = use.Width
	}
	if use.Height.IsSet() {
		sized.Height = use.Height
	}
	rect := viewportOf(&sized, viewport)
	b.buildViewport(d, symbol, viewport, rect, symbol.ViewBox, symbol.AspectRatio)
	return d
}

// buildSwitch compiles the first direct child whose
// conditions are met.
func (b *builder) buildSwitch(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	for _, child := range el.Children {
		if child.Kind == svgdom.KindTextNode || !hasFeatures(child, b.ignore) {
			continue
		}
		b.buildChildren(d, []*svgdom.Element{child}, viewport)
		break
	}
	b.finishContainer(d, el, viewport)
	return d, nil
}
