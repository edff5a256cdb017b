package svgdraw

import (
	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
)

// textLayout tracks the current text position while
// laying out the runs of a text element.
type textLayout struct {
	b        *builder
	viewport svgpath.Rect

	x, y float64

	// runs of the current chunk, aligned when the chunk ends
	chunk      []*Drawable
	chunkStart float64
	anchor     canvas.TextAlign
}

// moveTo applies the positioning attributes of el. An absolute
// position starts a new chunk.
func (l *textLayout) moveTo(el *svgdom.Element) {
	if len(el.TextX) > 0 || len(el.TextY) > 0 {
		l.flush()
		if len(el.TextX) > 0 {
			l.x = el.TextX[0].ToDeviceValue(svgdom.Horizontal, el, l.viewport)
		}
		if len(el.TextY) > 0 {
			l.y = el.TextY[0].ToDeviceValue(svgdom.Vertical, el, l.viewport)
		}
		l.chunkStart = l.x
		l.anchor = textAlign(el.TextAnchor())
	}
	if len(el.DX) > 0 {
		l.x += el.DX[0].ToDeviceValue(svgdom.Horizontal, el, l.viewport)
	}
	if len(el.DY) > 0 {
		l.y += el.DY[0].ToDeviceValue(svgdom.Vertical, el, l.viewport)
	}
}

// flush aligns the runs of the current chunk, according to
// its text anchor.
func (l *textLayout) flush() {
	var shift float64
	switch l.anchor {
	case canvas.AlignCenter:
		shift = (l.x - l.chunkStart) / 2
	case canvas.AlignRight:
		shift = l.x - l.chunkStart
	}
	if shift != 0 {
		m := svgpath.NewTranslation(-shift, 0)
		for _, run := range l.chunk {
			run.Transform = m
			run.TransformedBounds = m.MapRect(run.TransformedBounds)
		}
	}
	l.chunk = l.chunk[:0]
}

// layout adds the runs of el (a text or tspan element) to d.
func (l *textLayout) layout(d *Drawable, el *svgdom.Element) {
	l.moveTo(el)
	for _, child := range el.Children {
		switch child.Kind {
		case svgdom.KindTextNode:
			if run := l.b.buildTextRun(child, l, d); run != nil {
				d.addChild(run)
				if run.IsDrawable {
					l.chunk = append(l.chunk, run)
				}
			}
		case svgdom.KindTSpan:
			if !canDraw(child, l.b.ignore) || !hasFeatures(child, l.b.ignore) {
				continue
			}
			span := l.b.newDrawable(child, d)
			l.layout(span, child)
			l.b.finishContainer(span, child, l.viewport)
			d.addChild(span)
		}
	}
}

// buildText compiles a <text> element into one drawable
// per run of characters.
func (b *builder) buildText(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	l := &textLayout{b: b, viewport: viewport, anchor: textAlign(el.TextAnchor())}
	l.layout(d, el)
	l.flush()
	b.finishContainer(d, el, viewport)
	return d, nil
}

// buildTextRun compiles the text node, styled by its parent element, and
// advances the layout position.
func (b *builder) buildTextRun(node *svgdom.Element, l *textLayout, parent *Drawable) *Drawable {
	style := node.Parent
	text := node.Text
	if style == nil || text == "" {
		return nil
	}
	d := b.newDrawable(style, parent)
	d.Element = node
	d.Transform = svgpath.Identity

	paint := canvas.NewPaint()
	b.setPaintText(style, l.viewport, paint, &d.Disposable)
	tf := paint.Typeface
	if tf == nil {
		// outlined with the default family, the paint keeps no typeface
		if tf = b.fallbackTypeface(style); tf == nil {
			d.IsDrawable = false
			return d
		}
		d.Disposable.Add(tf)
	}
	path, advance := canvas.TextPath(tf, text, paint.TextSize, l.x, l.y)
	l.x += advance
	if path.IsEmpty() {
		// only spaces
		d.IsDrawable = false
		return d
	}

	d.Path = canvas.NewPath(path, fillTypeOf(style.FillRule()))
	d.Disposable.Add(d.Path)
	bounds := path.Bounds()
	d.TransformedBounds = bounds
	if !b.setPaints(d, style, bounds) {
		d.IsDrawable = false
		return d
	}
	for _, p := range [...]*canvas.Paint{d.Fill, d.Stroke} {
		if p != nil {
			p.Typeface = paint.Typeface
			p.TextSize = paint.TextSize
			p.TextAlign = paint.TextAlign
		}
	}
	return d
}
