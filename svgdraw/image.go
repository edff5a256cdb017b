package svgdraw

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errNotDataURI = errors.New("only data URIs are supported")

// decodeDataURI decodes the image embedded in a data URI, as
// data:[<mediatype>][;base64],<data>
// The media type is ignored : the content is sniffed instead.
func decodeDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, errNotDataURI
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, errors.New("missing data URI payload")
	}
	var data []byte
	if strings.HasSuffix(header, ";base64") {
		// line breaks are frequent in embedded images
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
				return nil, fmt.Errorf("invalid base64 payload: %s", err)
			}
		}
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid data URI payload: %s", err)
		}
		data = []byte(unescaped)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("unsupported embedded content %q", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %s", kind.MIME.Value, err)
	}
	return img, nil
}

// buildImage compiles an <image> element with an embedded raster image.
func (b *builder) buildImage(el *svgdom.Element, viewport svgpath.Rect, parent *Drawable) (*Drawable, error) {
	d := b.newDrawable(el, parent)
	if !d.IsDrawable {
		return d, nil
	}
	img, err := decodeDataURI(el.Href)
	if err != nil {
		logger().Warn("skipping image", "id", el.ID, "error", err)
		d.IsDrawable = false
		return d, nil
	}
	size := img.Bounds().Size()
	src := svgpath.Rect{W: float64(size.X), H: float64(size.Y)}
	if src.IsEmpty() {
		d.IsDrawable = false
		return d, nil
	}

	x := el.X.ToDeviceValue(svgdom.Horizontal, el, viewport)
	y := el.Y.ToDeviceValue(svgdom.Vertical, el, viewport)
	w, h := src.W, src.H
	if el.Width.IsSet() {
		w = el.Width.ToDeviceValue(svgdom.Horizontal, el, viewport)
	}
	if el.Height.IsSet() {
		h = el.Height.ToDeviceValue(svgdom.Vertical, el, viewport)
	}
	if w <= 0 || h <= 0 {
		d.IsDrawable = false
		return d, nil
	}
	dest := svgpath.Rect{X: x, Y: y, W: w, H: h}

	fit := svgpath.ViewBoxTransform(src, el.AspectRatio, x, y, w, h)
	d.Image = img
	d.ImageRect = fit.MapRect(src)
	if el.AspectRatio.Slice {
		d.Clip = &dest
	}
	d.TransformedBounds = d.Transform.MapRect(dest)
	b.setEffects(d, el, dest, viewport)
	return d, nil
}
