package svgraster

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgpath"
	"github.com/srwiley/rasterx"
)

// tiles larger than this (in pixels, per axis) are downsampled
const maxTileSize = 2048

// withAlpha scales c by alpha (in [0, 0xff]).
func withAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	if alpha != 0xff {
		c.A = uint8(uint16(c.A) * uint16(alpha) / 0xff)
	}
	return c
}

// colorSource returns the color or the rasterx.ColorFunc
// painting with paint.
func (rd *Renderer) colorSource(paint *canvas.Paint) interface{} {
	alpha := paint.Color.A
	switch shader := paint.Shader.(type) {
	case *canvas.ColorShader:
		return withAlpha(shader.Color, alpha)
	case *canvas.LinearGradientShader:
		return gradientFunc(shader.ColorAt, rd.matrix.Mult(shader.LocalMatrix), alpha)
	case *canvas.TwoPointConicalShader:
		return gradientFunc(shader.ColorAt, rd.matrix.Mult(shader.LocalMatrix), alpha)
	case *canvas.PictureShader:
		return rd.patternFunc(shader, alpha)
	default:
		return paint.Color
	}
}

// gradientFunc samples colorAt at the pixel centers, mapped
// to the gradient space by the inverse of toDevice.
func gradientFunc(colorAt func(x, y float64) (color.NRGBA, bool), toDevice svgpath.Matrix2D, alpha uint8) rasterx.ColorFunc {
	inv := toDevice.Invert()
	return func(x, y int) color.Color {
		gx, gy := inv.Transform(float64(x)+0.5, float64(y)+0.5)
		c, ok := colorAt(gx, gy)
		if !ok {
			return color.Transparent
		}
		return withAlpha(c, alpha)
	}
}

// wrap maps t into [0, length) according to mode, or returns
// false for decal tiles outside the tile.
func wrap(t, length float64, mode canvas.TileMode) (float64, bool) {
	switch mode {
	case canvas.Repeat:
		t = math.Mod(t, length)
		if t < 0 {
			t += length
		}
	case canvas.Mirror:
		period := math.Floor(t / length)
		t -= period * length
		if int(math.Abs(period))%2 == 1 {
			t = length - t
		}
	case canvas.Decal:
		if t < 0 || t >= length {
			return 0, false
		}
	default:
		t = math.Max(0, math.Min(length, t))
	}
	return t, true
}

// patternFunc renders the tile of shader at the device resolution,
// and returns a function sampling it.
func (rd *Renderer) patternFunc(shader *canvas.PictureShader, alpha uint8) interface{} {
	tile := shader.Tile
	if tile.IsEmpty() || shader.Picture == nil {
		return color.Transparent
	}
	toDevice := rd.matrix.Mult(shader.LocalMatrix)
	scale := deviceScale(toDevice)
	if scale == 0 {
		return color.Transparent
	}
	scale = math.Min(scale, maxTileSize/math.Max(tile.W, tile.H))
	tw, th := int(math.Ceil(tile.W*scale)), int(math.Ceil(tile.H*scale))

	img := image.NewRGBA(image.Rect(0, 0, tw, th))
	tr := NewRenderer(img)
	tr.SetMatrix(svgpath.NewScale(scale, scale).Translate(-tile.X, -tile.Y))
	shader.Picture.Playback(tr)

	inv := toDevice.Invert()
	return rasterx.ColorFunc(func(x, y int) color.Color {
		u, v := inv.Transform(float64(x)+0.5, float64(y)+0.5)
		u, okU := wrap(u-tile.X, tile.W, shader.TileX)
		v, okV := wrap(v-tile.Y, tile.H, shader.TileY)
		if !okU || !okV {
			return color.Transparent
		}
		px := min(int(u*scale), tw-1)
		py := min(int(v*scale), th-1)
		c := img.RGBAAt(px, py)
		if alpha != 0xff {
			c.R = uint8(uint16(c.R) * uint16(alpha) / 0xff)
			c.G = uint8(uint16(c.G) * uint16(alpha) / 0xff)
			c.B = uint8(uint16(c.B) * uint16(alpha) / 0xff)
			c.A = uint8(uint16(c.A) * uint16(alpha) / 0xff)
		}
		return c
	})
}
