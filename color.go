package shadekit

import (
	"image/color"
)

// RGBA is a linear color with float32 components, the value a fragment
// stage writes to a vec4<f32> color target. Components are nominally in
// [0, 1]; out-of-range values are kept until the color is quantized.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the color as (r, g, b, a).
func (c RGBA) Vec4() Vec4 {
	return Vec4{c.R, c.G, c.B, c.A}
}

// ColorFromVec4 converts a vec4 shader output to RGBA.
func ColorFromVec4(v Vec4) RGBA {
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// Color converts c to a non-premultiplied 8-bit color, rounding the same
// way an RGBA8Unorm render target stores a float.
func (c RGBA) Color() color.Color {
	r, g, b, a := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// RGBA implements color.Color. It returns alpha-premultiplied 16-bit
// components of the quantized color.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.Color().RGBA()
}

// Bytes quantizes each component to 8 bits.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)
}

// FromColor converts a standard color.Color to straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return FromBytes(n.R, n.G, n.B, n.A)
}

// FromBytes converts 8-bit unorm components to RGBA.
func FromBytes(r, g, b, a uint8) RGBA {
	return RGBA{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// Lerp interpolates from c to other. When c == other the result is exactly
// c for any t, which filtering relies on.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// unorm8 converts a float to an 8-bit unorm value, clamping to [0, 1]
// and rounding to nearest.
func unorm8(x float32) uint8 {
	if !(x > 0) { // also catches NaN
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)
