package shadekit

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
)

// Sampler describes how texture coordinates map to texels. It uses the
// same enums as a GPU sampler descriptor so one value configures both the
// software and the GPU backend.
type Sampler struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
}

// DefaultSampler clamps to the edge, magnifies linearly and minifies with
// the nearest texel of the nearest mip level.
func DefaultSampler() Sampler {
	return Sampler{
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	}
}

// Sample returns the filtered texel at uv from mip level 0, which is what
// a fragment's textureSample resolves to when the texture is not minified.
// uv (0, 0) is the top-left corner of the texture.
func (s Sampler) Sample(t *Texture, uv Vec2) RGBA {
	return s.SampleLevel(t, uv, 0)
}

// SampleLevel samples at an explicit level of detail. lod <= 0 selects the
// magnification filter on level 0; larger values minify and pick mip
// levels according to MipmapFilter.
func (s Sampler) SampleLevel(t *Texture, uv Vec2, lod float32) RGBA {
	if !(lod > 0) {
		return s.sample2D(&t.levels[0], uv, s.MagFilter)
	}
	maxLevel := float32(len(t.levels) - 1)
	lod = min(lod, maxLevel)
	if s.MipmapFilter == gputypes.FilterModeLinear {
		lo := math32.Floor(lod)
		hi := min(lo+1, maxLevel)
		a := s.sample2D(&t.levels[int(lo)], uv, s.MinFilter)
		if hi == lo {
			return a
		}
		b := s.sample2D(&t.levels[int(hi)], uv, s.MinFilter)
		return a.Lerp(b, lod-lo)
	}
	level := int(math32.Floor(lod + 0.5))
	return s.sample2D(&t.levels[level], uv, s.MinFilter)
}

// SampleGrad samples with the level of detail derived from the screen
// space derivatives of uv, as implicit-lod sampling does in a fragment
// shader.
func (s Sampler) SampleGrad(t *Texture, uv, ddx, ddy Vec2) RGBA {
	return s.SampleLevel(t, uv, ComputeLOD(t, ddx, ddy))
}

// ComputeLOD returns log2 of the larger texel-space derivative length.
func ComputeLOD(t *Texture, ddx, ddy Vec2) float32 {
	w, h := float32(t.Width()), float32(t.Height())
	dx := math32.Hypot(ddx[0]*w, ddx[1]*h)
	dy := math32.Hypot(ddy[0]*w, ddy[1]*h)
	rho := max(dx, dy)
	if !(rho > 0) || math32.IsInf(rho, 1) {
		return 0
	}
	return math32.Log2(rho)
}

func (s Sampler) sample2D(l *mipLevel, uv Vec2, filter gputypes.FilterMode) RGBA {
	u := uv[0] * float32(l.width)
	v := uv[1] * float32(l.height)

	if filter != gputypes.FilterModeLinear {
		x := wrap(s.AddressModeU, texelIndex(u), l.width)
		y := wrap(s.AddressModeV, texelIndex(v), l.height)
		return l.at(x, y)
	}

	u -= 0.5
	v -= 0.5
	fu := math32.Floor(u)
	fv := math32.Floor(v)
	tu := fraction(u, fu)
	tv := fraction(v, fv)
	x0, y0 := texelIndex(fu), texelIndex(fv)

	xa := wrap(s.AddressModeU, x0, l.width)
	xb := wrap(s.AddressModeU, x0+1, l.width)
	ya := wrap(s.AddressModeV, y0, l.height)
	yb := wrap(s.AddressModeV, y0+1, l.height)

	top := l.at(xa, ya).Lerp(l.at(xb, ya), tu)
	bottom := l.at(xa, yb).Lerp(l.at(xb, yb), tu)
	return top.Lerp(bottom, tv)
}

const maxTexelIndex = 1 << 24

// texelIndex converts a texel-space coordinate to an integer index,
// mapping NaN to 0 and clamping far out-of-range values.
func texelIndex(f float32) int {
	switch {
	case f != f:
		return 0
	case f >= maxTexelIndex:
		return maxTexelIndex
	case f <= -maxTexelIndex:
		return -maxTexelIndex
	}
	return int(math32.Floor(f))
}

func fraction(f, floor float32) float32 {
	t := f - floor
	if !(t >= 0 && t < 1) {
		return 0
	}
	return t
}

// wrap applies an address mode to a texel index.
func wrap(mode gputypes.AddressMode, i, n int) int {
	switch mode {
	case gputypes.AddressModeRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case gputypes.AddressModeMirrorRepeat:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i
	default:
		return max(0, min(i, n-1))
	}
}
