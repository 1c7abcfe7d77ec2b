package shadekit

import (
	"image/color"
	"math"
	"testing"
)

// Verify at compile time that RGBA implements color.Color.
var _ color.Color = RGBA{}

func TestRGBABytes(t *testing.T) {
	tests := []struct {
		name       string
		c          RGBA
		r, g, b, a uint8
	}{
		{"black", Black, 0, 0, 0, 255},
		{"white", White, 255, 255, 255, 255},
		{"transparent", Transparent, 0, 0, 0, 0},
		{"half", RGBA{0.5, 0.5, 0.5, 0.5}, 128, 128, 128, 128},
		{"clamped", RGBA{-1, 2, 0.2, 1}, 0, 255, 51, 255},
		{"nan", RGBA{float32(math.NaN()), 0, 0, 1}, 0, 0, 0, 255},
		{"clear color", RGBA{0.1, 0.2, 0.3, 1}, 26, 51, 77, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.Bytes()
			if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
				t.Errorf("Bytes() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestFromColorRoundtrip(t *testing.T) {
	for _, v := range []uint8{0, 1, 26, 127, 128, 254, 255} {
		c := FromBytes(v, v, v, 255)
		r, _, _, _ := c.Bytes()
		if r != v {
			t.Errorf("FromBytes(%d).Bytes() = %d", v, r)
		}
	}

	got := FromColor(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	if got != (RGBA{1, 0, 0.2, 1}) {
		t.Errorf("FromColor = %+v", got)
	}
}

func TestLerpEqualEndpointsIsExact(t *testing.T) {
	c := RGBA{0.1, 0.7, 0.33333334, 0.9}
	for _, tv := range []float32{0, 0.1, 0.25, 0.5, 0.77, 1} {
		if got := c.Lerp(c, tv); got != c {
			t.Errorf("Lerp(c, c, %v) = %+v, want %+v", tv, got, c)
		}
	}
	if got := Black.Lerp(White, 0.5); got != (RGBA{0.5, 0.5, 0.5, 1}) {
		t.Errorf("Lerp(black, white, 0.5) = %+v", got)
	}
}

func TestColorVec4(t *testing.T) {
	c := RGBA{0.25, 0.5, 0.75, 1}
	if ColorFromVec4(c.Vec4()) != c {
		t.Error("ColorFromVec4(c.Vec4()) != c")
	}
}
