package shadekit

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // decoders for DecodeTexture
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is a 2D texture of straight-alpha float texels with an optional
// mip chain. Level 0 is the full-size image. Textures are read-only while
// a draw is in flight and may be sampled from many goroutines.
type Texture struct {
	levels []mipLevel
}

type mipLevel struct {
	width, height int
	texels        []RGBA
}

func (l *mipLevel) at(x, y int) RGBA {
	return l.texels[y*l.width+x]
}

// NewTexture creates a transparent black texture with a single level.
func NewTexture(width, height int) (*Texture, error) {
	if !validSize(width, height) {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Texture{levels: []mipLevel{{
		width:  width,
		height: height,
		texels: make([]RGBA, width*height),
	}}}, nil
}

// NewSolidTexture creates a texture filled with c.
func NewSolidTexture(width, height int, c RGBA) (*Texture, error) {
	t, err := NewTexture(width, height)
	if err != nil {
		return nil, err
	}
	for i := range t.levels[0].texels {
		t.levels[0].texels[i] = c
	}
	return t, nil
}

// NewCheckerTexture creates a checkerboard of cell x cell squares
// alternating between a and b, starting with a at the top-left.
func NewCheckerTexture(width, height, cell int, a, b RGBA) (*Texture, error) {
	if cell <= 0 {
		return nil, fmt.Errorf("checker cell %d: %w", cell, ErrInvalidDimensions)
	}
	t, err := NewTexture(width, height)
	if err != nil {
		return nil, err
	}
	for y := range height {
		for x := range width {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			t.levels[0].texels[y*width+x] = c
		}
	}
	return t, nil
}

// TextureFromImage converts img to a single-level texture.
func TextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	t, err := NewTexture(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(nrgba, image.Point{}, img, b, xdraw.Src, nil)
	}
	lvl := &t.levels[0]
	for y := range lvl.height {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range lvl.width {
			p := row[x*4 : x*4+4 : x*4+4]
			lvl.texels[y*lvl.width+x] = FromBytes(p[0], p[1], p[2], p[3])
		}
	}
	return t, nil
}

// TextureFromImageSize scales img to width x height with bilinear
// filtering and converts the result to a texture.
func TextureFromImageSize(img image.Image, width, height int) (*Texture, error) {
	if !validSize(width, height) {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return TextureFromImage(dst)
}

// DecodeTexture decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	Logger().Debug("texture decoded", "format", format, "size", img.Bounds().Size())
	return TextureFromImage(img)
}

// LoadTexture reads an image file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	defer f.Close()

	t, err := DecodeTexture(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Width returns the width of level 0.
func (t *Texture) Width() int { return t.levels[0].width }

// Height returns the height of level 0.
func (t *Texture) Height() int { return t.levels[0].height }

// Levels returns the number of mip levels.
func (t *Texture) Levels() int { return len(t.levels) }

// LevelSize returns the dimensions of a mip level.
func (t *Texture) LevelSize(level int) (width, height int) {
	l := &t.levels[level]
	return l.width, l.height
}

// Texel returns the texel at (x, y) of a mip level. Coordinates must be
// in range.
func (t *Texture) Texel(level, x, y int) RGBA {
	return t.levels[level].at(x, y)
}

// SetTexel writes a level 0 texel. Any mip chain is discarded; call
// GenerateMips again after editing.
func (t *Texture) SetTexel(x, y int, c RGBA) {
	l := &t.levels[0]
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		return
	}
	l.texels[y*l.width+x] = c
	t.levels = t.levels[:1]
}

// GenerateMips builds the full mip chain down to 1x1 with a 2x2 box
// filter. Averaging is done pairwise, so a uniform region stays exactly
// uniform at every level.
func (t *Texture) GenerateMips() {
	t.levels = t.levels[:1]
	for {
		src := &t.levels[len(t.levels)-1]
		if src.width == 1 && src.height == 1 {
			return
		}
		w, h := max(src.width/2, 1), max(src.height/2, 1)
		dst := mipLevel{width: w, height: h, texels: make([]RGBA, w*h)}
		for y := range h {
			y0 := min(y*2, src.height-1)
			y1 := min(y*2+1, src.height-1)
			for x := range w {
				x0 := min(x*2, src.width-1)
				x1 := min(x*2+1, src.width-1)
				top := src.at(x0, y0).Lerp(src.at(x1, y0), 0.5)
				bottom := src.at(x0, y1).Lerp(src.at(x1, y1), 0.5)
				dst.texels[y*w+x] = top.Lerp(bottom, 0.5)
			}
		}
		t.levels = append(t.levels, dst)
	}
}

// RGBA8 returns a mip level as tightly packed RGBA8Unorm bytes.
func (t *Texture) RGBA8(level int) []byte {
	l := &t.levels[level]
	out := make([]byte, len(l.texels)*4)
	for i, c := range l.texels {
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = c.Bytes()
	}
	return out
}

// Image returns a mip level as an NRGBA image.
func (t *Texture) Image(level int) *image.NRGBA {
	l := &t.levels[level]
	img := image.NewNRGBA(image.Rect(0, 0, l.width, l.height))
	copy(img.Pix, t.RGBA8(level))
	return img
}

// ColorModel implements image.Image over level 0.
func (t *Texture) ColorModel() color.Model { return color.NRGBAModel }

// Bounds returns the level 0 rectangle.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.Width(), t.Height())
}

// At returns the level 0 texel at (x, y).
func (t *Texture) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(t.Bounds())) {
		return color.NRGBA{}
	}
	return t.levels[0].at(x, y).Color()
}
