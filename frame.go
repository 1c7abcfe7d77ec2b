package shadekit

import "fmt"

// MaxDimension is the largest frame or texture width and height, the
// WebGPU default limit for 2D textures.
const MaxDimension = 8192

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// Frame is a render target: a color attachment and a matching depth
// attachment.
type Frame struct {
	Color *Pixmap
	Depth *DepthBuffer

	clear      RGBA
	clearValid bool
}

// NewFrame creates a transparent frame with depth cleared to 1.
func NewFrame(width, height int) (*Frame, error) {
	if !validSize(width, height) {
		return nil, fmt.Errorf("frame %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Frame{
		Color: NewPixmap(width, height),
		Depth: NewDepthBuffer(width, height),
	}, nil
}

// Width returns the frame width.
func (f *Frame) Width() int { return f.Color.Width() }

// Height returns the frame height.
func (f *Frame) Height() int { return f.Color.Height() }

// Clear fills the color attachment with c and resets depth to 1. The next
// draw on a GPU backend turns this into a clear load operation instead of
// uploading the color attachment.
func (f *Frame) Clear(c RGBA) {
	f.Color.Clear(c)
	f.Depth.Clear(1)
	f.clear = c
	f.clearValid = true
}

// PendingClear returns the clear color set since the last draw, if any.
func (f *Frame) PendingClear() (RGBA, bool) {
	return f.clear, f.clearValid
}

// ConsumeClear marks the pending clear as applied. Backends call it after
// a draw.
func (f *Frame) ConsumeClear() {
	f.clearValid = false
}
