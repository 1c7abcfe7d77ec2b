package shadekit

// DepthBuffer is a Depth32Float attachment. It is cleared to 1, the far
// plane, and fragments pass when their depth is Less than the stored one.
type DepthBuffer struct {
	width  int
	height int
	data   []float32
}

// NewDepthBuffer creates a depth buffer cleared to 1.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		width:  width,
		height: height,
		data:   make([]float32, width*height),
	}
	d.Clear(1)
	return d
}

// Width returns the width of the buffer.
func (d *DepthBuffer) Width() int { return d.width }

// Height returns the height of the buffer.
func (d *DepthBuffer) Height() int { return d.height }

// Clear sets every sample to v.
func (d *DepthBuffer) Clear(v float32) {
	for i := range d.data {
		d.data[i] = v
	}
}

// At returns the depth at (x, y), or 1 outside the buffer.
func (d *DepthBuffer) At(x, y int) float32 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return 1
	}
	return d.data[y*d.width+x]
}

// TestAndSet stores z at (x, y) if it is less than the current value and
// reports whether the fragment passed.
func (d *DepthBuffer) TestAndSet(x, y int, z float32) bool {
	i := y*d.width + x
	if !(z < d.data[i]) {
		return false
	}
	d.data[i] = z
	return true
}
