package shadekit

import (
	"errors"
	"testing"
)

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width() != 8 || f.Height() != 4 {
		t.Errorf("size = %dx%d", f.Width(), f.Height())
	}
	if f.Depth.At(7, 3) != 1 {
		t.Errorf("depth = %v, want 1", f.Depth.At(7, 3))
	}
	if _, ok := f.PendingClear(); ok {
		t.Error("new frame should have no pending clear")
	}

	for _, sz := range [][2]int{{0, 4}, {4, -1}, {MaxDimension + 1, 4}, {4, 1_000_000_000}} {
		if _, err := NewFrame(sz[0], sz[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewFrame(%d, %d) err = %v", sz[0], sz[1], err)
		}
	}
}

func TestFrameClear(t *testing.T) {
	f, _ := NewFrame(2, 2)
	f.Depth.TestAndSet(1, 1, 0.25)
	f.Clear(Green)

	if f.Color.GetPixel(1, 1) != Green {
		t.Errorf("color = %+v", f.Color.GetPixel(1, 1))
	}
	if f.Depth.At(1, 1) != 1 {
		t.Errorf("depth not reset: %v", f.Depth.At(1, 1))
	}
	c, ok := f.PendingClear()
	if !ok || c != Green {
		t.Errorf("PendingClear = %+v, %v", c, ok)
	}
	f.ConsumeClear()
	if _, ok := f.PendingClear(); ok {
		t.Error("ConsumeClear did not reset the pending clear")
	}
}

func TestDepthTestAndSet(t *testing.T) {
	d := NewDepthBuffer(1, 1)
	tests := []struct {
		z    float32
		pass bool
	}{
		{1, false}, // Less, not LessEqual
		{0.5, true},
		{0.5, false},
		{0.75, false},
		{0.1, true},
	}
	for i, tt := range tests {
		if got := d.TestAndSet(0, 0, tt.z); got != tt.pass {
			t.Errorf("step %d: TestAndSet(%v) = %v, want %v", i, tt.z, got, tt.pass)
		}
	}
	if d.At(0, 0) != 0.1 {
		t.Errorf("stored depth = %v", d.At(0, 0))
	}
	if d.At(-1, 0) != 1 {
		t.Error("out of bounds depth should be 1")
	}
}
