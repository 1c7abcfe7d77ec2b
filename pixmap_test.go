package shadekit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

var _ image.Image = (*Pixmap)(nil)

func TestPixmapSetGet(t *testing.T) {
	pm := NewPixmap(4, 3)
	pm.SetPixel(1, 2, RGBA{1, 0.5, 0, 1})
	pm.SetPixel(-1, 0, White) // ignored
	pm.SetPixel(4, 0, White)  // ignored

	if got := pm.At(1, 2); got != (color.NRGBA{R: 255, G: 128, A: 255}) {
		t.Errorf("At(1, 2) = %v", got)
	}
	if got := pm.GetPixel(0, 0); got != Transparent {
		t.Errorf("GetPixel(0, 0) = %+v, want transparent", got)
	}
	if got := pm.GetPixel(9, 9); got != Transparent {
		t.Errorf("GetPixel out of bounds = %+v", got)
	}
	if row := pm.Row(2); len(row) != 16 || row[4] != 255 {
		t.Errorf("Row(2) = %v", row)
	}
}

func TestPixmapClear(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Clear(RGBA{0.1, 0.2, 0.3, 1})
	for y := range 3 {
		for x := range 3 {
			if got := pm.At(x, y); got != (color.NRGBA{R: 26, G: 51, B: 77, A: 255}) {
				t.Fatalf("At(%d, %d) = %v", x, y, got)
			}
		}
	}
}

func TestPixmapPNG(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Clear(Red)
	pm.SetPixel(1, 1, Blue)

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(1, 1).RGBA(); r != 0 || b != 0xffff {
		t.Errorf("decoded (1, 1) = %v", img.At(1, 1))
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := pm.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := pm.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}
