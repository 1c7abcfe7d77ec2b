package shadekit

import (
	"bytes"
	"errors"
	"testing"
)

var clearColor = RGBA{0.1, 0.2, 0.3, 1}

func newTestFrame(t *testing.T, w, h int) *Frame {
	t.Helper()
	f, err := NewFrame(w, h)
	if err != nil {
		t.Fatal(err)
	}
	f.Clear(clearColor)
	return f
}

func newTestRenderer(t *testing.T, opts ...RendererOption) *SoftwareRenderer {
	t.Helper()
	r := NewSoftwareRenderer(opts...)
	t.Cleanup(r.Close)
	return r
}

func TestDrawUnlitTriangle(t *testing.T) {
	r := newTestRenderer(t)
	f := newTestFrame(t, 64, 64)
	if err := r.DrawUnlit(f, TriangleMesh()); err != nil {
		t.Fatal(err)
	}

	// Corners stay at the clear color.
	if got := f.Color.GetPixel(0, 0); got != FromColor(clearColor) {
		t.Errorf("corner = %+v, want clear color", got)
	}
	// Near the top vertex the triangle is mostly red.
	top := f.Color.GetPixel(32, 18)
	if !(top.R > top.G && top.R > top.B) {
		t.Errorf("near top vertex = %+v, want red dominant", top)
	}
	// Near the bottom-left vertex it is mostly green.
	bl := f.Color.GetPixel(17, 47)
	if !(bl.G > bl.R && bl.G > bl.B) {
		t.Errorf("near bottom-left vertex = %+v, want green dominant", bl)
	}
	if _, ok := f.PendingClear(); ok {
		t.Error("draw should consume the pending clear")
	}
}

func TestDrawUnlitSolidColorExact(t *testing.T) {
	c := V3(0.3, 0.6, 0.9)
	verts := make([]ColorVertex, len(TriangleVertices))
	for i, v := range TriangleVertices {
		verts[i] = ColorVertex{Position: v.Position, Color: c}
	}
	r := newTestRenderer(t)
	f := newTestFrame(t, 40, 40)
	if err := r.DrawUnlit(f, Mesh[ColorVertex]{Vertices: verts}); err != nil {
		t.Fatal(err)
	}
	want := RGBA{c[0], c[1], c[2], 1}
	wr, wg, wb, wa := want.Bytes()
	covered := 0
	for y := range 40 {
		for x := range 40 {
			p := f.Color.Row(y)[x*4 : x*4+4]
			if p[0] == 26 && p[1] == 51 && p[2] == 77 {
				continue // clear color
			}
			covered++
			if p[0] != wr || p[1] != wg || p[2] != wb || p[3] != wa {
				t.Fatalf("pixel (%d, %d) = %v, want %d %d %d %d", x, y, p, wr, wg, wb, wa)
			}
		}
	}
	if covered == 0 {
		t.Fatal("triangle covered no pixels")
	}
}

func TestDrawTexturedSolidSquare(t *testing.T) {
	fill := RGBA{0.8, 0.4, 0.2, 1}
	tex, err := NewSolidTexture(16, 16, fill)
	if err != nil {
		t.Fatal(err)
	}
	tex.GenerateMips()

	for _, s := range allSamplers() {
		r := newTestRenderer(t, WithWorkers(2))
		f := newTestFrame(t, 32, 32)
		if err := r.DrawTextured(f, SquareMesh(), Identity(), tex, s); err != nil {
			t.Fatal(err)
		}
		// The unit square spans NDC [-0.5, 0.5], pixels 8..23.
		for y := range 32 {
			for x := range 32 {
				want := clearColor
				if x >= 8 && x < 24 && y >= 8 && y < 24 {
					want = fill
				}
				wantPix := FromColor(want)
				if got := f.Color.GetPixel(x, y); got != wantPix {
					t.Fatalf("sampler %+v pixel (%d, %d) = %+v, want %+v", s, x, y, got, wantPix)
				}
			}
		}
	}
}

func TestDrawDepthTest(t *testing.T) {
	near := []ColorVertex{
		{Position: V3(0, 1, 0.2), Color: V3(1, 0, 0)},
		{Position: V3(-1, -1, 0.2), Color: V3(1, 0, 0)},
		{Position: V3(1, -1, 0.2), Color: V3(1, 0, 0)},
	}
	far := []ColorVertex{
		{Position: V3(0, 1, 0.8), Color: V3(0, 0, 1)},
		{Position: V3(-1, -1, 0.8), Color: V3(0, 0, 1)},
		{Position: V3(1, -1, 0.8), Color: V3(0, 0, 1)},
	}

	tests := []struct {
		name      string
		depthTest bool
		want      RGBA
	}{
		{"depth test keeps nearest", true, Red},
		{"no depth test keeps last", false, Blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, WithDepthTest(tt.depthTest))
			f := newTestFrame(t, 16, 16)
			for _, vs := range [][]ColorVertex{near, far} {
				if err := r.DrawUnlit(f, Mesh[ColorVertex]{Vertices: vs}); err != nil {
					t.Fatal(err)
				}
			}
			if got := f.Color.GetPixel(8, 10); got != tt.want {
				t.Errorf("centre = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDrawCulling(t *testing.T) {
	cw := []ColorVertex{TriangleVertices[0], TriangleVertices[2], TriangleVertices[1]}
	tests := []struct {
		cull  CullMode
		drawn bool
	}{
		{CullBack, false},
		{CullNone, true},
		{CullFront, true},
	}
	for _, tt := range tests {
		t.Run(tt.cull.String(), func(t *testing.T) {
			r := newTestRenderer(t, WithCullMode(tt.cull))
			f := newTestFrame(t, 16, 16)
			if err := r.DrawUnlit(f, Mesh[ColorVertex]{Vertices: cw}); err != nil {
				t.Fatal(err)
			}
			drawn := f.Color.GetPixel(8, 8) != FromColor(clearColor)
			if drawn != tt.drawn {
				t.Errorf("drawn = %v, want %v", drawn, tt.drawn)
			}
		})
	}
}

func TestDrawErrors(t *testing.T) {
	r := NewSoftwareRenderer()
	f := newTestFrame(t, 4, 4)
	tex, _ := NewSolidTexture(1, 1, White)

	bad := Mesh[TextureVertex]{Vertices: SquareVertices, Indices: []uint16{0, 1, 7}}
	if err := r.DrawTextured(f, bad, Identity(), tex, DefaultSampler()); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad index err = %v", err)
	}
	if err := r.DrawTextured(f, SquareMesh(), Identity(), nil, DefaultSampler()); !errors.Is(err, ErrNilTexture) {
		t.Errorf("nil texture err = %v", err)
	}
	if err := r.DrawUnlit(nil, TriangleMesh()); !errors.Is(err, ErrNilFrame) {
		t.Errorf("nil frame err = %v", err)
	}
	r.Close()
	r.Close()
	if err := r.DrawUnlit(f, TriangleMesh()); !errors.Is(err, ErrClosed) {
		t.Errorf("closed err = %v", err)
	}
}

func TestDrawDeterministicAcrossWorkers(t *testing.T) {
	tex, _ := NewCheckerTexture(32, 32, 4, Red, White)
	tex.GenerateMips()
	m := ViewProjection(DefaultCamera().Orbit(0.4), NewProjection(96, 64, 45, 0.1, 100))

	render := func(workers int) []byte {
		r := newTestRenderer(t, WithWorkers(workers), WithCullMode(CullNone))
		f := newTestFrame(t, 96, 64)
		if err := r.DrawTextured(f, SquareMesh(), m, tex, DefaultSampler()); err != nil {
			t.Fatal(err)
		}
		return f.Color.Data()
	}

	want := render(1)
	for _, w := range []int{2, 3, 8} {
		if got := render(w); !bytes.Equal(got, want) {
			t.Errorf("workers=%d output differs from single worker", w)
		}
	}
	if bytes.Equal(want, newTestFrame(t, 96, 64).Color.Data()) {
		t.Error("perspective square drew nothing")
	}
}
