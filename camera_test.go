package shadekit

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestProjectionDepthRange(t *testing.T) {
	p := NewProjection(1280, 720, 45, 0.1, 100)
	m := p.Matrix()

	near := m.Mul4x1(V4(0, 0, -0.1, 1))
	far := m.Mul4x1(V4(0, 0, -100, 1))

	if z := near[2] / near[3]; math32.Abs(z) > eps {
		t.Errorf("near plane depth = %v, want 0", z)
	}
	if z := far[2] / far[3]; !mgl32.FloatEqualThreshold(z, 1, 1e-4) {
		t.Errorf("far plane depth = %v, want 1", z)
	}
}

func TestProjectionResize(t *testing.T) {
	p := NewProjection(100, 50, 60, 0.1, 10)
	if p.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", p.Aspect)
	}
	p.Resize(30, 0)
	if p.Aspect != 2 {
		t.Errorf("Resize with zero height changed aspect to %v", p.Aspect)
	}
	p.Resize(30, 60)
	if p.Aspect != 0.5 {
		t.Errorf("Aspect = %v, want 0.5", p.Aspect)
	}
}

func TestCameraViewMapsTargetToForward(t *testing.T) {
	c := DefaultCamera()
	v := c.View().Mul4x1(c.Target.Vec4(1))
	// Right-handed: the target lies on -Z in view space at distance |eye|.
	if math32.Abs(v[0]) > eps || math32.Abs(v[1]) > eps {
		t.Errorf("target not centred: %v", v)
	}
	want := -c.Eye.Len()
	if !mgl32.FloatEqualThreshold(v[2], want, eps) {
		t.Errorf("target z = %v, want %v", v[2], want)
	}
}

func TestCameraOrbit(t *testing.T) {
	c := DefaultCamera()
	o := c.Orbit(mgl32.DegToRad(90))

	dist := c.Eye.Sub(c.Target).Len()
	if got := o.Eye.Sub(o.Target).Len(); !mgl32.FloatEqualThreshold(got, dist, eps) {
		t.Errorf("orbit changed distance: %v, want %v", got, dist)
	}
	if o.Eye[1] != c.Eye[1] {
		t.Errorf("orbit changed height: %v", o.Eye[1])
	}
	if !mgl32.FloatEqualThreshold(o.Eye[0], 2, eps) || math32.Abs(o.Eye[2]) > eps {
		t.Errorf("Orbit(90°) eye = %v, want (2, 1, 0)", o.Eye)
	}
	if c.Orbit(0).Eye != c.Eye {
		t.Error("Orbit(0) moved the eye")
	}
}

func TestViewProjectionCentre(t *testing.T) {
	c := DefaultCamera()
	p := NewProjection(1280, 720, 45, 0.1, 100)
	clip := ViewProjection(c, p).Mul4x1(V4(0, 0, 0, 1))
	ndc := clip.Vec3().Mul(1 / clip[3])
	if math32.Abs(ndc[0]) > eps || math32.Abs(ndc[1]) > eps {
		t.Errorf("origin should project to the centre, got %v", ndc)
	}
	if ndc[2] <= 0 || ndc[2] >= 1 {
		t.Errorf("origin depth %v outside (0, 1)", ndc[2])
	}
}
