package shadekit

import "github.com/go-gl/mathgl/mgl32"

// Camera is a right-handed look-at camera.
type Camera struct {
	Eye    Vec3
	Target Vec3
	Up     Vec3
}

// DefaultCamera looks at the origin from (0, 1, 2) with +Y up.
func DefaultCamera() Camera {
	return Camera{
		Eye:    V3(0, 1, 2),
		Target: V3(0, 0, 0),
		Up:     V3(0, 1, 0),
	}
}

// View returns the world-to-view matrix.
func (c Camera) View() Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Orbit returns a copy of c with the eye rotated by angle radians about
// the vertical axis through the target.
func (c Camera) Orbit(angle float32) Camera {
	offset := c.Eye.Sub(c.Target)
	rotated := RotateY(angle).Mul4x1(offset.Vec4(0)).Vec3()
	c.Eye = c.Target.Add(rotated)
	return c
}

// Projection describes a perspective projection. FovY is in radians.
type Projection struct {
	Aspect float32
	FovY   float32
	ZNear  float32
	ZFar   float32
}

// NewProjection creates a projection for a width x height target with the
// vertical field of view given in degrees.
func NewProjection(width, height int, fovyDegrees, znear, zfar float32) Projection {
	p := Projection{
		Aspect: 1,
		FovY:   mgl32.DegToRad(fovyDegrees),
		ZNear:  znear,
		ZFar:   zfar,
	}
	p.Resize(width, height)
	return p
}

// Resize updates the aspect ratio. A zero height leaves it unchanged.
func (p *Projection) Resize(width, height int) {
	if width > 0 && height > 0 {
		p.Aspect = float32(width) / float32(height)
	}
}

// Matrix returns the projection with WebGPU depth range [0, 1].
func (p Projection) Matrix() Mat4 {
	return OpenGLToWGPU.Mul4(mgl32.Perspective(p.FovY, p.Aspect, p.ZNear, p.ZFar))
}

// ViewProjection returns projection * view, the matrix the textured vertex
// stage expects at group 1, binding 0.
func ViewProjection(c Camera, p Projection) Mat4 {
	return p.Matrix().Mul4(c.View())
}
