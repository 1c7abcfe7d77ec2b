package shadekit

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MatrixSize is the size in bytes of a mat4x4<f32> uniform.
const MatrixSize = 64

// OpenGLToWGPU remaps OpenGL clip-space depth [-w, w] to the WebGPU range
// [0, w]. Projections built with OpenGL conventions are multiplied by it
// on the left:
//
//	| 1  0  0    0   |
//	| 0  1  0    0   |
//	| 0  0  0.5  0.5 |
//	| 0  0  0    1   |
var OpenGLToWGPU = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return mgl32.Ident4()
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return mgl32.Translate3D(x, y, z)
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) Mat4 {
	return mgl32.Scale3D(x, y, z)
}

// RotateY returns a rotation about the Y axis by angle radians.
func RotateY(angle float32) Mat4 {
	return mgl32.HomogRotate3DY(angle)
}

// Transform applies m to the point p with w = 1, the product the textured
// vertex stage computes.
func Transform(m Mat4, p Vec3) Vec4 {
	return m.Mul4x1(p.Vec4(1))
}

// MatrixBytes encodes m as 16 little-endian float32 values in column-major
// order, ready to be written to a uniform buffer.
func MatrixBytes(m Mat4) []byte {
	return AppendMatrix(make([]byte, 0, MatrixSize), m)
}

// AppendMatrix appends the uniform encoding of m to dst.
func AppendMatrix(dst []byte, m Mat4) []byte {
	for _, f := range m {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
