package shadekit

import "github.com/go-gl/mathgl/mgl32"

// Vector and matrix types shared with mgl32. Mat4 is column-major: element
// (row, col) is stored at index col*4+row, the same layout as WGSL's
// mat4x4<f32> in a uniform buffer.
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 { return Vec2{x, y} }

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 { return Vec4{x, y, z, w} }
