package shadekit

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex strides in bytes.
const (
	ColorVertexSize   = 24
	TextureVertexSize = 20
	ModelVertexSize   = 32
)

// ColorVertex is the input of the unlit program: position at location 0
// and color at location 1, both vec3<f32>.
type ColorVertex struct {
	Position Vec3
	Color    Vec3
}

// Layout describes ColorVertex to a render pipeline.
func (ColorVertex) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: ColorVertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // color
		},
	}
}

// AppendBytes appends the little-endian vertex buffer encoding of v.
func (v ColorVertex) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, v.Position[:])
	return appendFloats(dst, v.Color[:])
}

// TextureVertex is the input of the textured program: position at
// location 0 (vec3<f32>) and texture coordinates at location 1 (vec2<f32>).
type TextureVertex struct {
	Position  Vec3
	TexCoords Vec2
}

// Layout describes TextureVertex to a render pipeline.
func (TextureVertex) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: TextureVertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // tex_coords
		},
	}
}

// AppendBytes appends the little-endian vertex buffer encoding of v.
func (v TextureVertex) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, v.Position[:])
	return appendFloats(dst, v.TexCoords[:])
}

// ModelVertex carries a normal in addition to position and UV. Its first
// two attributes line up with TextureVertex, so model meshes can be drawn
// with the textured program by converting them with TextureVertices.
type ModelVertex struct {
	Position Vec3
	UV       Vec2
	Normal   Vec3
}

// Layout describes ModelVertex to a render pipeline.
func (ModelVertex) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: ModelVertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	}
}

// AppendBytes appends the little-endian vertex buffer encoding of v.
func (v ModelVertex) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, v.Position[:])
	dst = appendFloats(dst, v.UV[:])
	return appendFloats(dst, v.Normal[:])
}

// TextureVertices drops the normals of a model mesh.
func TextureVertices(vs []ModelVertex) []TextureVertex {
	out := make([]TextureVertex, len(vs))
	for i, v := range vs {
		out[i] = TextureVertex{Position: v.Position, TexCoords: v.UV}
	}
	return out
}

// VertexData is implemented by vertex types that can be uploaded to a
// vertex buffer.
type VertexData interface {
	Layout() gputypes.VertexBufferLayout
	AppendBytes(dst []byte) []byte
}

// VertexBytes encodes a vertex slice into one contiguous buffer.
func VertexBytes[V VertexData](vs []V) []byte {
	if len(vs) == 0 {
		return nil
	}
	stride := int(vs[0].Layout().ArrayStride)
	dst := make([]byte, 0, stride*len(vs))
	for _, v := range vs {
		dst = v.AppendBytes(dst)
	}
	return dst
}

// IndexBytes encodes uint16 indices, padded to a multiple of 4 bytes as
// buffer copies require.
func IndexBytes(indices []uint16) []byte {
	n := len(indices) * 2
	dst := make([]byte, n, (n+3)&^3)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(dst[i*2:], idx)
	}
	return dst[:cap(dst)]
}

func appendFloats(dst []byte, fs []float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// SquareVertices is a unit quad centred on the origin in the z = 0 plane,
// with texture coordinates covering the whole texture (v down).
var SquareVertices = []TextureVertex{
	{Position: Vec3{0.5, 0.5, 0}, TexCoords: Vec2{1, 0}},
	{Position: Vec3{-0.5, 0.5, 0}, TexCoords: Vec2{0, 0}},
	{Position: Vec3{-0.5, -0.5, 0}, TexCoords: Vec2{0, 1}},
	{Position: Vec3{0.5, -0.5, 0}, TexCoords: Vec2{1, 1}},
}

// SquareIndices are the two counter-clockwise triangles of SquareVertices.
var SquareIndices = []uint16{0, 1, 2, 0, 2, 3}

// TriangleVertices is a counter-clockwise triangle with red, green and
// blue corners.
var TriangleVertices = []ColorVertex{
	{Position: Vec3{0, 0.5, 0}, Color: Vec3{1, 0, 0}},
	{Position: Vec3{-0.5, -0.5, 0}, Color: Vec3{0, 1, 0}},
	{Position: Vec3{0.5, -0.5, 0}, Color: Vec3{0, 0, 1}},
}
