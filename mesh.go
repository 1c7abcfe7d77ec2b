package shadekit

import "fmt"

// Mesh is a triangle list. When Indices is nil the vertices are drawn in
// order, three per triangle; otherwise each consecutive index triple forms
// a triangle (uint16 indices, as the index buffer format).
type Mesh[V any] struct {
	Vertices []V
	Indices  []uint16
}

// NewMesh creates an indexed mesh.
func NewMesh[V any](vertices []V, indices []uint16) Mesh[V] {
	return Mesh[V]{Vertices: vertices, Indices: indices}
}

// Indexed reports whether the mesh uses an index buffer.
func (m Mesh[V]) Indexed() bool {
	return m.Indices != nil
}

// Triangles returns the number of triangles the mesh draws.
func (m Mesh[V]) Triangles() int {
	if m.Indexed() {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Validate checks that the mesh forms whole triangles and that every index
// refers to a vertex.
func (m Mesh[V]) Validate() error {
	if !m.Indexed() {
		if len(m.Vertices)%3 != 0 {
			return fmt.Errorf("%d vertices: %w", len(m.Vertices), ErrVertexCount)
		}
		return nil
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices: %w", len(m.Indices), ErrIndexCount)
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d = %d with %d vertices: %w", i, idx, len(m.Vertices), ErrIndexOutOfRange)
		}
	}
	return nil
}

// Triangle returns the vertex indices of triangle t.
func (m Mesh[V]) Triangle(t int) (a, b, c int) {
	if m.Indexed() {
		return int(m.Indices[t*3]), int(m.Indices[t*3+1]), int(m.Indices[t*3+2])
	}
	return t * 3, t*3 + 1, t*3 + 2
}

// SquareMesh returns the textured unit quad.
func SquareMesh() Mesh[TextureVertex] {
	return NewMesh(SquareVertices, SquareIndices)
}

// TriangleMesh returns the vertex-colored triangle.
func TriangleMesh() Mesh[ColorVertex] {
	return Mesh[ColorVertex]{Vertices: TriangleVertices}
}
