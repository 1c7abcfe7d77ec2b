// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster implements triangle setup and scan conversion for the
// software renderer: clipping in homogeneous clip space, perspective
// divide, viewport mapping, face culling and a top-left fill rule with
// perspective-correct attribute interpolation.
package raster

// MaxAttr is the number of scalar attributes carried per vertex.
const MaxAttr = 4

// Vertex is a clip-space vertex as produced by a vertex stage.
type Vertex struct {
	Position [4]float32
	Attr     [MaxAttr]float32
}

// CullMode selects discarded faces (internal copy to avoid import cycle).
type CullMode uint8

const (
	// CullBack discards clockwise triangles.
	CullBack CullMode = iota
	// CullNone keeps both faces.
	CullNone
	// CullFront discards counter-clockwise triangles.
	CullFront
)

// Viewport is the pixel size of the render target. Clip x = -1 maps to the
// left edge, y = +1 to the top row, and depth is taken from z unchanged.
type Viewport struct {
	Width, Height int
}

// Fragment is one covered pixel.
type Fragment struct {
	X, Y int
	// Depth is the interpolated normalized device depth in [0, 1].
	Depth float32
	// InvW is the interpolated 1/w.
	InvW        float32
	Attr        [MaxAttr]float32
	DDX, DDY    [MaxAttr]float32
	FrontFacing bool
}
