// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// wEpsilon keeps clipped vertices strictly in front of the eye so the
// perspective divide stays finite.
const wEpsilon = 1e-5

// maxClipVerts bounds the polygon size: each of the three planes can add
// one vertex to a triangle.
const maxClipVerts = 6

type polygon struct {
	n int
	v [maxClipVerts]Vertex
}

// plane returns the signed distance of v to a clip plane; v is inside
// when it is >= 0.
type plane func(v *Vertex) float32

var clipPlanes = [...]plane{
	func(v *Vertex) float32 { return v.Position[3] - wEpsilon },      // w > 0
	func(v *Vertex) float32 { return v.Position[2] },                 // near: z >= 0
	func(v *Vertex) float32 { return v.Position[3] - v.Position[2] }, // far: z <= w
}

// inside reports whether all vertices are within every clip plane.
func inside(tri *[3]Vertex) bool {
	for _, p := range clipPlanes {
		for i := range tri {
			if p(&tri[i]) < 0 {
				return false
			}
		}
	}
	return true
}

// clip clips a triangle against the depth and w planes with
// Sutherland-Hodgman. The result may have 0 or 3..6 vertices.
func clip(tri *[3]Vertex) polygon {
	var cur polygon
	cur.n = 3
	copy(cur.v[:], tri[:])

	for _, p := range clipPlanes {
		if cur.n == 0 {
			break
		}
		var next polygon
		for i := 0; i < cur.n; i++ {
			a := &cur.v[i]
			b := &cur.v[(i+1)%cur.n]
			da, db := p(a), p(b)
			if da >= 0 {
				next.push(*a)
			}
			if (da >= 0) != (db >= 0) {
				next.push(lerpVertex(a, b, da/(da-db)))
			}
		}
		cur = next
	}
	return cur
}

func (p *polygon) push(v Vertex) {
	if p.n < maxClipVerts {
		p.v[p.n] = v
		p.n++
	}
}

func lerpVertex(a, b *Vertex, t float32) Vertex {
	var out Vertex
	for i := range out.Position {
		out.Position[i] = a.Position[i] + (b.Position[i]-a.Position[i])*t
	}
	for i := range out.Attr {
		out.Attr[i] = a.Attr[i] + (b.Attr[i]-a.Attr[i])*t
	}
	return out
}
