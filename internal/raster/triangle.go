// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "github.com/chewxy/math32"

// screenVertex is a vertex after perspective divide and viewport mapping.
type screenVertex struct {
	x, y, z float32
	invW    float32
	attr    [MaxAttr]float32
}

// Triangle is a screen-space triangle ready for scan conversion. Its
// vertices are ordered so that the edge functions are positive inside.
type Triangle struct {
	v     [3]screenVertex
	area  float32
	front bool

	minX, minY, maxX, maxY int
}

// Setup clips tri, projects the result to the viewport, culls and appends
// the surviving triangles to dst. A triangle crossing the near plane can
// produce up to four output triangles.
func Setup(tri [3]Vertex, vp Viewport, cull CullMode, dst []Triangle) []Triangle {
	if vp.Width <= 0 || vp.Height <= 0 {
		return dst
	}
	var poly polygon
	if inside(&tri) {
		poly.n = 3
		copy(poly.v[:], tri[:])
	} else {
		poly = clip(&tri)
	}
	if poly.n < 3 {
		return dst
	}

	var sv [maxClipVerts]screenVertex
	for i := 0; i < poly.n; i++ {
		sv[i] = project(&poly.v[i], vp)
	}
	for i := 1; i+1 < poly.n; i++ {
		if t, ok := newTriangle(sv[0], sv[i], sv[i+1], vp, cull); ok {
			dst = append(dst, t)
		}
	}
	return dst
}

func project(v *Vertex, vp Viewport) screenVertex {
	invW := 1 / v.Position[3]
	nx := v.Position[0] * invW
	ny := v.Position[1] * invW
	return screenVertex{
		x:    (nx + 1) * 0.5 * float32(vp.Width),
		y:    (1 - ny) * 0.5 * float32(vp.Height),
		z:    v.Position[2] * invW,
		invW: invW,
		attr: v.Attr,
	}
}

// signedArea is twice the signed area in screen space (y down). It is
// negative for triangles that are counter-clockwise in clip space.
func signedArea(a, b, c *screenVertex) float32 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

func newTriangle(a, b, c screenVertex, vp Viewport, cull CullMode) (Triangle, bool) {
	area := signedArea(&a, &b, &c)
	if area == 0 || area != area {
		return Triangle{}, false
	}
	front := area < 0
	switch {
	case cull == CullBack && !front, cull == CullFront && front:
		return Triangle{}, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	t := Triangle{v: [3]screenVertex{a, b, c}, area: area, front: front}
	minX := math32.Min(a.x, math32.Min(b.x, c.x))
	maxX := math32.Max(a.x, math32.Max(b.x, c.x))
	minY := math32.Min(a.y, math32.Min(b.y, c.y))
	maxY := math32.Max(a.y, math32.Max(b.y, c.y))

	// Clamp before converting: far off-screen vertices overflow int.
	w, h := float32(vp.Width-1), float32(vp.Height-1)
	if minX > w+1 || minY > h+1 || maxX < -1 || maxY < -1 {
		return Triangle{}, false
	}
	t.minX = int(math32.Floor(math32.Max(minX, 0)))
	t.minY = int(math32.Floor(math32.Max(minY, 0)))
	t.maxX = int(math32.Ceil(math32.Min(maxX, w)))
	t.maxY = int(math32.Ceil(math32.Min(maxY, h)))
	if t.minX > t.maxX || t.minY > t.maxY {
		return Triangle{}, false
	}
	return t, true
}

// FrontFacing reports whether the triangle is counter-clockwise in clip
// space.
func (t *Triangle) FrontFacing() bool { return t.front }

// Bounds returns the inclusive pixel bounding box, clamped to the viewport.
func (t *Triangle) Bounds() (minX, minY, maxX, maxY int) {
	return t.minX, t.minY, t.maxX, t.maxY
}

// edge evaluates the edge function of a->b at p. It is positive on the
// inside of a triangle with positive signedArea.
func edge(a, b *screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether a->b is a top or left edge. Pixels exactly on
// such edges are covered; pixels on other edges are not, so triangles
// sharing an edge never cover a pixel twice.
func topLeft(a, b *screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

func covered(e float32, tl bool) bool {
	return e > 0 || (e == 0 && tl)
}

// Rasterize calls fn for every covered pixel whose row lies in [y0, y1),
// in row-major order. The Fragment passed to fn is reused between calls.
func (t *Triangle) Rasterize(y0, y1 int, fn func(*Fragment)) {
	y0 = max(y0, t.minY)
	y1 = min(y1, t.maxY+1)
	if y0 >= y1 {
		return
	}
	a, b, c := &t.v[0], &t.v[1], &t.v[2]
	tlA := topLeft(b, c)
	tlB := topLeft(c, a)
	tlC := topLeft(a, b)

	var f Fragment
	f.FrontFacing = t.front
	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := t.minX; x <= t.maxX; x++ {
			px := float32(x) + 0.5
			ea := edge(b, c, px, py)
			eb := edge(c, a, px, py)
			ec := edge(a, b, px, py)
			if !covered(ea, tlA) || !covered(eb, tlB) || !covered(ec, tlC) {
				continue
			}
			f.X, f.Y = x, y
			t.interpolate(&f, px, py)
			fn(&f)
		}
	}
}

// weights returns the screen-space barycentric weights of b and c at p.
func (t *Triangle) weights(px, py float32) (wb, wc float32) {
	a, b, c := &t.v[0], &t.v[1], &t.v[2]
	return edge(c, a, px, py) / t.area, edge(a, b, px, py) / t.area
}

// attrsAt returns perspective-correct attributes at p together with the
// interpolated 1/w. Every quantity is a + wb*(b-a) + wc*(c-a), so a value
// that is equal at all three vertices is reproduced exactly.
func (t *Triangle) attrsAt(px, py float32) (attr [MaxAttr]float32, invW float32) {
	a, b, c := &t.v[0], &t.v[1], &t.v[2]
	wb, wc := t.weights(px, py)

	invW = a.invW + wb*(b.invW-a.invW) + wc*(c.invW-a.invW)
	pb := wb * b.invW / invW
	pc := wc * c.invW / invW
	for i := range attr {
		attr[i] = a.attr[i] + pb*(b.attr[i]-a.attr[i]) + pc*(c.attr[i]-a.attr[i])
	}
	return attr, invW
}

func (t *Triangle) interpolate(f *Fragment, px, py float32) {
	a, b, c := &t.v[0], &t.v[1], &t.v[2]
	wb, wc := t.weights(px, py)
	f.Depth = a.z + wb*(b.z-a.z) + wc*(c.z-a.z)
	f.Depth = math32.Max(0, math32.Min(f.Depth, 1))

	f.Attr, f.InvW = t.attrsAt(px, py)
	right, _ := t.attrsAt(px+1, py)
	down, _ := t.attrsAt(px, py+1)
	for i := range f.Attr {
		f.DDX[i] = right[i] - f.Attr[i]
		f.DDY[i] = down[i] - f.Attr[i]
	}
}
