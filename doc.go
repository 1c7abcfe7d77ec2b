// Package shadekit provides two small WGSL shader programs and everything
// needed to run them: a GPU backend built on gogpu/wgpu and a software
// reference renderer that executes the same stages on the CPU.
//
// # Overview
//
// The library ships two programs with vs_main and fs_main entry points:
//
//   - unlit: positions pass through to clip space and per-vertex colors
//     are written as opaque fragments.
//   - textured: positions are transformed by a column-major mat4 uniform
//     (group 1, binding 0) and fragments sample a 2D texture (group 0,
//     binding 0) through a sampler (group 0, binding 1).
//
// The WGSL sources and their binding contract live in package shader.
// This package holds the host-side data model (vertices, meshes, matrices,
// textures, samplers) and Go renditions of the four stages, which act as
// an executable reference for the GPU programs.
//
// # Quick Start
//
//	import "github.com/gogpu/shadekit"
//
//	frame, _ := shadekit.NewFrame(640, 480)
//	frame.Clear(shadekit.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 1})
//
//	r := shadekit.NewSoftwareRenderer()
//	defer r.Close()
//
//	mesh := shadekit.Mesh[shadekit.ColorVertex]{Vertices: shadekit.TriangleVertices}
//	_ = r.DrawUnlit(frame, mesh)
//	_ = frame.Color.SavePNG("triangle.png")
//
// # Backends
//
// Backends are registered by name. The software backend is always
// available; importing github.com/gogpu/shadekit/gpu registers "gpu",
// which opens a Vulkan adapter when the backend is created:
//
//	import _ "github.com/gogpu/shadekit/gpu"
//
//	b, err := shadekit.NewBackend("gpu")
//
// # Coordinate System
//
// Clip space follows WebGPU: x and y in [-1, 1] with y up, depth in [0, 1].
// Matrices are column-major and post-multiply column vectors, matching
// WGSL's mat4x4<f32> * vec4<f32>. Front faces are counter-clockwise.
//
// # Logging
//
// shadekit is silent by default. Call [SetLogger] to route diagnostics to
// any slog handler.
package shadekit
