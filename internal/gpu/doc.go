// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu runs the shadekit programs on a WebGPU device.
//
// It uses the gogpu/wgpu HAL directly (zero CGO). The WGSL sources are the
// ones embedded by the shader package; pipelines are compiled lazily, one
// per program, and cached for the renderer's lifetime.
//
// # Frame flow
//
// Each draw renders into an offscreen RGBA8Unorm color target paired with
// a Depth32Float target, then copies the color target into a staging
// buffer and reads it back into the frame's pixmap:
//
//	upload mesh/uniform/texture -> render pass -> copy to staging -> fence wait -> readback
//
// If the frame has a pending clear, the pass clears to that color.
// Otherwise the pixmap is uploaded first and the pass loads it, so color
// accumulates across draws. Depth is cleared for every pass and is not
// read back: within one draw triangles occlude each other, but a later
// draw is never hidden by an earlier one. The software renderer keeps the
// frame's depth buffer between draws, so the two backends only agree on
// occlusion within a single draw.
//
// # Devices
//
// NewRenderer opens its own headless Vulkan device. A device can instead
// be shared with a host application via NewWithDevice or SetDeviceProvider,
// in which case the renderer never destroys it.
//
// Build with -tags nogpu to exclude this package.
package gpu
