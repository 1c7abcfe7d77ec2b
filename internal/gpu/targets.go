// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment WebGPU requires for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// alignedRowBytes returns the padded bytes-per-row for a w-pixel RGBA8 row.
func alignedRowBytes(w uint32) uint32 {
	return (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// targets holds the offscreen color and depth attachments. They are
// recreated only when the frame size changes.
type targets struct {
	width, height uint32

	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
}

// ensure (re)creates the attachments for a w x h frame.
func (t *targets) ensure(dev hal.Device, w, h uint32) error {
	if t.width == w && t.height == h && t.colorTex != nil {
		return nil
	}
	t.destroy(dev)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "frame_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create color target: %w", err)
	}
	t.colorTex = colorTex

	colorView, err := dev.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:         "frame_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(dev)
		return fmt.Errorf("create color view: %w", err)
	}
	t.colorView = colorView

	depthTex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "frame_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.destroy(dev)
		return fmt.Errorf("create depth target: %w", err)
	}
	t.depthTex = depthTex

	depthView, err := dev.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label:         "frame_depth_view",
		Format:        depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(dev)
		return fmt.Errorf("create depth view: %w", err)
	}
	t.depthView = depthView

	t.width = w
	t.height = h
	return nil
}

// destroy releases the attachments and resets the size.
func (t *targets) destroy(dev hal.Device) {
	if t.depthView != nil {
		dev.DestroyTextureView(t.depthView)
		t.depthView = nil
	}
	if t.depthTex != nil {
		dev.DestroyTexture(t.depthTex)
		t.depthTex = nil
	}
	if t.colorView != nil {
		dev.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.colorTex != nil {
		dev.DestroyTexture(t.colorTex)
		t.colorTex = nil
	}
	t.width = 0
	t.height = 0
}
