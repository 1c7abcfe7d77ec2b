// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadekit"
)

// fenceTimeout bounds how long a draw waits for the GPU.
const fenceTimeout = 5 * time.Second

// encodeAndReadback records one render pass into the color and depth
// targets, copies the color target to a staging buffer, submits, waits
// and writes the pixels into dst.
func (r *Renderer) encodeAndReadback(
	w, h uint32, loadOp gputypes.LoadOp, clearColor shadekit.RGBA,
	record func(hal.RenderPassEncoder), dst *shadekit.Pixmap,
) error {
	dev, q := r.dev.device, r.dev.queue

	encoder, err := dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    r.targets.colorView,
			LoadOp:  loadOp,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(clearColor.R),
				G: float64(clearColor.G),
				B: float64(clearColor.B),
				A: float64(clearColor.A),
			},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            r.targets.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	record(rp)
	rp.End()

	// CopyTextureToBuffer needs the target in copy-source layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := alignedRowBytes(w)
	stagingSize := uint64(rowBytes) * uint64(h)
	staging, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer dev.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.targets.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rowBytes, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.targets.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Back to attachment layout for the next pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer dev.FreeCommandBuffer(cmdBuf)

	fence, err := dev.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer dev.DestroyFence(fence)

	if err := q.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitFence(dev, fence, 1); err != nil {
		return err
	}

	readback := make([]byte, stagingSize)
	if err := q.ReadBuffer(staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpadRows(dst.Data(), readback, int(w), int(h), int(rowBytes))
	return nil
}

// unpadRows copies h rows of w RGBA8 pixels from src, whose rows are
// stride bytes apart, into the tightly packed dst.
func unpadRows(dst, src []byte, w, h, stride int) {
	row := w * 4
	for y := range h {
		copy(dst[y*row:(y+1)*row], src[y*stride:y*stride+row])
	}
}

// waitFence blocks until fence reaches value or fenceTimeout elapses.
func waitFence(dev hal.Device, fence hal.Fence, value uint64) error {
	ok, err := dev.Wait(fence, value, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU after %v: %w", fenceTimeout, ErrFenceTimeout)
	}
	return nil
}
