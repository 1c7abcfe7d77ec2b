// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadekit"
	"github.com/gogpu/shadekit/shader"
)

// drawResources holds the transient objects one draw creates. They are
// released after the fence for that draw has signaled.
type drawResources struct {
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	uniformBuf hal.Buffer
	texture    hal.Texture
	view       hal.TextureView
	sampler    hal.Sampler // owned by the renderer's cache
	bindGroups []hal.BindGroup

	vertexCount uint32
	indexCount  uint32
}

// release destroys everything except the cached sampler.
func (r *drawResources) release(dev hal.Device) {
	for i := len(r.bindGroups) - 1; i >= 0; i-- {
		dev.DestroyBindGroup(r.bindGroups[i])
	}
	r.bindGroups = nil
	if r.view != nil {
		dev.DestroyTextureView(r.view)
		r.view = nil
	}
	if r.texture != nil {
		dev.DestroyTexture(r.texture)
		r.texture = nil
	}
	for _, b := range []hal.Buffer{r.uniformBuf, r.idxBuf, r.vertBuf} {
		if b != nil {
			dev.DestroyBuffer(b)
		}
	}
	r.uniformBuf, r.idxBuf, r.vertBuf = nil, nil, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(dev hal.Device, q hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	q.WriteBuffer(buf, 0, data)
	return buf, nil
}

// uploadMesh creates the vertex buffer and, for indexed meshes, the
// index buffer.
func uploadMesh[V shadekit.VertexData](dev hal.Device, q hal.Queue, m shadekit.Mesh[V], res *drawResources) error {
	vb, err := createAndUploadBuffer(dev, q, "mesh_vertices", shadekit.VertexBytes(m.Vertices),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	res.vertBuf = vb
	res.vertexCount = uint32(len(m.Vertices)) //nolint:gosec // mesh sizes fit uint32

	if m.Indexed() {
		ib, err := createAndUploadBuffer(dev, q, "mesh_indices", shadekit.IndexBytes(m.Indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		res.idxBuf = ib
		res.indexCount = uint32(len(m.Indices)) //nolint:gosec // uint16 indices fit uint32
	}
	return nil
}

// uploadTexture creates a sampled RGBA8 texture with every mip level of
// tex and a view covering all of them.
func uploadTexture(dev hal.Device, q hal.Queue, tex *shadekit.Texture, res *drawResources) error {
	levels := uint32(tex.Levels()) //nolint:gosec // mip count is small
	gt, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label: "diffuse",
		Size: hal.Extent3D{
			Width:              uint32(tex.Width()),  //nolint:gosec // validated positive
			Height:             uint32(tex.Height()), //nolint:gosec // validated positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create diffuse texture: %w", err)
	}
	res.texture = gt

	for level := range tex.Levels() {
		w, h := tex.LevelSize(level)
		q.WriteTexture(
			&hal.ImageCopyTexture{Texture: gt, MipLevel: uint32(level)}, //nolint:gosec // small
			tex.RGBA8(level),
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(w) * 4, //nolint:gosec // validated positive
				RowsPerImage: uint32(h),     //nolint:gosec // validated positive
			},
			&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // validated positive
		)
	}

	view, err := dev.CreateTextureView(gt, &hal.TextureViewDescriptor{
		Label:         "diffuse_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: levels,
	})
	if err != nil {
		return fmt.Errorf("create diffuse view: %w", err)
	}
	res.view = view
	return nil
}

// samplerDescriptor maps a shadekit sampler onto the HAL descriptor.
// W addressing is unused by 2D textures and is clamped.
func samplerDescriptor(s shadekit.Sampler) *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        "diffuse_sampler",
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: s.MipmapFilter,
	}
}

// createBindGroups builds one bind group per layout of pp, resolving each
// reflected binding to the matching resource in res.
func createBindGroups(dev hal.Device, pp *programPipeline, res *drawResources) error {
	for g, layout := range pp.groupLayouts {
		var entries []gputypes.BindGroupEntry
		for _, b := range pp.program.Bindings {
			if b.Group != uint32(g) { //nolint:gosec // group index is small
				continue
			}
			entry, err := bindEntry(b, res)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		bg, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s_group%d", pp.program.Name, g),
			Layout:  layout,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("create %s bind group %d: %w", pp.program.Name, g, err)
		}
		res.bindGroups = append(res.bindGroups, bg)
	}
	return nil
}

func bindEntry(b shader.Binding, res *drawResources) (gputypes.BindGroupEntry, error) {
	entry := gputypes.BindGroupEntry{Binding: b.Binding}
	switch b.Kind {
	case shader.KindUniformMatrix:
		if res.uniformBuf == nil {
			return entry, fmt.Errorf("binding %q: no uniform buffer", b.Name)
		}
		entry.Resource = gputypes.BufferBinding{
			Buffer: res.uniformBuf.NativeHandle(), Offset: 0, Size: shadekit.MatrixSize,
		}
	case shader.KindTexture:
		if res.view == nil {
			return entry, fmt.Errorf("binding %q: no texture view", b.Name)
		}
		entry.Resource = gputypes.TextureViewBinding{TextureView: res.view.NativeHandle()}
	case shader.KindSampler:
		if res.sampler == nil {
			return entry, fmt.Errorf("binding %q: no sampler", b.Name)
		}
		entry.Resource = gputypes.SamplerBinding{Sampler: res.sampler.NativeHandle()}
	default:
		return entry, fmt.Errorf("binding %q: unsupported kind %v", b.Name, b.Kind)
	}
	return entry, nil
}
