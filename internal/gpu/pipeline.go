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

const (
	colorFormat = gputypes.TextureFormatRGBA8Unorm
	depthFormat = gputypes.TextureFormatDepth32Float
)

// programPipeline holds the compiled render pipeline for one program.
type programPipeline struct {
	program      shader.Program
	module       hal.ShaderModule
	groupLayouts []hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
}

// newProgramPipeline compiles p's WGSL and builds its bind group layouts,
// pipeline layout and render pipeline. On failure everything created so
// far is released.
func newProgramPipeline(dev hal.Device, p shader.Program, cfg shadekit.RendererConfig) (*programPipeline, error) {
	pp := &programPipeline{program: p}

	module, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.Name + "_shader",
		Source: hal.ShaderSource{WGSL: p.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", p.Name, err)
	}
	pp.module = module

	groups := p.Groups()
	groupCount := 0
	if len(groups) > 0 {
		groupCount = int(groups[len(groups)-1]) + 1
	}
	for g := range groupCount {
		layout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group%d_layout", p.Name, g),
			Entries: p.LayoutEntries(uint32(g)),
		})
		if err != nil {
			pp.destroy(dev)
			return nil, fmt.Errorf("create %s group %d layout: %w", p.Name, g, err)
		}
		pp.groupLayouts = append(pp.groupLayouts, layout)
	}

	pipeLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.Name + "_pipe_layout",
		BindGroupLayouts: pp.groupLayouts,
	})
	if err != nil {
		pp.destroy(dev)
		return nil, fmt.Errorf("create %s pipeline layout: %w", p.Name, err)
	}
	pp.pipeLayout = pipeLayout

	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.Name + "_pipeline",
		Layout: pp.pipeLayout,
		Vertex: hal.VertexState{
			Module:     pp.module,
			EntryPoint: p.VertexEntry,
			Buffers:    []gputypes.VertexBufferLayout{p.VertexLayout},
		},
		Fragment: &hal.FragmentState{
			Module:     pp.module,
			EntryPoint: p.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: depthState(cfg.DepthTest),
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cullMode(cfg.CullMode),
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pp.destroy(dev)
		return nil, fmt.Errorf("create %s render pipeline: %w", p.Name, err)
	}
	pp.pipeline = pipeline

	shadekit.Logger().Debug("gpu: pipeline created",
		"program", p.Name, "groups", groupCount, "cull", cfg.CullMode.String(), "depth", cfg.DepthTest)
	return pp, nil
}

// depthState returns the depth configuration. With the test disabled the
// attachment is still bound, so the state compares Always and never writes.
func depthState(test bool) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	ds := &hal.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
	}
	if test {
		ds.DepthWriteEnabled = true
		ds.DepthCompare = gputypes.CompareFunctionLess
	}
	return ds
}

func cullMode(m shadekit.CullMode) gputypes.CullMode {
	switch m {
	case shadekit.CullNone:
		return gputypes.CullModeNone
	case shadekit.CullFront:
		return gputypes.CullModeFront
	default:
		return gputypes.CullModeBack
	}
}

// destroy releases resources in reverse creation order.
func (pp *programPipeline) destroy(dev hal.Device) {
	if pp == nil || dev == nil {
		return
	}
	if pp.pipeline != nil {
		dev.DestroyRenderPipeline(pp.pipeline)
		pp.pipeline = nil
	}
	if pp.pipeLayout != nil {
		dev.DestroyPipelineLayout(pp.pipeLayout)
		pp.pipeLayout = nil
	}
	for i := len(pp.groupLayouts) - 1; i >= 0; i-- {
		dev.DestroyBindGroupLayout(pp.groupLayouts[i])
	}
	pp.groupLayouts = nil
	if pp.module != nil {
		dev.DestroyShaderModule(pp.module)
		pp.module = nil
	}
}
