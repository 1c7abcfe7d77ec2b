// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadekit"
	"github.com/gogpu/shadekit/shader"
)

// Renderer implements shadekit.Backend on a wgpu HAL device.
//
// Renderer is safe for concurrent use; draws are serialized.
type Renderer struct {
	mu sync.Mutex

	cfg       shadekit.RendererConfig
	dev       *device
	pipelines map[string]*programPipeline
	samplers  map[shadekit.Sampler]hal.Sampler
	targets   targets
	closed    bool
}

var (
	_ shadekit.Backend             = (*Renderer)(nil)
	_ shadekit.DeviceProviderAware = (*Renderer)(nil)
)

// NewRenderer opens a headless GPU device and returns a renderer that
// owns it.
func NewRenderer(opts ...shadekit.RendererOption) (*Renderer, error) {
	dev, err := openHeadless()
	if err != nil {
		return nil, err
	}
	shadekit.Logger().Info("gpu: device opened", "adapter", dev.name)
	return newRenderer(dev, opts), nil
}

// NewWithDevice returns a renderer that draws with a device owned by the
// caller. Close does not destroy the device.
func NewWithDevice(d hal.Device, q hal.Queue, opts ...shadekit.RendererOption) (*Renderer, error) {
	dev, err := sharedDevice(d, q)
	if err != nil {
		return nil, err
	}
	return newRenderer(dev, opts), nil
}

// NewWithProvider returns a renderer that draws with the device exposed by
// provider. See SetDeviceProvider for the methods provider must have.
func NewWithProvider(provider any, opts ...shadekit.RendererOption) (*Renderer, error) {
	dev, err := deviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return newRenderer(dev, opts), nil
}

func newRenderer(dev *device, opts []shadekit.RendererOption) *Renderer {
	return &Renderer{
		cfg:       shadekit.ResolveOptions(opts...),
		dev:       dev,
		pipelines: make(map[string]*programPipeline),
		samplers:  make(map[shadekit.Sampler]hal.Sampler),
	}
}

// Name returns "gpu".
func (r *Renderer) Name() string { return "gpu" }

// Config returns the resolved renderer configuration.
func (r *Renderer) Config() shadekit.RendererConfig { return r.cfg }

// SetDeviceProvider switches the renderer to a device shared by provider.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Resources built on the previous device are
// released, and the previous device too if the renderer owned it.
func (r *Renderer) SetDeviceProvider(provider any) error {
	dev, err := deviceFromProvider(provider)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return shadekit.ErrClosed
	}
	r.releaseDeviceObjects()
	r.dev.release()
	r.dev = dev
	shadekit.Logger().Info("gpu: switched to shared device")
	return nil
}

// DrawUnlit draws m with the unlit program.
func (r *Renderer) DrawUnlit(f *shadekit.Frame, m shadekit.Mesh[shadekit.ColorVertex]) error {
	if err := r.check(f, m.Validate()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return shadekit.ErrClosed
	}
	if m.Triangles() == 0 {
		f.ConsumeClear()
		return nil
	}

	pp, err := r.pipeline(shader.Unlit())
	if err != nil {
		return err
	}
	res := &drawResources{}
	defer res.release(r.dev.device)

	if err := uploadMesh(r.dev.device, r.dev.queue, m, res); err != nil {
		return err
	}
	return r.render(f, pp, res)
}

// DrawTextured draws m with the textured program.
func (r *Renderer) DrawTextured(
	f *shadekit.Frame, m shadekit.Mesh[shadekit.TextureVertex],
	transform shadekit.Mat4, tex *shadekit.Texture, s shadekit.Sampler,
) error {
	if tex == nil {
		return shadekit.ErrNilTexture
	}
	if err := r.check(f, m.Validate()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return shadekit.ErrClosed
	}
	if m.Triangles() == 0 {
		f.ConsumeClear()
		return nil
	}

	pp, err := r.pipeline(shader.Textured())
	if err != nil {
		return err
	}
	res := &drawResources{}
	defer res.release(r.dev.device)

	dev, q := r.dev.device, r.dev.queue
	if err := uploadMesh(dev, q, m, res); err != nil {
		return err
	}
	ub, err := createAndUploadBuffer(dev, q, "transform", shadekit.MatrixBytes(transform),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	res.uniformBuf = ub
	if err := uploadTexture(dev, q, tex, res); err != nil {
		return err
	}
	if res.sampler, err = r.sampler(s); err != nil {
		return err
	}
	return r.render(f, pp, res)
}

// Close releases all GPU resources. It is safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.releaseDeviceObjects()
	r.dev.release()
	r.dev = nil
}

func (r *Renderer) check(f *shadekit.Frame, meshErr error) error {
	if f == nil {
		return shadekit.ErrNilFrame
	}
	return meshErr
}

// pipeline returns the cached pipeline for p, creating it on first use.
func (r *Renderer) pipeline(p shader.Program) (*programPipeline, error) {
	if pp, ok := r.pipelines[p.Name]; ok {
		return pp, nil
	}
	if r.dev == nil || r.dev.device == nil {
		return nil, ErrNotInitialized
	}
	pp, err := newProgramPipeline(r.dev.device, p, r.cfg)
	if err != nil {
		return nil, err
	}
	r.pipelines[p.Name] = pp
	return pp, nil
}

// sampler returns the cached HAL sampler for s.
func (r *Renderer) sampler(s shadekit.Sampler) (hal.Sampler, error) {
	if hs, ok := r.samplers[s]; ok {
		return hs, nil
	}
	hs, err := r.dev.device.CreateSampler(samplerDescriptor(s))
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	r.samplers[s] = hs
	return hs, nil
}

// releaseDeviceObjects destroys everything created on the current device.
func (r *Renderer) releaseDeviceObjects() {
	if r.dev == nil || r.dev.device == nil {
		return
	}
	dev := r.dev.device
	r.targets.destroy(dev)
	for key, s := range r.samplers {
		dev.DestroySampler(s)
		delete(r.samplers, key)
	}
	for name, pp := range r.pipelines {
		pp.destroy(dev)
		delete(r.pipelines, name)
	}
}

// render encodes one pass drawing res with pp into f and reads the
// result back into f.Color.
func (r *Renderer) render(f *shadekit.Frame, pp *programPipeline, res *drawResources) error {
	w, h := uint32(f.Width()), uint32(f.Height()) //nolint:gosec // frame sizes are validated positive
	if err := r.targets.ensure(r.dev.device, w, h); err != nil {
		return fmt.Errorf("ensure targets: %w", err)
	}
	if err := createBindGroups(r.dev.device, pp, res); err != nil {
		return err
	}

	clearColor, cleared := f.PendingClear()
	loadOp := gputypes.LoadOpClear
	if !cleared {
		r.uploadColor(f, w, h)
		loadOp = gputypes.LoadOpLoad
	}

	err := r.encodeAndReadback(w, h, loadOp, clearColor, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(pp.pipeline)
		for g, bg := range res.bindGroups {
			rp.SetBindGroup(uint32(g), bg, nil) //nolint:gosec // group index is small
		}
		rp.SetVertexBuffer(0, res.vertBuf, 0)
		if res.idxBuf != nil {
			rp.SetIndexBuffer(res.idxBuf, gputypes.IndexFormatUint16, 0)
			rp.DrawIndexed(res.indexCount, 1, 0, 0, 0)
		} else {
			rp.Draw(res.vertexCount, 1, 0, 0)
		}
	}, f.Color)
	if err != nil {
		return err
	}

	shadekit.Logger().Debug("gpu: draw complete",
		"program", pp.program.Name, "vertices", res.vertexCount, "indices", res.indexCount,
		"width", w, "height", h, "clear", cleared)
	f.ConsumeClear()
	return nil
}

// uploadColor copies the frame's current pixels into the color target so
// the pass can load them.
func (r *Renderer) uploadColor(f *shadekit.Frame, w, h uint32) {
	r.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: r.targets.colorTex, MipLevel: 0},
		f.Color.Data(),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}
