package shadekit

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/shadekit/internal/parallel"
	"github.com/gogpu/shadekit/internal/raster"
)

// SoftwareRenderer executes programs on the CPU. Triangles are set up in
// submission order and the frame is shaded in row bands on a worker pool;
// within a band triangles are drawn in order, so the result is identical
// for any worker count.
type SoftwareRenderer struct {
	cfg    RendererConfig
	pool   *parallel.WorkerPool
	closed atomic.Bool
}

// NewSoftwareRenderer creates a software renderer.
func NewSoftwareRenderer(opts ...RendererOption) *SoftwareRenderer {
	cfg := ResolveOptions(opts...)
	return &SoftwareRenderer{
		cfg:  cfg,
		pool: parallel.NewWorkerPool(cfg.Workers),
	}
}

// Name implements Backend.
func (r *SoftwareRenderer) Name() string { return "software" }

// Config returns the resolved renderer configuration.
func (r *SoftwareRenderer) Config() RendererConfig { return r.cfg }

// DrawUnlit implements Backend.
func (r *SoftwareRenderer) DrawUnlit(f *Frame, m Mesh[ColorVertex]) error {
	return Draw[ColorVertex](r, f, UnlitProgram{}, m)
}

// DrawTextured implements Backend.
func (r *SoftwareRenderer) DrawTextured(f *Frame, m Mesh[TextureVertex], transform Mat4, tex *Texture, s Sampler) error {
	if tex == nil {
		return ErrNilTexture
	}
	return Draw[TextureVertex](r, f, TexturedProgram{Transform: transform, Texture: tex, Sampler: s}, m)
}

// Close stops the worker pool.
func (r *SoftwareRenderer) Close() {
	if r.closed.CompareAndSwap(false, true) {
		r.pool.Close()
	}
}

// Draw runs program p over mesh m into frame f: vertex stage, clipping
// and culling, rasterization, Less depth test with writes, fragment stage
// and a replace store into the color attachment.
func Draw[V any](r *SoftwareRenderer, f *Frame, p Program[V], m Mesh[V]) error {
	if f == nil {
		return ErrNilFrame
	}
	if r.closed.Load() {
		return ErrClosed
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	verts := make([]raster.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		out := p.Vertex(v)
		verts[i] = raster.Vertex{Position: [4]float32(out.Position), Attr: out.Attr}
	}

	vp := raster.Viewport{Width: f.Width(), Height: f.Height()}
	cull := rasterCull(r.cfg.CullMode)
	n := m.Triangles()
	tris := make([]raster.Triangle, 0, n)
	for t := range n {
		a, b, c := m.Triangle(t)
		tris = raster.Setup([3]raster.Vertex{verts[a], verts[b], verts[c]}, vp, cull, tris)
	}

	bands := parallel.Bands(vp.Height, r.cfg.Workers*2)
	Logger().Debug("software draw",
		"triangles", n, "setup", len(tris), "bands", len(bands), "workers", r.cfg.Workers)

	if len(tris) > 0 {
		r.pool.Range(len(bands), func(i int) {
			shadeBand(f, p, tris, bands[i], r.cfg.DepthTest)
		})
	}
	f.ConsumeClear()
	return nil
}

func shadeBand[V any](f *Frame, p Program[V], tris []raster.Triangle, band parallel.Band, depthTest bool) {
	var in FragmentInput
	for i := range tris {
		tris[i].Rasterize(band.Y0, band.Y1, func(frag *raster.Fragment) {
			if depthTest && !f.Depth.TestAndSet(frag.X, frag.Y, frag.Depth) {
				return
			}
			in.Position = Vec4{float32(frag.X) + 0.5, float32(frag.Y) + 0.5, frag.Depth, frag.InvW}
			in.Attr = frag.Attr
			in.DDX = frag.DDX
			in.DDY = frag.DDY
			in.FrontFacing = frag.FrontFacing
			f.Color.SetPixel(frag.X, frag.Y, p.Fragment(&in))
		})
	}
}

func rasterCull(m CullMode) raster.CullMode {
	switch m {
	case CullNone:
		return raster.CullNone
	case CullFront:
		return raster.CullFront
	default:
		return raster.CullBack
	}
}
