package shadekit

import "runtime"

// CullMode selects which triangle faces are discarded before rasterization.
// Front faces are counter-clockwise in normalized device coordinates.
type CullMode uint8

const (
	// CullBack discards clockwise (back-facing) triangles.
	CullBack CullMode = iota
	// CullNone draws both faces.
	CullNone
	// CullFront discards counter-clockwise triangles.
	CullFront
)

// String returns the cull mode name.
func (m CullMode) String() string {
	switch m {
	case CullBack:
		return "back"
	case CullNone:
		return "none"
	case CullFront:
		return "front"
	default:
		return "unknown"
	}
}

// RendererOption configures a Backend during creation.
//
// Example:
//
//	r := shadekit.NewSoftwareRenderer(
//	    shadekit.WithWorkers(4),
//	    shadekit.WithCullMode(shadekit.CullNone),
//	)
type RendererOption func(*RendererConfig)

// RendererConfig is the resolved configuration shared by all backends.
type RendererConfig struct {
	// Workers is the number of goroutines the software renderer shades with.
	Workers int
	// CullMode selects face culling. The default is CullBack.
	CullMode CullMode
	// DepthTest enables the Less depth test with depth writes.
	DepthTest bool
}

// DefaultRendererConfig returns the configuration used when no options
// are given: GOMAXPROCS workers, back-face culling and depth testing.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Workers:   runtime.GOMAXPROCS(0),
		CullMode:  CullBack,
		DepthTest: true,
	}
}

// ResolveOptions applies opts over the defaults.
func ResolveOptions(opts ...RendererOption) RendererConfig {
	cfg := DefaultRendererConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}

// WithWorkers sets the number of shading goroutines. Values below 1 are
// treated as 1.
func WithWorkers(n int) RendererOption {
	return func(c *RendererConfig) {
		c.Workers = n
	}
}

// WithCullMode sets the face culling mode.
func WithCullMode(m CullMode) RendererOption {
	return func(c *RendererConfig) {
		c.CullMode = m
	}
}

// WithDepthTest enables or disables depth testing.
func WithDepthTest(enabled bool) RendererOption {
	return func(c *RendererConfig) {
		c.DepthTest = enabled
	}
}
