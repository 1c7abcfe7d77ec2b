package shadekit

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Program names accepted by ParseProgram.
const (
	ProgramUnlit    = "unlit"
	ProgramTextured = "textured"
)

// ParseProgram validates a program name.
func ParseProgram(name string) (string, error) {
	switch name {
	case ProgramUnlit, ProgramTextured:
		return name, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownProgram)
	}
}

// Backend executes the two shader programs into a Frame.
//
// Backends are provided by packages that register a factory under a name.
// The software backend is always registered as "software"; importing
// github.com/gogpu/shadekit/gpu adds "gpu":
//
//	import _ "github.com/gogpu/shadekit/gpu"
type Backend interface {
	// Name returns the registered backend name.
	Name() string

	// DrawUnlit draws m with the unlit program.
	DrawUnlit(f *Frame, m Mesh[ColorVertex]) error

	// DrawTextured draws m with the textured program, binding transform
	// at group 1 and tex/s at group 0.
	DrawTextured(f *Frame, m Mesh[TextureVertex], transform Mat4, tex *Texture, s Sampler) error

	// Close releases the backend's resources.
	Close()
}

// DeviceProviderAware is an optional interface for backends that can share
// a GPU device with an external provider (e.g., a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// BackendFactory creates a backend.
type BackendFactory func(opts ...RendererOption) (Backend, error)

var (
	backendMu sync.RWMutex
	backends  = map[string]BackendFactory{}
)

func init() {
	_ = RegisterBackend("software", func(opts ...RendererOption) (Backend, error) {
		return NewSoftwareRenderer(opts...), nil
	})
}

// RegisterBackend registers a backend factory. Registering an existing
// name replaces it.
//
// Typical usage from a backend package:
//
//	func init() {
//	    shadekit.RegisterBackend("gpu", newGPUBackend)
//	}
func RegisterBackend(name string, f BackendFactory) error {
	if name == "" || f == nil {
		return errors.New("shadekit: backend name and factory must be set")
	}
	backendMu.Lock()
	backends[name] = f
	backendMu.Unlock()
	return nil
}

// LookupBackend returns the factory registered under name.
func LookupBackend(name string) (BackendFactory, bool) {
	backendMu.RLock()
	f, ok := backends[name]
	backendMu.RUnlock()
	return f, ok
}

// NewBackend creates the backend registered under name.
func NewBackend(name string, opts ...RendererOption) (Backend, error) {
	f, ok := LookupBackend(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrBackendUnavailable)
	}
	b, err := f(opts...)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	Logger().Debug("backend created", "name", name)
	return b, nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendMu.RLock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	backendMu.RUnlock()
	slices.Sort(names)
	return names
}
