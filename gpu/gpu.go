//go:build !nogpu

// Package gpu registers the WebGPU backend under the name "gpu".
//
// Import it for its side effect, then select the backend by name:
//
//	import _ "github.com/gogpu/shadekit/gpu"
//
//	b, err := shadekit.NewBackend("gpu")
//
// By default each backend opens its own headless Vulkan device. Call
// SetDeviceProvider to make new backends share a device with a host
// application such as a gogpu window instead.
package gpu

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/shadekit"
	gpuimpl "github.com/gogpu/shadekit/internal/gpu"
)

// BackendName is the name the backend is registered under.
const BackendName = "gpu"

var (
	providerMu sync.RWMutex
	provider   gpucontext.DeviceProvider
)

func init() {
	if err := shadekit.RegisterBackend(BackendName, New); err != nil {
		shadekit.Logger().Warn("GPU backend not registered", "err", err)
	}
}

// New creates a GPU backend. It uses the device provider set with
// SetDeviceProvider if there is one, and opens a headless device
// otherwise.
func New(opts ...shadekit.RendererOption) (shadekit.Backend, error) {
	providerMu.RLock()
	p := provider
	providerMu.RUnlock()

	if p != nil {
		r, err := gpuimpl.NewWithProvider(p, opts...)
		if err == nil {
			return r, nil
		}
		shadekit.Logger().Warn("shared GPU device unusable, opening a new one", "err", err)
	}

	r, err := gpuimpl.NewRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SetDeviceProvider makes backends created afterwards draw with the
// device of p. The provider should also implement HalDevice() any and
// HalQueue() any for direct HAL access; without them New falls back to a
// device of its own. Pass nil to stop sharing.
func SetDeviceProvider(p gpucontext.DeviceProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}
