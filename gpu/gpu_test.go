//go:build !nogpu

package gpu

import (
	"slices"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/shadekit"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider and exposes a noop
// HAL device.
type mockProvider struct {
	halDevice hal.Device
	halQueue  hal.Queue
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (m *mockProvider) HalDevice() any                        { return m.halDevice }
func (m *mockProvider) HalQueue() any                         { return m.halQueue }

func newMockProvider(t *testing.T) *mockProvider {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &mockProvider{halDevice: openDev.Device, halQueue: openDev.Queue}
}

func TestBackendRegistered(t *testing.T) {
	if !slices.Contains(shadekit.Backends(), BackendName) {
		t.Errorf("Backends() = %v, want %q registered", shadekit.Backends(), BackendName)
	}
}

func TestNewWithSharedDevice(t *testing.T) {
	SetDeviceProvider(newMockProvider(t))
	t.Cleanup(func() { SetDeviceProvider(nil) })

	b, err := shadekit.NewBackend(BackendName, shadekit.WithCullMode(shadekit.CullNone))
	if err != nil {
		t.Fatalf("NewBackend(%q) failed: %v", BackendName, err)
	}
	defer b.Close()

	if b.Name() != BackendName {
		t.Errorf("Name() = %q, want %q", b.Name(), BackendName)
	}
	f, err := shadekit.NewFrame(16, 16)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	f.Clear(shadekit.Black)
	if err := b.DrawUnlit(f, shadekit.TriangleMesh()); err != nil {
		t.Fatalf("DrawUnlit failed: %v", err)
	}
}
