// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

var (
	// ErrNoAdapter is returned when no GPU adapter can be opened.
	ErrNoAdapter = errors.New("gpu: no adapter available")

	// ErrNotInitialized is returned when a renderer has no device.
	ErrNotInitialized = errors.New("gpu: renderer not initialized")

	// ErrFenceTimeout is returned when submitted work does not finish in time.
	ErrFenceTimeout = errors.New("gpu: fence wait timed out")
)

// device bundles an open HAL device with the instance that owns it.
// instance is nil for shared devices.
type device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	external bool
}

// openHeadless opens a Vulkan device, preferring discrete and integrated
// GPUs over software adapters.
func openHeadless() (*device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not registered: %w", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		t := adapters[i].Info.DeviceType
		if t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &device{
		instance: instance,
		device:   open.Device,
		queue:    open.Queue,
		name:     selected.Info.Name,
	}, nil
}

// sharedDevice wraps a device owned by someone else.
func sharedDevice(d hal.Device, q hal.Queue) (*device, error) {
	if d == nil || q == nil {
		return nil, ErrNotInitialized
	}
	return &device{device: d, queue: q, name: "shared", external: true}, nil
}

// halProvider is implemented by device providers that expose HAL objects,
// such as a gogpu window.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// deviceFromProvider extracts a HAL device and queue from provider.
func deviceFromProvider(provider any) (*device, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("gpu: provider does not expose HAL types")
	}
	d, ok := hp.HalDevice().(hal.Device)
	if !ok || d == nil {
		return nil, errors.New("gpu: provider HalDevice is not hal.Device")
	}
	q, ok := hp.HalQueue().(hal.Queue)
	if !ok || q == nil {
		return nil, errors.New("gpu: provider HalQueue is not hal.Queue")
	}
	return sharedDevice(d, q)
}

// release destroys the device and instance unless they are shared.
func (d *device) release() {
	if d == nil || d.external {
		return
	}
	if d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
}
