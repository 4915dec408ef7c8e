package vkr

import (
	"os"
	"testing"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// newTestDevice stands up a headless device on the first adapter. These
// tests need a Vulkan loader and driver, so they only run when
// VKR_DEVICE_TESTS is set.
func newTestDevice(t *testing.T) (*Instance, *Device) {
	t.Helper()

	if os.Getenv("VKR_DEVICE_TESTS") == "" {
		t.Skip("set VKR_DEVICE_TESTS to run tests against a real device")
	}

	err := vk.SetDefaultGetInstanceProcAddr()
	if err != nil {
		t.Skipf("no Vulkan loader: %v", err)
	}
	err = vk.Init()
	if err != nil {
		t.Skipf("vulkan init failed: %v", err)
	}

	app := &App{Name: "vkr-test", APIVersion: Version{Major: 1}}
	instance, err := app.CreateInstance()
	if err != nil {
		t.Fatal(err)
	}

	devices, err := instance.PhysicalDevices()
	if err != nil || len(devices) == 0 {
		t.Skip("no physical devices")
	}
	physical := devices[0]

	families, err := physical.QueueFamilies()
	if err != nil {
		t.Fatal(err)
	}
	graphics, err := families.SelectForOperation(OperationGraphics, vk.NullSurface)
	if err != nil {
		t.Fatal(err)
	}

	// headless: route every operation class to the graphics family
	indices := QueueFamilyIndices{
		Graphics: uint32(graphics.Index),
		Compute:  uint32(graphics.Index),
		Present:  uint32(graphics.Index),
	}

	device, err := physical.CreateLogicalDeviceWithOptions(indices, nil)
	if err != nil {
		t.Fatal(err)
	}

	return instance, device
}

func TestDeviceBufferRoundTrip(t *testing.T) {
	instance, device := newTestDevice(t)
	defer instance.Destroy()
	defer device.Destroy()

	buffer, err := device.CreateHostBuffer(64, vk.BufferUsageTransferSrcBit)
	if err != nil {
		t.Fatal(err)
	}
	defer buffer.Destroy()

	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	err = buffer.Write(data, 0)
	if err != nil {
		t.Fatal(err)
	}

	ptr, err := buffer.Memory.Map()
	if err != nil {
		t.Fatal(err)
	}
	got := ToBytes(ptr, 64)
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d is %d, want %d", i, got[i], data[i])
		}
	}
}

func TestDeviceStagedUpload(t *testing.T) {
	instance, device := newTestDevice(t)
	defer instance.Destroy()
	defer device.Destroy()

	pool, err := device.CreateCommandPool(OperationGraphics)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Destroy()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	buffer, err := device.CreateBufferWithData(data,
		vk.BufferUsageVertexBufferBit|vk.BufferUsageTransferSrcBit, pool)
	if err != nil {
		t.Fatal(err)
	}
	defer buffer.Destroy()

	if buffer.Size != uint64(len(data)) {
		t.Errorf("device buffer is %d bytes", buffer.Size)
	}

	// copy the device-local contents back out and compare
	got, err := buffer.DebugReadBack(pool)
	if err != nil {
		t.Fatal(err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d is %d, want %d", i, got[i], data[i])
		}
	}
}

func TestDeviceUniformRingAlignment(t *testing.T) {
	instance, device := newTestDevice(t)
	defer instance.Destroy()
	defer device.Destroy()

	type ubo struct {
		m [16]float32
	}

	ring, err := device.CreateUniformRing(uint64(unsafe.Sizeof(ubo{})), FramesInFlight)
	if err != nil {
		t.Fatal(err)
	}
	defer ring.Destroy()

	align := device.PhysicalDevice.MinUniformBufferOffsetAlignment()
	if align > 0 && ring.Stride%align != 0 {
		t.Errorf("stride %d not aligned to %d", ring.Stride, align)
	}

	for slot := uint32(0); slot < FramesInFlight; slot++ {
		var u ubo
		u.m[0] = float32(slot)
		err = ring.Write(slot, ToBytes(unsafe.Pointer(&u), int(unsafe.Sizeof(u))))
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestDeviceFenceLifecycle(t *testing.T) {
	instance, device := newTestDevice(t)
	defer instance.Destroy()
	defer device.Destroy()

	fence, err := device.CreateFence(true)
	if err != nil {
		t.Fatal(err)
	}
	defer vk.DestroyFence(device.VKDevice, fence, nil)

	// a pre-signaled fence must not block
	err = device.WaitForFence(fence, uint64(FrameFenceTimeout.Nanoseconds()))
	if err != nil {
		t.Fatal(err)
	}

	err = device.ResetFence(fence)
	if err != nil {
		t.Fatal(err)
	}
}
