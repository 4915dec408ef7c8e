package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Device wraps a logical device together with the queues retrieved for
// each operation class. All resource constructors hang off Device so that
// ownership is explicit: whoever creates a resource destroys it.
type Device struct {
	PhysicalDevice     *PhysicalDevice
	VKDevice           vk.Device
	QueueFamilyIndices QueueFamilyIndices

	queues map[uint32]*Queue
}

func (d *Device) initQueues() {
	d.queues = make(map[uint32]*Queue)
	for _, familyIndex := range d.QueueFamilyIndices.Unique() {
		var q vk.Queue
		vk.GetDeviceQueue(d.VKDevice, familyIndex, 0, &q)
		d.queues[familyIndex] = &Queue{
			Device:           d,
			QueueFamilyIndex: familyIndex,
			VKQueue:          q,
		}
	}
}

// QueueFor returns the queue serving the given operation class.
func (d *Device) QueueFor(op OperationType) *Queue {
	return d.queues[d.QueueFamilyIndices.For(op)]
}

// GraphicsQueue is shorthand for QueueFor(OperationGraphics).
func (d *Device) GraphicsQueue() *Queue {
	return d.QueueFor(OperationGraphics)
}

// PresentQueue is shorthand for QueueFor(OperationPresent).
func (d *Device) PresentQueue() *Queue {
	return d.QueueFor(OperationPresent)
}

// WaitIdle blocks until the device finishes all submitted work. Call it
// before tearing down resources the GPU may still be reading.
func (d *Device) WaitIdle() error {
	err := vk.Error(vk.DeviceWaitIdle(d.VKDevice))
	if err != nil {
		return errors.Wrapf(err, "vkDeviceWaitIdle")
	}
	return nil
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

// CreateFence creates a fence, optionally pre-signaled so the first wait
// in a frame ring returns immediately.
func (d *Device) CreateFence(signaled bool) (vk.Fence, error) {
	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		createInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	err := vk.Error(vk.CreateFence(d.VKDevice, &createInfo, nil, &fence))
	if err != nil {
		return vk.NullFence, errors.Wrapf(err, "vkCreateFence")
	}
	return fence, nil
}

func (d *Device) CreateSemaphore() (vk.Semaphore, error) {
	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var sem vk.Semaphore
	err := vk.Error(vk.CreateSemaphore(d.VKDevice, &createInfo, nil, &sem))
	if err != nil {
		return vk.NullSemaphore, errors.Wrapf(err, "vkCreateSemaphore")
	}
	return sem, nil
}

// WaitForFence blocks until the fence signals or timeoutNanos elapses.
// A timeout is returned as an error since the frame ring treats it as
// unrecoverable.
func (d *Device) WaitForFence(fence vk.Fence, timeoutNanos uint64) error {
	res := vk.WaitForFences(d.VKDevice, 1, []vk.Fence{fence}, vk.True, timeoutNanos)
	if res == vk.Timeout {
		return errors.Newf("fence wait timed out after %dns", timeoutNanos)
	}
	err := vk.Error(res)
	if err != nil {
		return errors.Wrapf(err, "vkWaitForFences")
	}
	return nil
}

func (d *Device) ResetFence(fence vk.Fence) error {
	err := vk.Error(vk.ResetFences(d.VKDevice, 1, []vk.Fence{fence}))
	if err != nil {
		return errors.Wrapf(err, "vkResetFences")
	}
	return nil
}
