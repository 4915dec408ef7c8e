package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool allocates command buffers for one queue family. Pools are
// created with the reset bit so frame buffers can be re-recorded.
type CommandPool struct {
	Device           *Device
	VKCommandPool    vk.CommandPool
	QueueFamilyIndex uint32
}

// CreateCommandPool creates a pool on the family serving op.
func (d *Device) CreateCommandPool(op OperationType) (*CommandPool, error) {
	familyIndex := d.QueueFamilyIndices.For(op)

	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}

	var pool vk.CommandPool
	err := vk.Error(vk.CreateCommandPool(d.VKDevice, &createInfo, nil, &pool))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateCommandPool")
	}

	return &CommandPool{
		Device:           d,
		VKCommandPool:    pool,
		QueueFamilyIndex: familyIndex,
	}, nil
}

// AllocateBuffers allocates count primary command buffers from the pool.
func (p *CommandPool) AllocateBuffers(count uint32) ([]*CommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}

	vkBuffers := make([]vk.CommandBuffer, count)
	err := vk.Error(vk.AllocateCommandBuffers(p.Device.VKDevice, &allocateInfo, vkBuffers))
	if err != nil {
		return nil, errors.Wrapf(err, "vkAllocateCommandBuffers")
	}

	buffers := make([]*CommandBuffer, count)
	for i, b := range vkBuffers {
		buffers[i] = &CommandBuffer{
			Device:          p.Device,
			Pool:            p,
			VKCommandBuffer: b,
		}
	}
	return buffers, nil
}

// AllocateBuffer allocates a single primary command buffer.
func (p *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	buffers, err := p.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return buffers[0], nil
}

// RunOnce records fn into a transient command buffer, submits it to the
// pool's queue and waits for completion. Used for staged uploads and
// layout transitions.
func (p *CommandPool) RunOnce(fn func(cmd *CommandBuffer) error) error {
	cmd, err := p.AllocateBuffer()
	if err != nil {
		return err
	}
	defer cmd.Free()

	err = cmd.BeginOneTime()
	if err != nil {
		return err
	}

	err = fn(cmd)
	if err != nil {
		return err
	}

	err = cmd.End()
	if err != nil {
		return err
	}

	queue := p.Device.queues[p.QueueFamilyIndex]
	return queue.SubmitAndWait(cmd)
}

func (p *CommandPool) Destroy() {
	vk.DestroyCommandPool(p.Device.VKDevice, p.VKCommandPool, nil)
}
