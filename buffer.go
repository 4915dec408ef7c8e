package vkr

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Buffer couples a vk.Buffer with the memory bound to it. Host-visible
// buffers can be written directly through Write; device-local ones are
// filled through a staging copy.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Memory   *DeviceMemory
	Size     uint64
	Usage    vk.BufferUsageFlagBits
}

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer[%s usage=0x%x]", AllocationSize(b.Size), b.Usage)
}

// CreateBuffer creates a buffer of size bytes, allocates memory with the
// requested properties and binds it.
func (d *Device) CreateBuffer(size uint64, usage vk.BufferUsageFlagBits, properties vk.MemoryPropertyFlagBits) (*Buffer, error) {
	if size == 0 {
		return nil, errors.New("cannot create a zero sized buffer")
	}

	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	err := vk.Error(vk.CreateBuffer(d.VKDevice, &createInfo, nil, &buffer))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateBuffer")
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.VKDevice, buffer, &requirements)
	requirements.Deref()

	memory, err := d.Allocate(requirements, properties)
	if err != nil {
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		return nil, err
	}

	err = vk.Error(vk.BindBufferMemory(d.VKDevice, buffer, memory.VKDeviceMemory, 0))
	if err != nil {
		memory.Destroy()
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		return nil, errors.Wrapf(err, "vkBindBufferMemory")
	}

	return &Buffer{
		Device:   d,
		VKBuffer: buffer,
		Memory:   memory,
		Size:     size,
		Usage:    usage,
	}, nil
}

// CreateHostBuffer creates a host-visible, host-coherent buffer suitable
// for direct writes.
func (d *Device) CreateHostBuffer(size uint64, usage vk.BufferUsageFlagBits) (*Buffer, error) {
	return d.CreateBuffer(size, usage,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
}

// CreateDeviceBuffer creates a device-local buffer. The transfer-dst bit
// is added so a staging copy can fill it.
func (d *Device) CreateDeviceBuffer(size uint64, usage vk.BufferUsageFlagBits) (*Buffer, error) {
	return d.CreateBuffer(size, usage|vk.BufferUsageTransferDstBit,
		vk.MemoryPropertyDeviceLocalBit)
}

// Write copies data into the buffer at offset. The buffer must be
// host-visible.
func (b *Buffer) Write(data []byte, offset uint64) error {
	return b.Memory.MapCopy(data, offset)
}

// CopyTo records and submits a one-off transfer from b into dst, blocking
// until the copy finishes.
func (b *Buffer) CopyTo(dst *Buffer, pool *CommandPool) error {
	if dst.Size < b.Size {
		return errors.Newf("destination buffer of %d bytes cannot hold %d bytes", dst.Size, b.Size)
	}

	return pool.RunOnce(func(cmd *CommandBuffer) error {
		region := vk.BufferCopy{Size: vk.DeviceSize(b.Size)}
		vk.CmdCopyBuffer(cmd.VKCommandBuffer, b.VKBuffer, dst.VKBuffer, 1, []vk.BufferCopy{region})
		return nil
	})
}

// DebugReadBack copies the buffer into a transient host-visible buffer
// and returns its contents, blocking until the transfer finishes. The
// buffer must carry the transfer-src usage bit. Intended for tests and
// debugging, not per-frame use.
func (b *Buffer) DebugReadBack(pool *CommandPool) ([]byte, error) {
	readback, err := b.Device.CreateBuffer(b.Size,
		vk.BufferUsageTransferDstBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, err
	}
	defer readback.Destroy()

	err = b.CopyTo(readback, pool)
	if err != nil {
		return nil, err
	}

	ptr, err := readback.Memory.Map()
	if err != nil {
		return nil, err
	}

	out := make([]byte, b.Size)
	copy(out, ToBytes(ptr, len(out)))
	return out, nil
}

// CreateBufferWithData uploads data into a new device-local buffer through
// a transient staging buffer.
func (d *Device) CreateBufferWithData(data []byte, usage vk.BufferUsageFlagBits, pool *CommandPool) (*Buffer, error) {
	staging, err := d.CreateHostBuffer(uint64(len(data)), vk.BufferUsageTransferSrcBit)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	err = staging.Write(data, 0)
	if err != nil {
		return nil, err
	}

	buffer, err := d.CreateDeviceBuffer(uint64(len(data)), usage)
	if err != nil {
		return nil, err
	}

	err = staging.CopyTo(buffer, pool)
	if err != nil {
		buffer.Destroy()
		return nil, err
	}

	return buffer, nil
}

// CreateVertexBufferWithData uploads vertex data to device-local memory.
func (d *Device) CreateVertexBufferWithData(data []byte, pool *CommandPool) (*Buffer, error) {
	return d.CreateBufferWithData(data, vk.BufferUsageVertexBufferBit, pool)
}

// CreateIndexBufferWithData uploads index data to device-local memory.
func (d *Device) CreateIndexBufferWithData(data []byte, pool *CommandPool) (*Buffer, error) {
	return d.CreateBufferWithData(data, vk.BufferUsageIndexBufferBit, pool)
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
	if b.Memory != nil {
		b.Memory.Destroy()
	}
}
