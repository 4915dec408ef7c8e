package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PadUniformBufferSize rounds size up to the device's dynamic offset
// alignment. An alignment of zero means no padding is required.
func PadUniformBufferSize(size, alignment uint64) uint64 {
	return alignUp(size, alignment)
}

// UniformRing holds one padded copy of a uniform struct per frame in
// flight, all in a single host-visible buffer. Each frame writes its own
// region and binds it through a dynamic offset, so no frame ever touches
// a region the GPU may still be reading.
type UniformRing struct {
	Buffer *Buffer
	Stride uint64
	Count  uint32
}

// CreateUniformRing allocates count padded copies of elemSize bytes.
func (d *Device) CreateUniformRing(elemSize uint64, count uint32) (*UniformRing, error) {
	if count == 0 {
		return nil, errors.New("uniform ring needs at least one slot")
	}

	stride := PadUniformBufferSize(elemSize, d.PhysicalDevice.MinUniformBufferOffsetAlignment())

	buffer, err := d.CreateHostBuffer(stride*uint64(count), vk.BufferUsageUniformBufferBit)
	if err != nil {
		return nil, err
	}

	return &UniformRing{
		Buffer: buffer,
		Stride: stride,
		Count:  count,
	}, nil
}

// OffsetFor returns the dynamic offset for the given frame slot.
func (u *UniformRing) OffsetFor(slot uint32) (uint32, error) {
	if slot >= u.Count {
		return 0, errors.Newf("uniform slot %d out of range, have %d", slot, u.Count)
	}
	return uint32(u.Stride * uint64(slot)), nil
}

// Write copies data into the slot's region.
func (u *UniformRing) Write(slot uint32, data []byte) error {
	if uint64(len(data)) > u.Stride {
		return errors.Newf("uniform data of %d bytes exceeds stride %d", len(data), u.Stride)
	}
	offset, err := u.OffsetFor(slot)
	if err != nil {
		return err
	}
	return u.Buffer.Write(data, uint64(offset))
}

// BindTo points binding of set at one element's worth of the ring. The
// binding must be dynamic; slots are then selected per frame at bind
// time through OffsetFor.
func (u *UniformRing) BindTo(set *DescriptorSet, binding uint32) error {
	return set.WriteBuffer(binding, u.Buffer, 0, u.Stride)
}

func (u *UniformRing) Destroy() {
	u.Buffer.Destroy()
}
