package vkr

import (
	"log"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory wraps one allocation. Buffers and images that own their
// memory destroy it alongside the resource.
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64

	mapped unsafe.Pointer
}

// AllocationSize renders a byte count the way allocation diagnostics
// print it.
func AllocationSize(size uint64) string {
	return units.HumanSize(float64(size))
}

// Allocate picks a memory type satisfying the requirements and properties
// and allocates size bytes from it.
func (d *Device) Allocate(requirements vk.MemoryRequirements, properties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	typeIndex, err := d.PhysicalDevice.FindMemoryType(requirements.MemoryTypeBits, properties)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: typeIndex,
	}

	var memory vk.DeviceMemory
	err = vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &memory))
	if err != nil {
		return nil, errors.Wrapf(err, "vkAllocateMemory")
	}

	log.Printf("vkr: allocated %s from memory type %d", AllocationSize(uint64(requirements.Size)), typeIndex)

	return &DeviceMemory{
		Device:         d,
		VKDeviceMemory: memory,
		Size:           uint64(requirements.Size),
	}, nil
}

// Map maps the whole allocation into host address space. Mapping twice
// returns the existing pointer.
func (m *DeviceMemory) Map() (unsafe.Pointer, error) {
	if m.mapped != nil {
		return m.mapped, nil
	}

	var ptr unsafe.Pointer
	err := vk.Error(vk.MapMemory(m.Device.VKDevice, m.VKDeviceMemory, 0, vk.DeviceSize(m.Size), 0, &ptr))
	if err != nil {
		return nil, errors.Wrapf(err, "vkMapMemory")
	}

	m.mapped = ptr
	return ptr, nil
}

func (m *DeviceMemory) Unmap() {
	if m.mapped == nil {
		return
	}
	vk.UnmapMemory(m.Device.VKDevice, m.VKDeviceMemory)
	m.mapped = nil
}

// MapCopy maps the allocation, copies data starting at offset, and leaves
// the mapping in place for later writes.
func (m *DeviceMemory) MapCopy(data []byte, offset uint64) error {
	if uint64(len(data))+offset > m.Size {
		return errors.Newf("write of %d bytes at offset %d exceeds allocation of %d bytes", len(data), offset, m.Size)
	}

	ptr, err := m.Map()
	if err != nil {
		return err
	}

	dst := ToBytes(unsafe.Pointer(uintptr(ptr)+uintptr(offset)), len(data))
	copy(dst, data)
	return nil
}

func (m *DeviceMemory) Destroy() {
	m.Unmap()
	vk.FreeMemory(m.Device.VKDevice, m.VKDeviceMemory, nil)
}
