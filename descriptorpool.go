package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type DescriptorPool struct {
	Device           *Device
	VKDescriptorPool vk.DescriptorPool
}

type CreateDescriptorPoolOptions struct {
	MaxSets   uint32
	PoolSizes []vk.DescriptorPoolSize
}

// CreateDescriptorPool creates a pool sized by options. Sets allocated
// from it are freed all at once when the pool is destroyed.
func (d *Device) CreateDescriptorPool(options *CreateDescriptorPoolOptions) (*DescriptorPool, error) {
	if options.MaxSets == 0 || len(options.PoolSizes) == 0 {
		return nil, errors.New("descriptor pool needs a set budget and at least one pool size")
	}

	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       options.MaxSets,
		PoolSizeCount: uint32(len(options.PoolSizes)),
		PPoolSizes:    options.PoolSizes,
	}

	var pool vk.DescriptorPool
	err := vk.Error(vk.CreateDescriptorPool(d.VKDevice, &createInfo, nil, &pool))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateDescriptorPool")
	}

	return &DescriptorPool{Device: d, VKDescriptorPool: pool}, nil
}

// AllocateSet allocates one descriptor set against layout.
func (p *DescriptorPool) AllocateSet(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.VKDescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.VKDescriptorSetLayout},
	}

	var set vk.DescriptorSet
	err := vk.Error(vk.AllocateDescriptorSets(p.Device.VKDevice, &allocateInfo, &set))
	if err != nil {
		return nil, errors.Wrapf(err, "vkAllocateDescriptorSets")
	}

	return &DescriptorSet{
		Device:          p.Device,
		Pool:            p,
		Layout:          layout,
		VKDescriptorSet: set,
	}, nil
}

func (p *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, nil)
}
