package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type DescriptorSet struct {
	Device          *Device
	Pool            *DescriptorPool
	Layout          *DescriptorSetLayout
	VKDescriptorSet vk.DescriptorSet
}

func (s *DescriptorSet) bindingType(binding uint32) (vk.DescriptorType, error) {
	for _, b := range s.Layout.Bindings {
		if b.Binding == binding {
			return b.DescriptorType, nil
		}
	}
	return 0, errors.Newf("layout has no binding %d", binding)
}

// WriteBuffer points binding at rang bytes of buffer starting at offset.
// For dynamic uniform bindings the offset here is the base; the per-frame
// offset comes in at bind time.
func (s *DescriptorSet) WriteBuffer(binding uint32, buffer *Buffer, offset, rang uint64) error {
	descriptorType, err := s.bindingType(binding)
	if err != nil {
		return err
	}

	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: buffer.VKBuffer,
		Offset: vk.DeviceSize(offset),
		Range:  vk.DeviceSize(rang),
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.VKDescriptorSet,
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  descriptorType,
		PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
	}

	vk.UpdateDescriptorSets(s.Device.VKDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return nil
}

// WriteImage points binding at a sampled image view.
func (s *DescriptorSet) WriteImage(binding uint32, view *ImageView, sampler *Sampler) error {
	descriptorType, err := s.bindingType(binding)
	if err != nil {
		return err
	}

	imageInfo := vk.DescriptorImageInfo{
		Sampler:     sampler.VKSampler,
		ImageView:   view.VKImageView,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.VKDescriptorSet,
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  descriptorType,
		PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
	}

	vk.UpdateDescriptorSets(s.Device.VKDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return nil
}
