package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout keeps the binding list around so sets allocated
// against it can size their writes without re-describing the layout.
type DescriptorSetLayout struct {
	Device                *Device
	VKDescriptorSetLayout vk.DescriptorSetLayout
	Bindings              []vk.DescriptorSetLayoutBinding
}

// UniformBinding describes a plain uniform buffer at binding for stages.
func UniformBinding(binding uint32, stages vk.ShaderStageFlagBits) vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(stages),
	}
}

// DynamicUniformBinding describes a uniform buffer whose offset is
// supplied at bind time, one region per frame in flight.
func DynamicUniformBinding(binding uint32, stages vk.ShaderStageFlagBits) vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(stages),
	}
}

// SamplerBinding describes a combined image sampler at binding.
func SamplerBinding(binding uint32, stages vk.ShaderStageFlagBits) vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(stages),
	}
}

func (d *Device) CreateDescriptorSetLayout(bindings []vk.DescriptorSetLayoutBinding) (*DescriptorSetLayout, error) {
	createInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	err := vk.Error(vk.CreateDescriptorSetLayout(d.VKDevice, &createInfo, nil, &layout))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateDescriptorSetLayout")
	}

	return &DescriptorSetLayout{
		Device:                d,
		VKDescriptorSetLayout: layout,
		Bindings:              bindings,
	}, nil
}

// PoolSizes derives the descriptor pool sizes needed to allocate
// setCount sets of this layout, one size entry per descriptor type.
func (l *DescriptorSetLayout) PoolSizes(setCount uint32) []vk.DescriptorPoolSize {
	counts := map[vk.DescriptorType]uint32{}
	order := []vk.DescriptorType{}
	for _, b := range l.Bindings {
		if _, seen := counts[b.DescriptorType]; !seen {
			order = append(order, b.DescriptorType)
		}
		counts[b.DescriptorType] += b.DescriptorCount * setCount
	}

	sizes := make([]vk.DescriptorPoolSize, 0, len(order))
	for _, t := range order {
		sizes = append(sizes, vk.DescriptorPoolSize{
			Type:            t,
			DescriptorCount: counts[t],
		})
	}
	return sizes
}

// DynamicBindingCount reports how many bindings take a dynamic offset,
// which is how many offsets a bind of this layout's sets must supply.
func (l *DescriptorSetLayout) DynamicBindingCount() int {
	count := 0
	for _, b := range l.Bindings {
		if b.DescriptorType == vk.DescriptorTypeUniformBufferDynamic ||
			b.DescriptorType == vk.DescriptorTypeStorageBufferDynamic {
			count++
		}
	}
	return count
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}
