package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestBindingHelpers(t *testing.T) {
	u := UniformBinding(0, vk.ShaderStageVertexBit)
	if u.DescriptorType != vk.DescriptorTypeUniformBuffer || u.Binding != 0 {
		t.Fail()
	}

	d := DynamicUniformBinding(1, vk.ShaderStageVertexBit)
	if d.DescriptorType != vk.DescriptorTypeUniformBufferDynamic || d.Binding != 1 {
		t.Fail()
	}

	s := SamplerBinding(2, vk.ShaderStageFragmentBit)
	if s.DescriptorType != vk.DescriptorTypeCombinedImageSampler || s.Binding != 2 {
		t.Fail()
	}
}

func TestDynamicBindingCount(t *testing.T) {
	layout := &DescriptorSetLayout{
		Bindings: []vk.DescriptorSetLayoutBinding{
			UniformBinding(0, vk.ShaderStageVertexBit),
			DynamicUniformBinding(1, vk.ShaderStageVertexBit),
			SamplerBinding(2, vk.ShaderStageFragmentBit),
		},
	}

	if layout.DynamicBindingCount() != 1 {
		t.Errorf("counted %d dynamic bindings", layout.DynamicBindingCount())
	}

	layout.Bindings = append(layout.Bindings, vk.DescriptorSetLayoutBinding{
		Binding:        3,
		DescriptorType: vk.DescriptorTypeStorageBufferDynamic,
	})
	if layout.DynamicBindingCount() != 2 {
		t.Error("storage dynamic bindings also take offsets")
	}
}

func TestDescriptorSetLayoutPoolSizes(t *testing.T) {
	layout := &DescriptorSetLayout{
		Bindings: []vk.DescriptorSetLayoutBinding{
			UniformBinding(0, vk.ShaderStageVertexBit),
			DynamicUniformBinding(1, vk.ShaderStageVertexBit),
			SamplerBinding(2, vk.ShaderStageFragmentBit),
		},
	}

	sizes := layout.PoolSizes(3)
	if len(sizes) != 3 {
		t.Fatalf("got %d pool sizes", len(sizes))
	}
	want := map[vk.DescriptorType]uint32{
		vk.DescriptorTypeUniformBuffer:        3,
		vk.DescriptorTypeUniformBufferDynamic: 3,
		vk.DescriptorTypeCombinedImageSampler: 3,
	}
	for _, s := range sizes {
		if want[s.Type] != s.DescriptorCount {
			t.Errorf("type %d sized %d, want %d", s.Type, s.DescriptorCount, want[s.Type])
		}
	}
}

func TestDescriptorSetLayoutPoolSizesMergesTypes(t *testing.T) {
	layout := &DescriptorSetLayout{
		Bindings: []vk.DescriptorSetLayoutBinding{
			UniformBinding(0, vk.ShaderStageVertexBit),
			UniformBinding(1, vk.ShaderStageFragmentBit),
		},
	}

	sizes := layout.PoolSizes(2)
	if len(sizes) != 1 {
		t.Fatalf("got %d pool sizes, want the uniform entries merged", len(sizes))
	}
	if sizes[0].Type != vk.DescriptorTypeUniformBuffer || sizes[0].DescriptorCount != 4 {
		t.Errorf("got type %d count %d", sizes[0].Type, sizes[0].DescriptorCount)
	}
}
