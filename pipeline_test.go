package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestCreateGraphicsPipelineRejectsMissingLayout(t *testing.T) {
	device := &Device{}
	config := NewGraphicsPipelineConfig().
		AddShader(shaderStub(vk.ShaderStageVertexBit)).
		AddShader(shaderStub(vk.ShaderStageFragmentBit)).
		SetExtent(vk.Extent2D{Width: 800, Height: 600})

	_, err := device.CreateGraphicsPipeline(config, nil, &RenderPass{})
	if err == nil {
		t.Fatal("expected a pipeline without a layout to be rejected")
	}

	_, err = device.CreateGraphicsPipeline(config, &PipelineLayout{}, nil)
	if err == nil {
		t.Fatal("expected a pipeline without a render pass to be rejected")
	}
}
