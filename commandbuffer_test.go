package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestPushConstantsEmptyData(t *testing.T) {
	cmd := &CommandBuffer{}
	layout := &PipelineLayout{}

	// no data means nothing to record; must not touch the device
	cmd.PushConstants(layout, vk.ShaderStageFragmentBit, nil)
	cmd.PushConstants(layout, vk.ShaderStageFragmentBit, []byte{})
}
