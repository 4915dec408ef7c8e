package vkr

import vk "github.com/vulkan-go/vulkan"

// Recorder is the command surface draw code records against. It is what
// CommandBuffer exposes during a render pass; code that only draws should
// take a Recorder rather than a *CommandBuffer.
type Recorder interface {
	BindPipeline(pipeline *GraphicsPipeline)
	BindVertexBuffer(buffer *Buffer)
	BindIndexBuffer(buffer *Buffer, indexType vk.IndexType)
	BindDescriptorSet(layout *PipelineLayout, set *DescriptorSet, dynamicOffsets []uint32)
	PushConstants(layout *PipelineLayout, stages vk.ShaderStageFlagBits, data []byte)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
}

var _ Recorder = (*CommandBuffer)(nil)
