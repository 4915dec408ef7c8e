package vkr

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type CommandBuffer struct {
	Device          *Device
	Pool            *CommandPool
	VKCommandBuffer vk.CommandBuffer
}

func (c *CommandBuffer) begin(flags vk.CommandBufferUsageFlagBits) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(flags),
	}

	err := vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
	if err != nil {
		return errors.Wrapf(err, "vkBeginCommandBuffer")
	}
	return nil
}

// Begin starts recording for a buffer that may be submitted repeatedly.
func (c *CommandBuffer) Begin() error {
	return c.begin(0)
}

// BeginOneTime starts recording for a buffer submitted exactly once, as
// the frame ring and staging copies do.
func (c *CommandBuffer) BeginOneTime() error {
	return c.begin(vk.CommandBufferUsageOneTimeSubmitBit)
}

func (c *CommandBuffer) End() error {
	err := vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer))
	if err != nil {
		return errors.Wrapf(err, "vkEndCommandBuffer")
	}
	return nil
}

func (c *CommandBuffer) Reset() error {
	err := vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
	if err != nil {
		return errors.Wrapf(err, "vkResetCommandBuffer")
	}
	return nil
}

func (c *CommandBuffer) Free() {
	vk.FreeCommandBuffers(c.Device.VKDevice, c.Pool.VKCommandPool, 1, []vk.CommandBuffer{c.VKCommandBuffer})
}

// BeginRenderPass starts the pass on the framebuffer at imageIndex with
// the given clear values. The render area always covers the full extent.
func (c *CommandBuffer) BeginRenderPass(renderPass *RenderPass, framebuffer *Framebuffer, clearValues []vk.ClearValue) {
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass.VKRenderPass,
		Framebuffer: framebuffer.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{},
			Extent: framebuffer.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}

	vk.CmdBeginRenderPass(c.VKCommandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

func (c *CommandBuffer) BindPipeline(pipeline *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, pipeline.VKPipeline)
}

func (c *CommandBuffer) BindVertexBuffer(buffer *Buffer) {
	vk.CmdBindVertexBuffers(c.VKCommandBuffer, 0, 1, []vk.Buffer{buffer.VKBuffer}, []vk.DeviceSize{0})
}

func (c *CommandBuffer) BindIndexBuffer(buffer *Buffer, indexType vk.IndexType) {
	vk.CmdBindIndexBuffer(c.VKCommandBuffer, buffer.VKBuffer, 0, indexType)
}

// BindDescriptorSet binds one set, applying dynamicOffsets to any dynamic
// uniform bindings in it.
func (c *CommandBuffer) BindDescriptorSet(layout *PipelineLayout, set *DescriptorSet, dynamicOffsets []uint32) {
	vk.CmdBindDescriptorSets(c.VKCommandBuffer, vk.PipelineBindPointGraphics,
		layout.VKPipelineLayout, 0, 1, []vk.DescriptorSet{set.VKDescriptorSet},
		uint32(len(dynamicOffsets)), dynamicOffsets)
}

// PushConstants writes len(data) bytes of push constant data for stages.
// An empty slice records nothing.
func (c *CommandBuffer) PushConstants(layout *PipelineLayout, stages vk.ShaderStageFlagBits, data []byte) {
	if len(data) == 0 {
		return
	}
	vk.CmdPushConstants(c.VKCommandBuffer, layout.VKPipelineLayout,
		vk.ShaderStageFlags(stages), 0, uint32(len(data)), unsafe.Pointer(&data[0]))
}

func (c *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(c.VKCommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (c *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vk.CmdDrawIndexed(c.VKCommandBuffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}
