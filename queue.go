package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device           *Device
	QueueFamilyIndex uint32
	VKQueue          vk.Queue
}

// SubmitOptions describes the synchronization around one queue submission.
// WaitSemaphores and WaitStages are parallel slices.
type SubmitOptions struct {
	WaitSemaphores   []vk.Semaphore
	WaitStages       []vk.PipelineStageFlags
	SignalSemaphores []vk.Semaphore
	Fence            vk.Fence
}

// Submit enqueues the command buffers with the given synchronization. The
// fence, when not null, signals once the GPU finishes the batch.
func (q *Queue) Submit(buffers []*CommandBuffer, options *SubmitOptions) error {
	vkBuffers := make([]vk.CommandBuffer, len(buffers))
	for i, b := range buffers {
		vkBuffers[i] = b.VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(vkBuffers)),
		PCommandBuffers:    vkBuffers,
	}

	fence := vk.NullFence
	if options != nil {
		submitInfo.WaitSemaphoreCount = uint32(len(options.WaitSemaphores))
		submitInfo.PWaitSemaphores = options.WaitSemaphores
		submitInfo.PWaitDstStageMask = options.WaitStages
		submitInfo.SignalSemaphoreCount = uint32(len(options.SignalSemaphores))
		submitInfo.PSignalSemaphores = options.SignalSemaphores
		fence = options.Fence
	}

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence))
	if err != nil {
		return errors.Wrapf(err, "vkQueueSubmit")
	}
	return nil
}

// SubmitAndWait submits the command buffers and blocks until the queue
// drains. Used for one-off work such as staged uploads, never per frame.
func (q *Queue) SubmitAndWait(buffers ...*CommandBuffer) error {
	err := q.Submit(buffers, nil)
	if err != nil {
		return err
	}

	err = vk.Error(vk.QueueWaitIdle(q.VKQueue))
	if err != nil {
		return errors.Wrapf(err, "vkQueueWaitIdle")
	}
	return nil
}

// Present hands the swapchain image at imageIndex to the presentation
// engine after waitSemaphores signal. A suboptimal or out-of-date result
// is reported through the returned bool so callers can recreate the
// swapchain; any other failure is an error.
func (q *Queue) Present(swapchain *Swapchain, imageIndex uint32, waitSemaphores []vk.Semaphore) (outOfDate bool, err error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSemaphores)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(q.VKQueue, &presentInfo)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return true, nil
	}
	if err := vk.Error(res); err != nil {
		return false, errors.Wrapf(err, "vkQueuePresent")
	}
	return false, nil
}
