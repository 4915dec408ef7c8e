package vkr

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FramesInFlight is the default depth of the frame ring. Three slots keep
// the GPU fed without letting the CPU run more than two frames ahead.
const FramesInFlight = 3

// FrameFenceTimeout bounds the per-frame fence wait. A frame taking this
// long means the GPU is wedged, so the wait error is fatal rather than
// retried.
const FrameFenceTimeout = time.Second

// FrameAcquireTimeout bounds the swapchain image acquire so a dead
// presentation engine surfaces as an error instead of a hang.
const FrameAcquireTimeout = time.Second

// Frame is one slot of the ring: a fence covering the slot's previous
// submission, the two semaphores ordering acquire, render and present,
// the slot's own command pool and buffer, and the slot's descriptor set
// pointing at its region of the ring's uniform buffer. Everything here is
// reused only after the fence proves the GPU is done with it.
type Frame struct {
	Index          int
	Fence          vk.Fence
	ImageAvailable vk.Semaphore
	RenderFinished vk.Semaphore
	Pool           *CommandPool
	CommandBuffer  *CommandBuffer
	Set            *DescriptorSet

	ring       *FrameRing
	imageIndex uint32
}

// ImageIndex reports the swapchain image acquired for this frame. Valid
// between Begin and End.
func (f *Frame) ImageIndex() uint32 {
	return f.imageIndex
}

// WriteUniform copies data into this slot's region of the ring's uniform
// buffer. The fence wait in Begin guarantees the GPU finished reading the
// region, so writing during recording is always safe.
func (f *Frame) WriteUniform(data []byte) error {
	if f.ring == nil || f.ring.uniform == nil {
		return errors.New("frame ring has no uniform region")
	}
	return f.ring.uniform.Write(uint32(f.Index), data)
}

func (f *Frame) destroy(d *Device) {
	vk.DestroyFence(d.VKDevice, f.Fence, nil)
	vk.DestroySemaphore(d.VKDevice, f.ImageAvailable, nil)
	vk.DestroySemaphore(d.VKDevice, f.RenderFinished, nil)
	if f.Pool != nil {
		f.Pool.Destroy()
	}
}

// frameSync abstracts the per-slot fence operations so the ring's reuse
// ordering can be exercised without a device.
type frameSync interface {
	waitSlot(slot int, timeoutNanos uint64) error
	resetSlot(slot int) error
}

type deviceFrameSync struct {
	ring *FrameRing
}

func (s *deviceFrameSync) waitSlot(slot int, timeoutNanos uint64) error {
	return s.ring.Device.WaitForFence(s.ring.frames[slot].Fence, timeoutNanos)
}

func (s *deviceFrameSync) resetSlot(slot int) error {
	return s.ring.Device.ResetFence(s.ring.frames[slot].Fence)
}

// FrameRingOptions configures NewFrameRing. With a zero UniformSize no
// per-frame uniform buffer is created; with a nil Layout no descriptor
// sets are allocated.
type FrameRingOptions struct {
	Count int
	// UniformSize is the unpadded byte size of the per-frame uniform
	// struct, one padded copy per slot.
	UniformSize uint64
	// Layout describes each slot's descriptor set. When UniformSize is
	// non-zero, binding 0 of every set is pointed at the slot's uniform
	// region.
	Layout *DescriptorSetLayout
}

// FrameRing cycles through a fixed set of frame slots. A slot is reused
// only after its fence proves the GPU finished the slot's last
// submission; the fence therefore also gates reuse of the slot's command
// buffer, uniform region and descriptor set.
type FrameRing struct {
	Device    *Device
	Swapchain *Swapchain

	frames         []*Frame
	current        int
	sync           frameSync
	uniform        *UniformRing
	descriptorPool *DescriptorPool
}

// NewFrameRing builds the frame slots with pre-signaled fences so the
// first pass through the ring does not block. Each slot gets its own
// command pool, and optionally a region of a shared uniform buffer plus a
// descriptor set bound to it.
func (d *Device) NewFrameRing(swapchain *Swapchain, options *FrameRingOptions) (*FrameRing, error) {
	if options == nil {
		options = &FrameRingOptions{}
	}
	count := options.Count
	if count <= 0 {
		count = FramesInFlight
	}
	if options.UniformSize > 0 && options.Layout == nil {
		return nil, errors.New("a frame uniform region needs a descriptor set layout to bind into")
	}

	ring := &FrameRing{
		Device:    d,
		Swapchain: swapchain,
		frames:    make([]*Frame, count),
	}
	ring.sync = &deviceFrameSync{ring: ring}

	var err error
	if options.UniformSize > 0 {
		ring.uniform, err = d.CreateUniformRing(options.UniformSize, uint32(count))
		if err != nil {
			return nil, err
		}
	}
	if options.Layout != nil {
		ring.descriptorPool, err = d.CreateDescriptorPool(&CreateDescriptorPoolOptions{
			MaxSets:   uint32(count),
			PoolSizes: options.Layout.PoolSizes(uint32(count)),
		})
		if err != nil {
			ring.Destroy()
			return nil, err
		}
	}

	for i := 0; i < count; i++ {
		frame := &Frame{Index: i, ring: ring}
		ring.frames[i] = frame

		frame.Pool, err = d.CreateCommandPool(OperationGraphics)
		if err != nil {
			ring.Destroy()
			return nil, err
		}
		frame.CommandBuffer, err = frame.Pool.AllocateBuffer()
		if err != nil {
			ring.Destroy()
			return nil, err
		}

		frame.Fence, err = d.CreateFence(true)
		if err != nil {
			ring.Destroy()
			return nil, err
		}
		frame.ImageAvailable, err = d.CreateSemaphore()
		if err != nil {
			ring.Destroy()
			return nil, err
		}
		frame.RenderFinished, err = d.CreateSemaphore()
		if err != nil {
			ring.Destroy()
			return nil, err
		}

		if options.Layout != nil {
			frame.Set, err = ring.descriptorPool.AllocateSet(options.Layout)
			if err != nil {
				ring.Destroy()
				return nil, err
			}
			if ring.uniform != nil {
				offset, err := ring.uniform.OffsetFor(uint32(i))
				if err != nil {
					ring.Destroy()
					return nil, err
				}
				err = frame.Set.WriteBuffer(0, ring.uniform.Buffer, uint64(offset), ring.uniform.Stride)
				if err != nil {
					ring.Destroy()
					return nil, err
				}
			}
		}
	}

	return ring, nil
}

// Count reports the ring depth.
func (r *FrameRing) Count() int {
	return len(r.frames)
}

// Current returns the slot the next Begin will use.
func (r *FrameRing) Current() *Frame {
	return r.frames[r.current]
}

// Frames returns every slot, for one-time setup such as writing extra
// descriptor bindings.
func (r *FrameRing) Frames() []*Frame {
	return r.frames
}

func (r *FrameRing) advance() {
	r.current = (r.current + 1) % len(r.frames)
}

// begin claims the current slot. The fence is reset only after the
// acquire succeeds: an out-of-date acquire submits nothing, so the fence
// must stay signaled for the retry after the swapchain is recreated.
func (r *FrameRing) begin(acquire func(semaphore vk.Semaphore) (uint32, bool, error)) (*Frame, bool, error) {
	err := r.sync.waitSlot(r.current, uint64(FrameFenceTimeout.Nanoseconds()))
	if err != nil {
		return nil, false, errors.Wrapf(err, "frame %d", r.current)
	}

	frame := r.frames[r.current]

	imageIndex, outOfDate, err := acquire(frame.ImageAvailable)
	if err != nil {
		return nil, false, err
	}
	if outOfDate {
		return nil, true, nil
	}
	frame.imageIndex = imageIndex

	err = r.sync.resetSlot(r.current)
	if err != nil {
		return nil, false, err
	}

	return frame, false, nil
}

// Begin claims the current slot: waits out its fence, acquires a
// swapchain image, arms the fence and starts recording the slot's command
// buffer. When the swapchain is out of date no frame is returned and the
// caller must recreate it before trying again.
func (r *FrameRing) Begin() (*Frame, bool, error) {
	frame, outOfDate, err := r.begin(func(semaphore vk.Semaphore) (uint32, bool, error) {
		index, _, outOfDate, err := r.Swapchain.AcquireNextImage(
			uint64(FrameAcquireTimeout.Nanoseconds()), semaphore, vk.NullFence)
		return index, outOfDate, err
	})
	if frame == nil {
		return nil, outOfDate, err
	}

	err = frame.CommandBuffer.Reset()
	if err != nil {
		return nil, false, err
	}
	err = frame.CommandBuffer.BeginOneTime()
	if err != nil {
		return nil, false, err
	}

	return frame, false, nil
}

// End finishes the frame: closes the command buffer, submits it gated on
// the acquired image and hands the image to the presentation engine. The
// ring advances regardless of a suboptimal present so the caller can
// recreate the swapchain and keep going.
func (r *FrameRing) End(frame *Frame) (outOfDate bool, err error) {
	err = frame.CommandBuffer.End()
	if err != nil {
		return false, err
	}

	err = r.Device.GraphicsQueue().Submit([]*CommandBuffer{frame.CommandBuffer}, &SubmitOptions{
		WaitSemaphores:   []vk.Semaphore{frame.ImageAvailable},
		WaitStages:       []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		SignalSemaphores: []vk.Semaphore{frame.RenderFinished},
		Fence:            frame.Fence,
	})
	if err != nil {
		return false, err
	}

	outOfDate, err = r.Device.PresentQueue().Present(r.Swapchain, frame.imageIndex,
		[]vk.Semaphore{frame.RenderFinished})
	if err != nil {
		return false, err
	}

	r.advance()
	return outOfDate, nil
}

// Destroy waits for the device to go idle and releases every slot.
func (r *FrameRing) Destroy() {
	_ = r.Device.WaitIdle()
	for _, f := range r.frames {
		if f != nil {
			f.destroy(r.Device)
		}
	}
	r.frames = nil

	if r.descriptorPool != nil {
		r.descriptorPool.Destroy()
		r.descriptorPool = nil
	}
	if r.uniform != nil {
		r.uniform.Destroy()
		r.uniform = nil
	}
}
