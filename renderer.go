package vkr

import (
	"log"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// RendererOptions configures NewRenderer. CreateSurface is the only
// required field; the windowing layer supplies it so this package stays
// free of any window toolkit.
type RendererOptions struct {
	App           *App
	CreateSurface func(instance *Instance) (vk.Surface, error)
	DesiredExtent vk.Extent2D
	FrameCount    int
	WithDepth     bool
	Debug         bool

	// FrameBindings describes each frame slot's descriptor set. When
	// FrameUniformSize is non-zero, binding 0 must be a uniform buffer;
	// it is pointed at the slot's uniform region.
	FrameBindings    []vk.DescriptorSetLayoutBinding
	FrameUniformSize uint64
}

// Renderer owns the full chain from instance to frame ring. It exists for
// programs that want the default wiring; everything it does can also be
// assembled by hand from the individual constructors.
type Renderer struct {
	Instance    *Instance
	Device      *Device
	Surface     vk.Surface
	Swapchain   *Swapchain
	RenderPass  *RenderPass
	Ring        *FrameRing
	Pool        *CommandPool
	FrameLayout *DescriptorSetLayout

	withDepth     bool
	resized       bool
	pendingExtent vk.Extent2D
}

// NewRenderer stands up an instance, picks the best adapter for the
// surface, creates the logical device, swapchain, render pass,
// framebuffers and frame ring.
func NewRenderer(options *RendererOptions) (*Renderer, error) {
	if options == nil || options.CreateSurface == nil {
		return nil, errors.New("renderer options must provide CreateSurface")
	}

	app := options.App
	if app == nil {
		app = &App{Name: "vkr"}
	}
	if options.Debug {
		app.EnableDebugging()
	}

	instance, err := app.CreateInstance()
	if err != nil {
		return nil, err
	}
	if options.Debug {
		instance.UseDefaultDebugCallback()
	}

	r := &Renderer{
		Instance:      instance,
		withDepth:     options.WithDepth,
		pendingExtent: options.DesiredExtent,
	}

	r.Surface, err = options.CreateSurface(instance)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	physicalDevices, err := instance.PhysicalDevices()
	if err != nil {
		r.Destroy()
		return nil, err
	}

	physicalDevice, err := SelectPhysicalDevice(physicalDevices, r.Surface)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	log.Printf("vkr: using %s", physicalDevice)

	families, err := physicalDevice.QueueFamilies()
	if err != nil {
		r.Destroy()
		return nil, err
	}
	indices, err := FindQueueFamilyIndices(families, r.Surface)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	r.Device, err = physicalDevice.CreateLogicalDeviceWithOptions(indices, &CreateDeviceOptions{
		EnabledExtensions: []string{"VK_KHR_swapchain"},
	})
	if err != nil {
		r.Destroy()
		return nil, err
	}

	r.Swapchain, err = r.Device.CreateSwapchain(r.Surface, &CreateSwapchainOptions{
		DesiredExtent: options.DesiredExtent,
		WithDepth:     options.WithDepth,
	})
	if err != nil {
		r.Destroy()
		return nil, err
	}

	r.RenderPass, err = r.Device.CreateRenderPass(r.Swapchain.Format.Format, options.WithDepth)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	err = r.Swapchain.CreateFramebuffers(r.RenderPass)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	r.Pool, err = r.Device.CreateCommandPool(OperationGraphics)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	if len(options.FrameBindings) > 0 {
		r.FrameLayout, err = r.Device.CreateDescriptorSetLayout(options.FrameBindings)
		if err != nil {
			r.Destroy()
			return nil, err
		}
	}

	r.Ring, err = r.Device.NewFrameRing(r.Swapchain, &FrameRingOptions{
		Count:       options.FrameCount,
		UniformSize: options.FrameUniformSize,
		Layout:      r.FrameLayout,
	})
	if err != nil {
		r.Destroy()
		return nil, err
	}

	return r, nil
}

// NotifyResize records the new surface extent. The swapchain is rebuilt
// on the next frame boundary rather than mid-frame.
func (r *Renderer) NotifyResize(extent vk.Extent2D) {
	r.resized = true
	r.pendingExtent = extent
}

func (r *Renderer) recreateSwapchain() error {
	err := r.Device.WaitIdle()
	if err != nil {
		return err
	}

	err = r.Swapchain.Recreate(&CreateSwapchainOptions{
		DesiredExtent: r.pendingExtent,
		WithDepth:     r.withDepth,
	}, r.RenderPass)
	if err != nil {
		return err
	}

	r.resized = false
	log.Printf("vkr: swapchain recreated at %dx%d", r.Swapchain.Extent.Width, r.Swapchain.Extent.Height)
	return nil
}

// DrawFrame runs one frame through the ring, calling record to fill the
// frame's command buffer between render pass begin and end. Out-of-date
// swapchains are recreated transparently; a skipped frame is not an
// error.
func (r *Renderer) DrawFrame(clearValues []vk.ClearValue, record func(rec Recorder, frame *Frame) error) error {
	frame, outOfDate, err := r.Ring.Begin()
	if err != nil {
		return err
	}
	if outOfDate {
		return r.recreateSwapchain()
	}

	framebuffer, err := r.Swapchain.Framebuffer(frame.ImageIndex())
	if err != nil {
		return err
	}

	cmd := frame.CommandBuffer
	cmd.BeginRenderPass(r.RenderPass, framebuffer, clearValues)

	err = record(cmd, frame)
	if err != nil {
		return err
	}

	cmd.EndRenderPass()

	outOfDate, err = r.Ring.End(frame)
	if err != nil {
		return err
	}
	if outOfDate || r.resized {
		return r.recreateSwapchain()
	}
	return nil
}

// Destroy releases everything the renderer stood up, in reverse creation
// order.
func (r *Renderer) Destroy() {
	if r.Device != nil {
		_ = r.Device.WaitIdle()
	}
	if r.Ring != nil {
		r.Ring.Destroy()
	}
	if r.FrameLayout != nil {
		r.FrameLayout.Destroy()
	}
	if r.Pool != nil {
		r.Pool.Destroy()
	}
	if r.RenderPass != nil {
		r.RenderPass.Destroy()
	}
	if r.Swapchain != nil {
		r.Swapchain.Destroy()
	}
	if r.Device != nil {
		r.Device.Destroy()
	}
	if r.Instance != nil {
		if r.Surface != vk.NullSurface {
			vk.DestroySurface(r.Instance.VKInstance, r.Surface, nil)
		}
		r.Instance.Destroy()
	}
}
