package vkr

import (
	"math"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Swapchain owns the presentation images, their views, the shared depth
// attachment and one framebuffer per image. Recreate tears all of that
// down and rebuilds it at a new extent without touching the surface.
type Swapchain struct {
	Device      *Device
	VKSwapchain vk.Swapchain
	Surface     vk.Surface
	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D

	images       []vk.Image
	views        []*ImageView
	depthImage   *Image
	depthView    *ImageView
	framebuffers []*Framebuffer
}

type CreateSwapchainOptions struct {
	// DesiredExtent is consulted only when the surface leaves the extent
	// up to the application.
	DesiredExtent vk.Extent2D
	WithDepth     bool
}

// ChooseSwapchainExtent resolves the swapchain extent from the surface
// capabilities, clamping desired into the supported range when the
// surface does not dictate one.
func ChooseSwapchainExtent(caps *vk.SurfaceCapabilities, desired vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}

	clamp := func(v, lo, hi uint32) uint32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	return vk.Extent2D{
		Width:  clamp(desired.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(desired.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image beyond the minimum, capped by the
// surface maximum when one is set.
func ChooseImageCount(caps *vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// CreateSwapchain builds a swapchain for surface using the device's best
// format and present mode.
func (d *Device) CreateSwapchain(surface vk.Surface, options *CreateSwapchainOptions) (*Swapchain, error) {
	s := &Swapchain{Device: d, Surface: surface}

	formats, err := d.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return nil, errors.New("the surface advertises no formats")
	}
	s.Format = ChooseSurfaceFormat(formats)

	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}
	s.PresentMode = ChoosePresentMode(modes)

	err = s.build(options, vk.NullSwapchain)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Swapchain) build(options *CreateSwapchainOptions, oldSwapchain vk.Swapchain) error {
	caps, err := s.Device.PhysicalDevice.GetSurfaceCapabilities(s.Surface)
	if err != nil {
		return err
	}

	desired := vk.Extent2D{}
	withDepth := false
	if options != nil {
		desired = options.DesiredExtent
		withDepth = options.WithDepth
	}
	s.Extent = ChooseSwapchainExtent(caps, desired)

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.Surface,
		MinImageCount:    ChooseImageCount(caps),
		ImageFormat:      s.Format.Format,
		ImageColorSpace:  s.Format.ColorSpace,
		ImageExtent:      s.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      s.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     oldSwapchain,
	}

	indices := s.Device.QueueFamilyIndices
	if indices.Graphics != indices.Present {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{indices.Graphics, indices.Present}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	err = vk.Error(vk.CreateSwapchain(s.Device.VKDevice, &createInfo, nil, &swapchain))
	if err != nil {
		return errors.Wrapf(err, "vkCreateSwapchain")
	}
	s.VKSwapchain = swapchain

	var imageCount uint32
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, swapchain, &imageCount, nil))
	if err != nil {
		return errors.Wrapf(err, "vkGetSwapchainImages")
	}

	s.images = make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, swapchain, &imageCount, s.images))
	if err != nil {
		return errors.Wrapf(err, "vkGetSwapchainImages")
	}

	s.views = make([]*ImageView, imageCount)
	for i, img := range s.images {
		view, err := s.Device.CreateImageView(img, s.Format.Format, vk.ImageAspectColorBit, 1)
		if err != nil {
			return err
		}
		s.views[i] = view
	}

	if withDepth {
		s.depthImage, err = s.Device.CreateDepthImage(s.Extent)
		if err != nil {
			return err
		}
		s.depthView, err = s.depthImage.CreateDepthView()
		if err != nil {
			return err
		}
	}

	return nil
}

// CreateFramebuffers builds one framebuffer per swapchain image against
// renderPass. The render pass depth setting must match the swapchain's.
func (s *Swapchain) CreateFramebuffers(renderPass *RenderPass) error {
	if renderPass.HasDepth != (s.depthView != nil) {
		return errors.New("render pass and swapchain disagree on the depth attachment")
	}

	s.framebuffers = make([]*Framebuffer, len(s.views))
	for i, view := range s.views {
		attachments := []*ImageView{view}
		if s.depthView != nil {
			attachments = append(attachments, s.depthView)
		}

		fb, err := s.Device.CreateFramebuffer(renderPass, attachments, s.Extent)
		if err != nil {
			return err
		}
		s.framebuffers[i] = fb
	}
	return nil
}

// ImageCount reports how many presentation images the swapchain holds.
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Framebuffer returns the framebuffer for image index i.
func (s *Swapchain) Framebuffer(i uint32) (*Framebuffer, error) {
	if int(i) >= len(s.framebuffers) {
		return nil, errors.Newf("framebuffer index %d out of range, have %d", i, len(s.framebuffers))
	}
	return s.framebuffers[i], nil
}

// classifyAcquireResult splits an acquire result into the cases a caller
// handles: suboptimal images are still renderable, out-of-date ones are
// not, and everything else non-success is a hard failure.
func classifyAcquireResult(res vk.Result) (suboptimal, outOfDate bool, err error) {
	switch res {
	case vk.Suboptimal:
		return true, false, nil
	case vk.ErrorOutOfDate:
		return false, true, nil
	}
	if err := vk.Error(res); err != nil {
		return false, false, errors.Wrapf(err, "vkAcquireNextImage")
	}
	return false, false, nil
}

// AcquireNextImage acquires the next presentation image within
// timeoutNanos, signaling semaphore and, if non-null, fence once it is
// available. A suboptimal image is still returned for rendering, with
// the flag set so the caller can schedule a recreation; outOfDate means
// no image was acquired and the swapchain must be recreated first.
func (s *Swapchain) AcquireNextImage(timeoutNanos uint64, semaphore vk.Semaphore, fence vk.Fence) (index uint32, suboptimal, outOfDate bool, err error) {
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, timeoutNanos, semaphore, fence, &index)
	suboptimal, outOfDate, err = classifyAcquireResult(res)
	if outOfDate || err != nil {
		return 0, false, outOfDate, err
	}
	return index, suboptimal, false, nil
}

// Recreate rebuilds the swapchain and its attachments at the desired
// extent, reusing the old swapchain for a smooth handoff. The caller must
// ensure the device is idle first.
func (s *Swapchain) Recreate(options *CreateSwapchainOptions, renderPass *RenderPass) error {
	old := s.VKSwapchain
	s.destroyResources()

	err := s.build(options, old)
	vk.DestroySwapchain(s.Device.VKDevice, old, nil)
	if err != nil {
		return err
	}

	if renderPass != nil {
		return s.CreateFramebuffers(renderPass)
	}
	return nil
}

func (s *Swapchain) destroyResources() {
	for _, fb := range s.framebuffers {
		fb.Destroy()
	}
	s.framebuffers = nil

	if s.depthView != nil {
		s.depthView.Destroy()
		s.depthView = nil
	}
	if s.depthImage != nil {
		s.depthImage.Destroy()
		s.depthImage = nil
	}

	for _, v := range s.views {
		v.Destroy()
	}
	s.views = nil
	s.images = nil
}

func (s *Swapchain) Destroy() {
	s.destroyResources()
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}
