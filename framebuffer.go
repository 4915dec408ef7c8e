package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Framebuffer struct {
	Device        *Device
	VKFramebuffer vk.Framebuffer
	Extent        vk.Extent2D
}

// CreateFramebuffer binds the attachment views to renderPass over extent.
// Attachment order must match the render pass attachment order.
func (d *Device) CreateFramebuffer(renderPass *RenderPass, attachments []*ImageView, extent vk.Extent2D) (*Framebuffer, error) {
	views := make([]vk.ImageView, len(attachments))
	for i, a := range attachments {
		views[i] = a.VKImageView
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass.VKRenderPass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &createInfo, nil, &framebuffer))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateFramebuffer")
	}

	return &Framebuffer{Device: d, VKFramebuffer: framebuffer, Extent: extent}, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}
