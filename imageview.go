package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// CreateImageView creates a 2D view over image. Swapchain images pass
// their raw handle here since they are not wrapped in Image.
func (d *Device) CreateImageView(image vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits, mipCount uint32) (*ImageView, error) {
	if mipCount == 0 {
		mipCount = 1
	}

	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(aspect),
			LevelCount: mipCount,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	err := vk.Error(vk.CreateImageView(d.VKDevice, &createInfo, nil, &view))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateImageView")
	}

	return &ImageView{Device: d, VKImageView: view}, nil
}

// CreateView creates a color view over the image's full mip chain.
func (i *Image) CreateView() (*ImageView, error) {
	return i.Device.CreateImageView(i.VKImage, i.Format, vk.ImageAspectColorBit, i.MipCount)
}

// CreateDepthView creates a depth-aspect view over the image.
func (i *Image) CreateDepthView() (*ImageView, error) {
	return i.Device.CreateImageView(i.VKImage, i.Format, vk.ImageAspectDepthBit, i.MipCount)
}

func (v *ImageView) Destroy() {
	vk.DestroyImageView(v.Device.VKDevice, v.VKImageView, nil)
}
