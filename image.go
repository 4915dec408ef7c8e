package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DepthFormat is the depth attachment format used by render targets.
const DepthFormat = vk.FormatD32Sfloat

// Image wraps a vk.Image with its bound memory. Swapchain images are not
// represented here since the swapchain owns them.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	Memory   *DeviceMemory
	Format   vk.Format
	Extent   vk.Extent2D
	MipCount uint32
}

type CreateImageOptions struct {
	Format   vk.Format
	Extent   vk.Extent2D
	Usage    vk.ImageUsageFlagBits
	Tiling   vk.ImageTiling
	MipCount uint32
}

// CreateImage creates a 2D image in device-local memory.
func (d *Device) CreateImage(options *CreateImageOptions) (*Image, error) {
	if options.Extent.Width == 0 || options.Extent.Height == 0 {
		return nil, errors.Newf("cannot create an image with extent %dx%d", options.Extent.Width, options.Extent.Height)
	}

	mipCount := options.MipCount
	if mipCount == 0 {
		mipCount = 1
	}

	createInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    options.Format,
		Extent: vk.Extent3D{
			Width:  options.Extent.Width,
			Height: options.Extent.Height,
			Depth:  1,
		},
		MipLevels:     mipCount,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        options.Tiling,
		Usage:         vk.ImageUsageFlags(options.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	err := vk.Error(vk.CreateImage(d.VKDevice, &createInfo, nil, &image))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateImage")
	}

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.VKDevice, image, &requirements)
	requirements.Deref()

	memory, err := d.Allocate(requirements, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		vk.DestroyImage(d.VKDevice, image, nil)
		return nil, err
	}

	err = vk.Error(vk.BindImageMemory(d.VKDevice, image, memory.VKDeviceMemory, 0))
	if err != nil {
		memory.Destroy()
		vk.DestroyImage(d.VKDevice, image, nil)
		return nil, errors.Wrapf(err, "vkBindImageMemory")
	}

	return &Image{
		Device:   d,
		VKImage:  image,
		Memory:   memory,
		Format:   options.Format,
		Extent:   options.Extent,
		MipCount: mipCount,
	}, nil
}

// CreateDepthImage creates a depth attachment covering extent.
func (d *Device) CreateDepthImage(extent vk.Extent2D) (*Image, error) {
	return d.CreateImage(&CreateImageOptions{
		Format: DepthFormat,
		Extent: extent,
		Usage:  vk.ImageUsageDepthStencilAttachmentBit,
		Tiling: vk.ImageTilingOptimal,
	})
}

// TransitionLayout records and submits a one-off layout transition.
func (i *Image) TransitionLayout(pool *CommandPool, oldLayout, newLayout vk.ImageLayout) error {
	var srcAccess, dstAccess vk.AccessFlagBits
	var srcStage, dstStage vk.PipelineStageFlagBits

	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		dstAccess = vk.AccessTransferWriteBit
		srcStage = vk.PipelineStageTopOfPipeBit
		dstStage = vk.PipelineStageTransferBit
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		srcAccess = vk.AccessTransferWriteBit
		dstAccess = vk.AccessShaderReadBit
		srcStage = vk.PipelineStageTransferBit
		dstStage = vk.PipelineStageFragmentShaderBit
	default:
		return errors.Newf("unsupported layout transition %d -> %d", oldLayout, newLayout)
	}

	return pool.RunOnce(func(cmd *CommandBuffer) error {
		barrier := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			OldLayout:           oldLayout,
			NewLayout:           newLayout,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               i.VKImage,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: i.MipCount,
				LayerCount: 1,
			},
			SrcAccessMask: vk.AccessFlags(srcAccess),
			DstAccessMask: vk.AccessFlags(dstAccess),
		}

		vk.CmdPipelineBarrier(cmd.VKCommandBuffer,
			vk.PipelineStageFlags(srcStage), vk.PipelineStageFlags(dstStage),
			0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
		return nil
	})
}

// CreateTextureImageWithData uploads RGBA pixel data into a new sampled
// image through a staging buffer, leaving it shader-read-only.
func (d *Device) CreateTextureImageWithData(data []byte, extent vk.Extent2D, pool *CommandPool) (*Image, error) {
	staging, err := d.CreateHostBuffer(uint64(len(data)), vk.BufferUsageTransferSrcBit)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	err = staging.Write(data, 0)
	if err != nil {
		return nil, err
	}

	image, err := d.CreateImage(&CreateImageOptions{
		Format: vk.FormatR8g8b8a8Srgb,
		Extent: extent,
		Usage:  vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit,
		Tiling: vk.ImageTilingOptimal,
	})
	if err != nil {
		return nil, err
	}

	err = image.TransitionLayout(pool, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	if err != nil {
		image.Destroy()
		return nil, err
	}

	err = pool.RunOnce(func(cmd *CommandBuffer) error {
		region := vk.BufferImageCopy{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: 1,
			},
			ImageExtent: vk.Extent3D{
				Width:  extent.Width,
				Height: extent.Height,
				Depth:  1,
			},
		}
		vk.CmdCopyBufferToImage(cmd.VKCommandBuffer, staging.VKBuffer, image.VKImage,
			vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
		return nil
	})
	if err != nil {
		image.Destroy()
		return nil, err
	}

	err = image.TransitionLayout(pool, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	if err != nil {
		image.Destroy()
		return nil, err
	}

	return image, nil
}

func (i *Image) Destroy() {
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
	if i.Memory != nil {
		i.Memory.Destroy()
	}
}
