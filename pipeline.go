package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipeline pairs the compiled pipeline with the layout it was
// built against, since binding descriptor sets and pushing constants both
// need the layout at record time.
type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
	Layout     *PipelineLayout
}

// CreateGraphicsPipeline compiles the config into a pipeline for one
// subpass of renderPass.
func (d *Device) CreateGraphicsPipeline(config *GraphicsPipelineConfig, layout *PipelineLayout, renderPass *RenderPass) (*GraphicsPipeline, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, errors.New("graphics pipeline needs a pipeline layout")
	}
	if renderPass == nil {
		return nil, errors.New("graphics pipeline needs a render pass")
	}

	vertexInputState := config.vkVertexInputState()
	viewportState := config.vkViewportState()

	inputAssemblyState := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: config.Topology,
	}

	rasterizationState := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: config.PolygonMode,
		CullMode:    vk.CullModeFlags(config.CullMode),
		FrontFace:   config.FrontFace,
		LineWidth:   1.0,
	}

	multisampleState := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	if config.BlendEnabled {
		colorBlendAttachment.BlendEnable = vk.True
		colorBlendAttachment.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		colorBlendAttachment.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		colorBlendAttachment.ColorBlendOp = vk.BlendOpAdd
		colorBlendAttachment.SrcAlphaBlendFactor = vk.BlendFactorOne
		colorBlendAttachment.DstAlphaBlendFactor = vk.BlendFactorZero
		colorBlendAttachment.AlphaBlendOp = vk.BlendOpAdd
	}

	colorBlendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(config.Shaders)),
		PStages:             config.vkShaderStages(),
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizationState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		Layout:              layout.VKPipelineLayout,
		RenderPass:          renderPass.VKRenderPass,
	}

	if config.DepthTest || config.DepthWrite {
		depthState := vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthCompareOp:   vk.CompareOpLess,
			MaxDepthBounds:   1.0,
			DepthTestEnable:  vk.False,
			DepthWriteEnable: vk.False,
		}
		if config.DepthTest {
			depthState.DepthTestEnable = vk.True
		}
		if config.DepthWrite {
			depthState.DepthWriteEnable = vk.True
		}
		createInfo.PDepthStencilState = &depthState
	}

	pipelines := make([]vk.Pipeline, 1)
	err = vk.Error(vk.CreateGraphicsPipelines(d.VKDevice, vk.NullPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateGraphicsPipelines")
	}

	return &GraphicsPipeline{
		Device:     d,
		VKPipeline: pipelines[0],
		Layout:     layout,
	}, nil
}

func (g *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(g.Device.VKDevice, g.VKPipeline, nil)
}
