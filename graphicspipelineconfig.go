package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipelineConfig gathers the fixed-function state for a graphics
// pipeline. The zero value plus AddShader and SetExtent yields a sane
// opaque pipeline; everything else has defaults.
type GraphicsPipelineConfig struct {
	Shaders          []*ShaderModule
	VertexBindings   []vk.VertexInputBindingDescription
	VertexAttributes []vk.VertexInputAttributeDescription
	Topology         vk.PrimitiveTopology
	CullMode         vk.CullModeFlagBits
	FrontFace        vk.FrontFace
	PolygonMode      vk.PolygonMode
	Extent           vk.Extent2D
	DepthTest        bool
	DepthWrite       bool
	BlendEnabled     bool
}

func NewGraphicsPipelineConfig() *GraphicsPipelineConfig {
	return &GraphicsPipelineConfig{
		Topology:    vk.PrimitiveTopologyTriangleList,
		CullMode:    vk.CullModeBackBit,
		FrontFace:   vk.FrontFaceCounterClockwise,
		PolygonMode: vk.PolygonModeFill,
	}
}

func (g *GraphicsPipelineConfig) AddShader(shader *ShaderModule) *GraphicsPipelineConfig {
	g.Shaders = append(g.Shaders, shader)
	return g
}

func (g *GraphicsPipelineConfig) SetVertexInput(bindings []vk.VertexInputBindingDescription, attributes []vk.VertexInputAttributeDescription) *GraphicsPipelineConfig {
	g.VertexBindings = bindings
	g.VertexAttributes = attributes
	return g
}

func (g *GraphicsPipelineConfig) SetExtent(extent vk.Extent2D) *GraphicsPipelineConfig {
	g.Extent = extent
	return g
}

func (g *GraphicsPipelineConfig) EnableDepth() *GraphicsPipelineConfig {
	g.DepthTest = true
	g.DepthWrite = true
	return g
}

// Validate checks the config is complete enough to create a pipeline.
func (g *GraphicsPipelineConfig) Validate() error {
	var hasVertex, hasFragment bool
	for _, s := range g.Shaders {
		switch s.Stage {
		case vk.ShaderStageVertexBit:
			hasVertex = true
		case vk.ShaderStageFragmentBit:
			hasFragment = true
		}
	}
	if !hasVertex {
		return errors.New("pipeline config has no vertex shader")
	}
	if !hasFragment {
		return errors.New("pipeline config has no fragment shader")
	}
	if g.Extent.Width == 0 || g.Extent.Height == 0 {
		return errors.Newf("pipeline config has invalid extent %dx%d", g.Extent.Width, g.Extent.Height)
	}
	return nil
}

func (g *GraphicsPipelineConfig) vkShaderStages() []vk.PipelineShaderStageCreateInfo {
	stages := make([]vk.PipelineShaderStageCreateInfo, len(g.Shaders))
	for i, s := range g.Shaders {
		stages[i] = s.VKPipelineShaderStageCreateInfo()
	}
	return stages
}

func (g *GraphicsPipelineConfig) vkVertexInputState() vk.PipelineVertexInputStateCreateInfo {
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(g.VertexBindings)),
		PVertexBindingDescriptions:      g.VertexBindings,
		VertexAttributeDescriptionCount: uint32(len(g.VertexAttributes)),
		PVertexAttributeDescriptions:    g.VertexAttributes,
	}
}

func (g *GraphicsPipelineConfig) vkViewportState() vk.PipelineViewportStateCreateInfo {
	return vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports: []vk.Viewport{{
			Width:    float32(g.Extent.Width),
			Height:   float32(g.Extent.Height),
			MaxDepth: 1.0,
		}},
		ScissorCount: 1,
		PScissors: []vk.Rect2D{{
			Extent: g.Extent,
		}},
	}
}
