package vkr

import (
	"unsafe"

	"github.com/xlab/linmath"
	vk "github.com/vulkan-go/vulkan"
)

// Vertex is the interleaved layout the default pipelines consume:
// position, color and texture coordinates, tightly packed.
type Vertex struct {
	Position linmath.Vec3
	Color    linmath.Vec3
	TexCoord linmath.Vec2
}

// VertexSize is the stride of one Vertex in bytes.
const VertexSize = uint32(unsafe.Sizeof(Vertex{}))

// VertexBindingDescription describes the single interleaved binding.
func VertexBindingDescription() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    VertexSize,
		InputRate: vk.VertexInputRateVertex,
	}}
}

// VertexAttributeDescriptions describes locations 0..2 of the layout.
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Position)),
		},
		{
			Location: 1,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
		{
			Location: 2,
			Binding:  0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.TexCoord)),
		},
	}
}

// VerticesToBytes exposes the vertex slice as raw bytes for upload.
func VerticesToBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return ToBytes(unsafe.Pointer(&vertices[0]), len(vertices)*int(VertexSize))
}

// IndicesToBytes exposes a uint32 index slice as raw bytes for upload.
func IndicesToBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return ToBytes(unsafe.Pointer(&indices[0]), len(indices)*4)
}
