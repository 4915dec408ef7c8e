package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Mesh owns a device-local vertex and index buffer pair.
type Mesh struct {
	VertexBuffer *Buffer
	IndexBuffer  *Buffer
	IndexCount   uint32
}

// CreateMesh uploads the geometry into device-local buffers through a
// staging copy on pool.
func (d *Device) CreateMesh(vertices []Vertex, indices []uint32, pool *CommandPool) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("a mesh needs both vertices and indices")
	}

	vertexBuffer, err := d.CreateVertexBufferWithData(VerticesToBytes(vertices), pool)
	if err != nil {
		return nil, err
	}

	indexBuffer, err := d.CreateIndexBufferWithData(IndicesToBytes(indices), pool)
	if err != nil {
		vertexBuffer.Destroy()
		return nil, err
	}

	return &Mesh{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		IndexCount:   uint32(len(indices)),
	}, nil
}

// Draw records one indexed draw of the whole mesh.
func (m *Mesh) Draw(rec Recorder) {
	rec.BindVertexBuffer(m.VertexBuffer)
	rec.BindIndexBuffer(m.IndexBuffer, vk.IndexTypeUint32)
	rec.DrawIndexed(m.IndexCount, 1, 0, 0, 0)
}

func (m *Mesh) Destroy() {
	m.VertexBuffer.Destroy()
	m.IndexBuffer.Destroy()
}
