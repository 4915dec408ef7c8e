package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

type recordingRecorder struct {
	calls         []string
	indexCount    uint32
	instanceCount uint32
	indexType     vk.IndexType
}

func (r *recordingRecorder) BindPipeline(pipeline *GraphicsPipeline) {
	r.calls = append(r.calls, "pipeline")
}

func (r *recordingRecorder) BindVertexBuffer(buffer *Buffer) {
	r.calls = append(r.calls, "vertex")
}

func (r *recordingRecorder) BindIndexBuffer(buffer *Buffer, indexType vk.IndexType) {
	r.calls = append(r.calls, "index")
	r.indexType = indexType
}

func (r *recordingRecorder) BindDescriptorSet(layout *PipelineLayout, set *DescriptorSet, dynamicOffsets []uint32) {
	r.calls = append(r.calls, "descriptors")
}

func (r *recordingRecorder) PushConstants(layout *PipelineLayout, stages vk.ShaderStageFlagBits, data []byte) {
	r.calls = append(r.calls, "push")
}

func (r *recordingRecorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.calls = append(r.calls, "draw")
}

func (r *recordingRecorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	r.calls = append(r.calls, "drawIndexed")
	r.indexCount = indexCount
	r.instanceCount = instanceCount
}

func TestMeshDraw(t *testing.T) {
	// one triangle: exactly one vertex bind, one index bind, one indexed
	// draw of three indices
	mesh := &Mesh{
		VertexBuffer: &Buffer{},
		IndexBuffer:  &Buffer{},
		IndexCount:   3,
	}

	rec := &recordingRecorder{}
	mesh.Draw(rec)

	want := []string{"vertex", "index", "drawIndexed"}
	if len(rec.calls) != len(want) {
		t.Fatalf("recorded %v", rec.calls)
	}
	for i, c := range want {
		if rec.calls[i] != c {
			t.Fatalf("call %d is %s, want %s", i, rec.calls[i], c)
		}
	}

	if rec.indexCount != 3 {
		t.Errorf("drew %d indices", rec.indexCount)
	}
	if rec.instanceCount != 1 {
		t.Errorf("drew %d instances", rec.instanceCount)
	}
	if rec.indexType != vk.IndexTypeUint32 {
		t.Error("meshes index with uint32")
	}
}
