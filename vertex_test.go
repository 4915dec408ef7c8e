package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/linmath"
)

func TestVertexLayout(t *testing.T) {
	if VertexSize != 32 {
		t.Fatalf("vertex stride is %d bytes", VertexSize)
	}

	bindings := VertexBindingDescription()
	if len(bindings) != 1 || bindings[0].Stride != VertexSize {
		t.Fail()
	}

	attrs := VertexAttributeDescriptions()
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Offset != 0 || attrs[1].Offset != 12 || attrs[2].Offset != 24 {
		t.Errorf("attribute offsets %d %d %d", attrs[0].Offset, attrs[1].Offset, attrs[2].Offset)
	}
	if attrs[2].Format != vk.FormatR32g32Sfloat {
		t.Error("texcoord attribute should be a vec2")
	}
}

func TestVerticesToBytes(t *testing.T) {
	vertices := []Vertex{
		{Position: linmath.Vec3{1, 2, 3}},
		{Position: linmath.Vec3{4, 5, 6}},
	}

	b := VerticesToBytes(vertices)
	if len(b) != 2*int(VertexSize) {
		t.Fatalf("got %d bytes", len(b))
	}

	if VerticesToBytes(nil) != nil {
		t.Error("empty slice should yield nil")
	}
}

func TestIndicesToBytes(t *testing.T) {
	b := IndicesToBytes([]uint32{1, 2, 3})
	if len(b) != 12 {
		t.Fatalf("got %d bytes", len(b))
	}
	if b[0] != 1 || b[4] != 2 || b[8] != 3 {
		t.Errorf("unexpected index bytes % x", b)
	}
}
