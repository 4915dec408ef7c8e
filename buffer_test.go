package vkr

import (
	"strings"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestAllocationSize(t *testing.T) {
	if AllocationSize(256) != "256B" {
		t.Errorf("got %s", AllocationSize(256))
	}
	if !strings.HasSuffix(AllocationSize(2*1024*1024), "MB") {
		t.Errorf("got %s", AllocationSize(2*1024*1024))
	}
}

func TestBufferString(t *testing.T) {
	b := &Buffer{Size: 256, Usage: vk.BufferUsageVertexBufferBit}
	s := b.String()
	if !strings.Contains(s, "256B") {
		t.Errorf("size missing from %q", s)
	}
}
