package vkr

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestLookupOperationType(t *testing.T) {
	for _, name := range []string{"graphics", "compute", "present"} {
		op, err := LookupOperationType(name)
		if err != nil {
			t.Fatal(err)
		}
		if op.String() != name {
			t.Errorf("round trip broke: %s != %s", op, name)
		}
	}

	_, err := LookupOperationType("transfer")
	if err == nil {
		t.Error("expected an error for an unknown operation name")
	}
}

func family(index int, flags vk.QueueFlagBits) *QueueFamily {
	return &QueueFamily{
		Index: index,
		VKQueueFamilyProperties: vk.QueueFamilyProperties{
			QueueFlags: vk.QueueFlags(flags),
		},
	}
}

func TestQueueFamilyFilters(t *testing.T) {
	families := QueueFamilySlice{
		family(0, vk.QueueGraphicsBit|vk.QueueComputeBit),
		family(1, vk.QueueComputeBit),
		family(2, vk.QueueTransferBit),
	}

	g := families.FilterGraphics()
	if len(g) != 1 || g[0].Index != 0 {
		t.Errorf("graphics filter returned %d families", len(g))
	}

	c := families.FilterCompute()
	if len(c) != 2 {
		t.Errorf("compute filter returned %d families", len(c))
	}
}

func TestSelectForOperation(t *testing.T) {
	families := QueueFamilySlice{
		family(0, vk.QueueTransferBit),
		family(1, vk.QueueGraphicsBit),
	}

	qf, err := families.SelectForOperation(OperationGraphics, vk.NullSurface)
	if err != nil {
		t.Fatal(err)
	}
	if qf.Index != 1 {
		t.Errorf("expected family 1, got %d", qf.Index)
	}

	_, err = families.SelectForOperation(OperationCompute, vk.NullSurface)
	if err == nil {
		t.Error("expected an error when no family supports the operation")
	}
}

func TestQueueFamilyIndicesUnique(t *testing.T) {
	indices := QueueFamilyIndices{Graphics: 0, Compute: 0, Present: 0}
	if got := indices.Unique(); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected a single unique index, got %v", got)
	}

	indices = QueueFamilyIndices{Graphics: 0, Compute: 1, Present: 0}
	got := indices.Unique()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("expected [0 1] in first-seen order, got %v", got)
	}
}

func TestQueueFamilyIndicesFor(t *testing.T) {
	indices := QueueFamilyIndices{Graphics: 0, Compute: 1, Present: 2}
	if indices.For(OperationGraphics) != 0 ||
		indices.For(OperationCompute) != 1 ||
		indices.For(OperationPresent) != 2 {
		t.Fail()
	}
}
