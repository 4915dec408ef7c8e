package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// OperationType names the classes of work a queue family can be selected
// for. It is a closed set; LookupOperationType rejects anything else.
type OperationType int

const (
	OperationGraphics OperationType = iota
	OperationCompute
	OperationPresent
)

func (o OperationType) String() string {
	switch o {
	case OperationGraphics:
		return "graphics"
	case OperationCompute:
		return "compute"
	case OperationPresent:
		return "present"
	}
	return "unknown"
}

// LookupOperationType maps a name to its OperationType.
func LookupOperationType(name string) (OperationType, error) {
	switch name {
	case "graphics":
		return OperationGraphics, nil
	case "compute":
		return OperationCompute, nil
	case "present":
		return OperationPresent, nil
	}
	return 0, errors.Newf("unknown operation type '%s'", name)
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) SupportsGraphics() bool {
	return vk.QueueFlagBits(q.VKQueueFamilyProperties.QueueFlags)&vk.QueueGraphicsBit != 0
}

func (q *QueueFamily) SupportsCompute() bool {
	return vk.QueueFlagBits(q.VKQueueFamilyProperties.QueueFlags)&vk.QueueComputeBit != 0
}

func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var supported vk.Bool32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &supported))
	if err != nil {
		return false
	}
	return supported == vk.True
}

// Supports reports whether this family can serve the given operation. The
// surface is only consulted for OperationPresent and may be a zero handle
// otherwise.
func (q *QueueFamily) Supports(op OperationType, surface vk.Surface) bool {
	switch op {
	case OperationGraphics:
		return q.SupportsGraphics()
	case OperationCompute:
		return q.SupportsCompute()
	case OperationPresent:
		return q.SupportsPresent(surface)
	}
	return false
}

type QueueFamilySlice []*QueueFamily

func (q QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make(QueueFamilySlice, 0)
	for _, qf := range q {
		if f(qf) {
			ret = append(ret, qf)
		}
	}
	return ret
}

func (q QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return q.Filter(func(q *QueueFamily) bool { return q.SupportsGraphics() })
}

func (q QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return q.Filter(func(q *QueueFamily) bool { return q.SupportsCompute() })
}

func (q QueueFamilySlice) FilterPresent(surface vk.Surface) QueueFamilySlice {
	return q.Filter(func(q *QueueFamily) bool { return q.SupportsPresent(surface) })
}

// SelectForOperation returns the first family capable of op, or an error
// when the device offers none.
func (q QueueFamilySlice) SelectForOperation(op OperationType, surface vk.Surface) (*QueueFamily, error) {
	for _, qf := range q {
		if qf.Supports(op, surface) {
			return qf, nil
		}
	}
	return nil, errors.Newf("no queue family supports %s operations", op)
}

// QueueFamilyIndices records the family chosen for each operation class.
// Families may coincide; Unique collapses duplicates for device creation.
type QueueFamilyIndices struct {
	Graphics uint32
	Compute  uint32
	Present  uint32
}

// FindQueueFamilyIndices picks a family for every operation class.
func FindQueueFamilyIndices(families QueueFamilySlice, surface vk.Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	g, err := families.SelectForOperation(OperationGraphics, surface)
	if err != nil {
		return indices, err
	}
	c, err := families.SelectForOperation(OperationCompute, surface)
	if err != nil {
		return indices, err
	}
	p, err := families.SelectForOperation(OperationPresent, surface)
	if err != nil {
		return indices, err
	}

	indices.Graphics = uint32(g.Index)
	indices.Compute = uint32(c.Index)
	indices.Present = uint32(p.Index)
	return indices, nil
}

// Unique returns the distinct family indices in first-seen order.
func (q QueueFamilyIndices) Unique() []uint32 {
	seen := make(map[uint32]bool)
	ret := make([]uint32, 0, 3)
	for _, idx := range []uint32{q.Graphics, q.Compute, q.Present} {
		if !seen[idx] {
			seen[idx] = true
			ret = append(ret, idx)
		}
	}
	return ret
}

// For returns the family index recorded for op.
func (q QueueFamilyIndices) For(op OperationType) uint32 {
	switch op {
	case OperationCompute:
		return q.Compute
	case OperationPresent:
		return q.Present
	}
	return q.Graphics
}
