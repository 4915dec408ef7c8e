package vkr

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// OptimalSurfaceFormat and OptimalColorSpace are preferred when rating and
// configuring a device; any device still works without them, just scored
// lower.
const (
	OptimalSurfaceFormat = vk.FormatB8g8r8a8Srgb
	OptimalColorSpace    = vk.ColorSpaceSrgbNonlinear
)

type VKPresentModes []vk.PresentMode

func (v VKPresentModes) Filter(f vk.PresentMode) VKPresentModes {
	ret := make(VKPresentModes, 0)
	for _, s := range v {
		if f == s {
			ret = append(ret, s)
		}
	}
	return ret
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, errors.Wrapf(err, "vkGetPhysicalDeviceSurfacePresentModes")
	}

	f := make([]vk.PresentMode, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, errors.Wrapf(err, "vkGetPhysicalDeviceSurfacePresentModes")
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, errors.Wrapf(err, "vkGetPhysicalDeviceSurfaceFormats")
	}

	f := make([]vk.SurfaceFormat, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, errors.Wrapf(err, "vkGetPhysicalDeviceSurfaceFormats")
	}

	for i := range f {
		f[i].Deref()
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, errors.Wrapf(err, "vkGetPhysicalDeviceSurfaceCapabilities")
	}
	caps.Deref()

	return &caps, nil
}

// ChooseSurfaceFormat picks the optimal sRGB format from the given list
// when present, otherwise the first advertised format.
func ChooseSurfaceFormat(formats VKSurfaceFormats) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == OptimalSurfaceFormat && f.ColorSpace == OptimalColorSpace {
			return f
		}
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox for low latency and falls back to
// fifo, which every conforming device supports.
func ChoosePresentMode(modes VKPresentModes) vk.PresentMode {
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	return vk.PresentModeFifo
}

// RatePhysicalDevice scores an adapter by its type, whether it offers the
// optimal surface format, and its best available present mode. Discrete
// GPUs beat integrated ones which beat everything else.
func RatePhysicalDevice(deviceType vk.PhysicalDeviceType, formats VKSurfaceFormats, modes VKPresentModes) int {
	score := 0

	switch deviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		score += 100
	case vk.PhysicalDeviceTypeIntegratedGpu:
		score += 25
	}

	if len(formats) > 0 {
		f := ChooseSurfaceFormat(formats)
		if f.Format == OptimalSurfaceFormat && f.ColorSpace == OptimalColorSpace {
			score += 100
		} else {
			score += 25
		}
	}

	switch ChoosePresentMode(modes) {
	case vk.PresentModeMailbox:
		score += 100
	case vk.PresentModeFifo:
		score += 25
	}

	return score
}

// Score rates this adapter for presentation to the given surface.
func (p *PhysicalDevice) Score(surface vk.Surface) int {
	formats, err := p.GetSurfaceFormats(surface)
	if err != nil {
		return 0
	}
	modes, err := p.GetSurfacePresentModes(surface)
	if err != nil {
		return 0
	}
	return RatePhysicalDevice(p.VKPhysicalDeviceProperties.DeviceType, formats, modes)
}

// SelectPhysicalDevice returns the highest scoring adapter from devices,
// or an error when the list is empty.
func SelectPhysicalDevice(devices []*PhysicalDevice, surface vk.Surface) (*PhysicalDevice, error) {
	if len(devices) == 0 {
		return nil, errors.New("the system has no suitable physical devices")
	}

	best := devices[0]
	bestScore := best.Score(surface)
	for _, d := range devices[1:] {
		if s := d.Score(surface); s > bestScore {
			best, bestScore = d, s
		}
	}
	return best, nil
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {

		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}

		ret[i].VKQueueFamilyProperties.Deref()

	}

	return ret, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDeviceWithOptions creates the logical device with one queue
// per unique queue family in indices.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(indices QueueFamilyIndices, options *CreateDeviceOptions) (*Device, error) {

	unique := indices.Unique()

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for j, familyIndex := range unique {

		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: familyIndex,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}

	}

	deviceFeatures := p.VKPhysicalDeviceFeatures()

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{deviceFeatures},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device

	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateDevice")
	}

	device := &Device{
		PhysicalDevice:     p,
		VKDevice:           ldevice,
		QueueFamilyIndices: indices,
	}
	device.initQueues()

	return device, nil
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	return deviceFeatures
}

// MinUniformBufferOffsetAlignment reports the device limit governing
// dynamic uniform buffer offsets.
func (p *PhysicalDevice) MinUniformBufferOffsetAlignment() uint64 {
	p.VKPhysicalDeviceProperties.Deref()
	p.VKPhysicalDeviceProperties.Limits.Deref()
	return uint64(p.VKPhysicalDeviceProperties.Limits.MinUniformBufferOffsetAlignment)
}

// MemoryTypes returns the device's memory type table.
func (p *PhysicalDevice) MemoryTypes() []vk.MemoryType {
	mp := p.VKPhysicalDeviceMemoryProperties()
	mp.Deref()

	ret := make([]vk.MemoryType, 0)

	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret = append(ret, mt)
	}
	return ret
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties

	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	return memoryProperties
}

// FindMemoryTypeIndex scans memoryTypes for the lowest indexed type whose
// bit is set in memoryTypeBits and whose property flags are a superset of
// properties. Failure means the running device cannot satisfy the resource
// at all, so callers treat the error as fatal rather than retrying.
func FindMemoryTypeIndex(memoryTypes []vk.MemoryType, memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	for i := range memoryTypes {
		if memoryTypeBits&(1<<uint32(i)) != 0 &&
			vk.MemoryPropertyFlagBits(memoryTypes[i].PropertyFlags)&properties == properties {
			return uint32(i), nil
		}
	}
	return 0, errors.Newf("no memory type matches bits 0x%x with properties 0x%x", memoryTypeBits, properties)
}

// FindMemoryType selects a memory type index on this device.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	return FindMemoryTypeIndex(p.MemoryTypes(), memoryTypeBits, properties)
}

func (p *PhysicalDevice) SupportedExtensions() ([]vk.ExtensionProperties, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, errors.Wrapf(err, "vkEnumerateDeviceExtensionProperties")
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, errors.Wrapf(err, "vkEnumerateDeviceExtensionProperties")
	}
	return ext, nil
}
