package vkr

import (
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ShaderModule struct {
	Device         *Device
	VKShaderModule vk.ShaderModule
	Stage          vk.ShaderStageFlagBits
	EntryPoint     string
}

// repackUint32 reinterprets SPIR-V bytes as the word slice the create
// info expects.
func repackUint32(data []byte) []uint32 {
	buf := make([]uint32, len(data)/4)
	for i := range buf {
		buf[i] = *(*uint32)(unsafe.Pointer(&data[i*4]))
	}
	return buf
}

// CreateShaderModule wraps SPIR-V code for the given stage.
func (d *Device) CreateShaderModule(code []byte, stage vk.ShaderStageFlagBits) (*ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Newf("SPIR-V code length %d is not a positive multiple of 4", len(code))
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    repackUint32(code),
	}

	var module vk.ShaderModule
	err := vk.Error(vk.CreateShaderModule(d.VKDevice, &createInfo, nil, &module))
	if err != nil {
		return nil, errors.Wrapf(err, "vkCreateShaderModule")
	}

	return &ShaderModule{
		Device:         d,
		VKShaderModule: module,
		Stage:          stage,
		EntryPoint:     "main",
	}, nil
}

// LoadShaderModule reads a SPIR-V file from disk and wraps it.
func (d *Device) LoadShaderModule(path string, stage vk.ShaderStageFlagBits) (*ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading shader '%s'", path)
	}
	return d.CreateShaderModule(code, stage)
}

// VKPipelineShaderStageCreateInfo builds the stage info for pipeline
// creation.
func (s *ShaderModule) VKPipelineShaderStageCreateInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  s.Stage,
		Module: s.VKShaderModule,
		PName:  safeString(s.EntryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}
