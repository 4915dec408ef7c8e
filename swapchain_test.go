package vkr

import (
	"math"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSwapchainExtentFixed(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent: vk.Extent2D{Width: 800, Height: 600},
	}

	// when the surface dictates an extent the desired one is ignored
	got := ChooseSwapchainExtent(caps, vk.Extent2D{Width: 1, Height: 1})
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("got %dx%d", got.Width, got.Height)
	}
}

func TestChooseSwapchainExtentClamped(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 2000, Height: 2000},
	}

	got := ChooseSwapchainExtent(caps, vk.Extent2D{Width: 800, Height: 600})
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("in-range extent changed to %dx%d", got.Width, got.Height)
	}

	got = ChooseSwapchainExtent(caps, vk.Extent2D{Width: 10, Height: 9000})
	if got.Width != 100 || got.Height != 2000 {
		t.Errorf("clamping failed, got %dx%d", got.Width, got.Height)
	}
}

func TestChooseImageCount(t *testing.T) {
	caps := &vk.SurfaceCapabilities{MinImageCount: 2}
	if ChooseImageCount(caps) != 3 {
		t.Error("expected one image beyond the minimum")
	}

	caps = &vk.SurfaceCapabilities{MinImageCount: 3, MaxImageCount: 3}
	if ChooseImageCount(caps) != 3 {
		t.Error("expected the count capped at the surface maximum")
	}

	// MaxImageCount of zero means unbounded
	caps = &vk.SurfaceCapabilities{MinImageCount: 4, MaxImageCount: 0}
	if ChooseImageCount(caps) != 5 {
		t.Fail()
	}
}

func TestFramebufferOutOfRange(t *testing.T) {
	s := &Swapchain{framebuffers: []*Framebuffer{{}, {}}}

	fb, err := s.Framebuffer(1)
	if err != nil || fb == nil {
		t.Fatal("in-range index failed")
	}

	_, err = s.Framebuffer(2)
	if err == nil {
		t.Error("expected an error for an out of range index")
	}
}

func TestClassifyAcquireResult(t *testing.T) {
	suboptimal, outOfDate, err := classifyAcquireResult(vk.Success)
	if suboptimal || outOfDate || err != nil {
		t.Error("success misclassified")
	}

	suboptimal, outOfDate, err = classifyAcquireResult(vk.Suboptimal)
	if !suboptimal || outOfDate || err != nil {
		t.Error("a suboptimal image is still renderable")
	}

	suboptimal, outOfDate, err = classifyAcquireResult(vk.ErrorOutOfDate)
	if suboptimal || !outOfDate || err != nil {
		t.Error("out of date must ask for recreation, not fail")
	}

	_, _, err = classifyAcquireResult(vk.ErrorDeviceLost)
	if err == nil {
		t.Error("a lost device must surface as an error")
	}

	_, _, err = classifyAcquireResult(vk.Timeout)
	if err == nil {
		t.Error("an acquire timeout must surface as an error")
	}
}
