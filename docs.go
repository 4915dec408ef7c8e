/*
Package vkr implements the resource and frame lifecycle layer of a Vulkan
renderer for Go. Vulkan leaves everything OpenGL used to manage up to the
application: where data lives, how it moves between host and device memory,
and when the CPU is allowed to touch memory the GPU may still be reading.
This package owns exactly that slice of the problem and nothing more.

What the package manages

	Instance/Device	selecting a physical adapter, creating the logical
			device and one queue per operation class
	Buffers		host-mapped buffers for uniform data and device-local
			buffers populated through a staged upload
	Images		depth attachments and staged sampled textures, each
			image owning its memory allocation
	Swapchain	the presentable image chain, its views and framebuffers,
			and the acquire/present operations that drive a frame
	Frame ring	N frame slots, each with a fence, two semaphores, its
			own command pool and buffer, a region of a shared
			uniform buffer and a descriptor set bound to it, all
			reused every N-th frame once the GPU signals the
			slot's fence

What it deliberately does not do: window creation and input (the caller
hands in a vk.Surface), shader compilation and pipeline state beyond a
builder for the common case, asset loading (the package consumes raw vertex
and index bytes), and any per-frame decision about what to draw - the frame
ring calls back into the application with a command recorder and the
application supplies the draw list.

Every wrapper object exposes its native Vulkan handle in a field prefixed
with VK, so applications are never limited by what this package wraps; when
an API here is too narrow, drop down to github.com/vulkan-go/vulkan and use
the handle directly.

Ownership is explicit throughout. Each object has a Destroy method and the
caller destroys in reverse creation order; the Renderer type does this for
everything it created itself. There is no reference counting and no
finalizer magic - exactly like Vulkan itself.
*/
package vkr
