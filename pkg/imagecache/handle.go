package imagecache

import (
	"image"
	"sync/atomic"
)

// ImageHandle is a reference-counted snapshot of a decoded image. Cloning a
// handle is cheap (an atomic increment and a struct copy); it never
// duplicates pixel memory, matching the original's ARC<~Image> semantics.
//
// The reference count is informational: Go's garbage collector still owns
// the underlying image.Image's lifetime. SizeBoundedEvictor (eviction.go)
// does not consult Refs: it forgets URLs in LRU order whether or not a
// consumer still holds a clone of the handle.
type ImageHandle struct {
	img     image.Image
	refs    *atomic.Int64
	width   int
	height  int
}

// NewImageHandle wraps a decoded image in a fresh handle with a reference
// count of one.
func NewImageHandle(img image.Image) *ImageHandle {
	refs := &atomic.Int64{}
	refs.Store(1)

	b := img.Bounds()
	return &ImageHandle{
		img:    img,
		refs:   refs,
		width:  b.Dx(),
		height: b.Dy(),
	}
}

// Clone returns an independent owner of the same underlying image,
// incrementing the shared reference count.
func (h *ImageHandle) Clone() *ImageHandle {
	h.refs.Add(1)
	return &ImageHandle{
		img:    h.img,
		refs:   h.refs,
		width:  h.width,
		height: h.height,
	}
}

// Release decrements the reference count. It is safe to call at most once
// per handle obtained from NewImageHandle or Clone; it returns the
// remaining count.
func (h *ImageHandle) Release() int64 {
	return h.refs.Add(-1)
}

// Refs returns the current live reference count across all clones.
func (h *ImageHandle) Refs() int64 {
	return h.refs.Load()
}

// Image returns the underlying decoded image. Callers must not mutate it;
// it is shared across every clone.
func (h *ImageHandle) Image() image.Image {
	return h.img
}

// Bounds returns the decoded image's pixel dimensions.
func (h *ImageHandle) Bounds() (width, height int) {
	return h.width, h.height
}
