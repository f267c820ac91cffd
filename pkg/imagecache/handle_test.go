package imagecache

import (
	stdimage "image"
	"image/color"
	"image/draw"
	"testing"
)

func solidImage(t *testing.T, w, h int) stdimage.Image {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &stdimage.Uniform{color.NRGBA{R: 1, G: 2, B: 3, A: 255}}, stdimage.Point{}, draw.Src)
	return img
}

func TestNewImageHandleStartsAtOneRef(t *testing.T) {
	h := NewImageHandle(solidImage(t, 4, 4))
	if h.Refs() != 1 {
		t.Fatalf("Refs() = %d, want 1", h.Refs())
	}
}

func TestCloneSharesUnderlyingImageAndIncrementsRefs(t *testing.T) {
	h := NewImageHandle(solidImage(t, 4, 4))
	clone := h.Clone()

	if h.Refs() != 2 || clone.Refs() != 2 {
		t.Fatalf("expected both handles to report 2 refs, got h=%d clone=%d", h.Refs(), clone.Refs())
	}
	if h.Image() != clone.Image() {
		t.Fatal("Clone must share the same underlying image.Image, not copy pixels")
	}
}

func TestReleaseDecrementsSharedCount(t *testing.T) {
	h := NewImageHandle(solidImage(t, 2, 2))
	clone := h.Clone()

	if got := clone.Release(); got != 1 {
		t.Fatalf("Release() = %d, want 1", got)
	}
	if got := h.Release(); got != 0 {
		t.Fatalf("Release() = %d, want 0", got)
	}
}

func TestBoundsReflectsSourceImage(t *testing.T) {
	h := NewImageHandle(solidImage(t, 7, 5))
	w, hh := h.Bounds()
	if w != 7 || hh != 5 {
		t.Fatalf("Bounds() = (%d,%d), want (7,5)", w, hh)
	}
}
