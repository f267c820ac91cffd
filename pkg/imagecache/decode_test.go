package imagecache

import (
	"bytes"
	"image/png"
	"testing"
)

func TestDefaultDecoderFactoryDecodesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(t, 3, 3)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	decoder := DefaultDecoderFactory()()
	img, err := decoder(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Fatalf("decoded bounds = %v, want 3x3", b)
	}
}

func TestDefaultDecoderFactoryRejectsGarbage(t *testing.T) {
	decoder := DefaultDecoderFactory()()
	if _, err := decoder([]byte("not an image")); err == nil {
		t.Fatal("expected an error decoding non-image bytes")
	}
}

func TestDecoderFactoryProducesIndependentDecoders(t *testing.T) {
	factory := DefaultDecoderFactory()
	d1 := factory()
	d2 := factory()

	var buf bytes.Buffer
	png.Encode(&buf, solidImage(t, 5, 5))

	if _, err := d1(buf.Bytes()); err != nil {
		t.Fatalf("d1: %v", err)
	}
	if _, err := d2(buf.Bytes()); err != nil {
		t.Fatalf("d2: %v", err)
	}
}
