package imagecache

import (
	"bytes"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns raw bytes into a decoded image, or reports failure. It is
// invoked at most once per URL by a decode worker.
type Decoder func(data []byte) (stdimage.Image, error)

// DecoderFactory is supplied once at cache construction and is called to
// produce a fresh Decoder per decode invocation. Separating factory from decoder
// lets test harnesses inject gating (a decoder that blocks until released)
// without affecting other URLs' decoders.
type DecoderFactory func() Decoder

// DefaultDecoderFactory wraps the standard library's format-sniffing
// image.Decode, extended with golang.org/x/image's WebP, BMP, and TIFF
// decoders via blank import, matching the original's load_from_memory.
func DefaultDecoderFactory() DecoderFactory {
	return func() Decoder {
		return func(data []byte) (stdimage.Image, error) {
			img, _, err := stdimage.Decode(bytes.NewReader(data))
			return img, err
		}
	}
}
