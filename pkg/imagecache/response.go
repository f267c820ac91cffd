package imagecache

import "errors"

// ErrUncomparableReady is returned by ImageResponse.Equal when asked to
// compare two ImageReady values. The original's equality trait left this
// unimplemented ("fail!(~\"unimplemented comparison\")"); tests that need to
// assert readiness should type-switch and inspect the handle instead of
// comparing two ImageReady values for equality.
var ErrUncomparableReady = errors.New("imagecache: comparing two ImageReady values is not supported")

// ImageResponse is the sealed result of GetImage or WaitForImage.
type ImageResponse interface {
	isImageResponse()

	// Equal reports whether two responses are equivalent. Equality is
	// only defined for ImageNotReady and ImageFailed; comparing two
	// ImageReady values returns ErrUncomparableReady.
	Equal(other ImageResponse) (bool, error)
}

// ImageReadyResponse carries a decoded, ready-to-paint image handle.
type ImageReadyResponse struct {
	Image *ImageHandle
}

// ImageNotReadyResponse indicates the image is still being fetched or
// decoded.
type ImageNotReadyResponse struct{}

// ImageFailedResponse indicates the URL is permanently poisoned: the fetch
// or the decode failed.
type ImageFailedResponse struct{}

func (ImageReadyResponse) isImageResponse()    {}
func (ImageNotReadyResponse) isImageResponse() {}
func (ImageFailedResponse) isImageResponse()   {}

func (r ImageReadyResponse) Equal(other ImageResponse) (bool, error) {
	if _, ok := other.(ImageReadyResponse); ok {
		return false, ErrUncomparableReady
	}
	return false, nil
}

func (r ImageNotReadyResponse) Equal(other ImageResponse) (bool, error) {
	_, ok := other.(ImageNotReadyResponse)
	return ok, nil
}

func (r ImageFailedResponse) Equal(other ImageResponse) (bool, error) {
	_, ok := other.(ImageFailedResponse)
	return ok, nil
}
