package imagecache

import "testing"

func TestNotReadyEqualsNotReady(t *testing.T) {
	eq, err := ImageNotReadyResponse{}.Equal(ImageNotReadyResponse{})
	if err != nil || !eq {
		t.Fatalf("Equal = (%v, %v), want (true, nil)", eq, err)
	}
}

func TestFailedEqualsFailed(t *testing.T) {
	eq, err := ImageFailedResponse{}.Equal(ImageFailedResponse{})
	if err != nil || !eq {
		t.Fatalf("Equal = (%v, %v), want (true, nil)", eq, err)
	}
}

func TestNotReadyDoesNotEqualFailed(t *testing.T) {
	eq, err := ImageNotReadyResponse{}.Equal(ImageFailedResponse{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq {
		t.Fatal("ImageNotReady must not equal ImageFailed")
	}
}

func TestComparingTwoReadyResponsesIsUncomparable(t *testing.T) {
	a := ImageReadyResponse{Image: NewImageHandle(solidImage(t, 1, 1))}
	b := ImageReadyResponse{Image: NewImageHandle(solidImage(t, 1, 1))}

	_, err := a.Equal(b)
	if err != ErrUncomparableReady {
		t.Fatalf("expected ErrUncomparableReady, got %v", err)
	}
}
