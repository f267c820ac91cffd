package imagecache

import "testing"

func TestBufferTakeReturnsWrappedBytes(t *testing.T) {
	b := newPrefetchBuffer([]byte("hello"))
	if got := string(b.Take()); got != "hello" {
		t.Fatalf("Take() = %q, want %q", got, "hello")
	}
}

func TestBufferTakeTwicePanics(t *testing.T) {
	b := newPrefetchBuffer([]byte("hello"))
	b.Take()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on the second Take")
		}
	}()
	b.Take()
}
