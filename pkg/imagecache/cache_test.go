package imagecache

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/tinyland/imagecache/pkg/resource"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encodePNG: %v", err)
	}
	return buf.Bytes()
}

// gate lets a test hold a mock fetch (and so StorePrefetchedImageData) until
// released, mirroring the original's test harness for exercising the
// Prefetching window explicitly.
type gate struct {
	mu       sync.Mutex
	released bool
	cond     *sync.Cond
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *gate) release() {
	g.mu.Lock()
	g.released = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

func (g *gate) wait() {
	g.mu.Lock()
	for !g.released {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

func gatedMockService(g *gate, data []byte, fetchErr error) *resource.MockService {
	return resource.NewMockService(resource.WithOnLoad(func(url string, responder chan<- resource.Event) {
		g.wait()
		if fetchErr != nil {
			responder <- resource.Done{Err: fetchErr}
			return
		}
		if len(data) > 0 {
			responder <- resource.Payload{Data: data}
		}
		responder <- resource.Done{Err: nil}
	}))
}

func mustReady(t *testing.T, resp ImageResponse) ImageReadyResponse {
	t.Helper()
	ready, ok := resp.(ImageReadyResponse)
	if !ok {
		t.Fatalf("expected ImageReadyResponse, got %T", resp)
	}
	return ready
}

func TestShouldExitCleanlyOnExitWithNoPendingWork(t *testing.T) {
	rs := resource.NewMockService()
	cache := New(rs)
	cache.Exit()
}

func TestShouldExitOnlyAfterPrefetchingQuiesces(t *testing.T) {
	g := newGate()
	rs := gatedMockService(g, encodePNG(t, 2, 2, color.White), nil)
	cache := New(rs)

	cache.Prefetch("http://example.com/a.png")

	exited := make(chan struct{})
	go func() {
		cache.Exit()
		close(exited)
	}()

	select {
	case <-exited:
		t.Fatal("Exit returned while a prefetch was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	g.release()

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("Exit never returned after prefetch quiesced")
	}
}

func TestGetImageReturnsNotReadyWhileFetchInFlight(t *testing.T) {
	g := newGate()
	rs := gatedMockService(g, encodePNG(t, 2, 2, color.White), nil)
	cache := New(rs)

	url := "http://example.com/b.png"
	cache.Prefetch(url)
	cache.Decode(url)

	resp := cache.GetImage(url)
	if _, ok := resp.(ImageNotReadyResponse); !ok {
		t.Fatalf("expected ImageNotReadyResponse while in flight, got %T", resp)
	}

	g.release()
	ready := mustReady(t, cache.WaitForImage(url))
	if ready.Image == nil {
		t.Fatal("expected a decoded image handle")
	}

	cache.Exit()
}

func TestWaitForImageSeesFailureOnFetchError(t *testing.T) {
	g := newGate()
	rs := gatedMockService(g, nil, errors.New("boom"))
	cache := New(rs)

	url := "http://example.com/broken.png"
	cache.Prefetch(url)
	cache.Decode(url)

	done := make(chan ImageResponse, 1)
	go func() { done <- cache.WaitForImage(url) }()

	g.release()

	select {
	case resp := <-done:
		if _, ok := resp.(ImageFailedResponse); !ok {
			t.Fatalf("expected ImageFailedResponse, got %T", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForImage never returned")
	}

	cache.Exit()
}

func TestWaitForImageSeesFailureOnDecodeError(t *testing.T) {
	rs := resource.NewMockService(resource.WithOnLoad(func(_ string, responder chan<- resource.Event) {
		responder <- resource.Payload{Data: []byte("not an image")}
		responder <- resource.Done{Err: nil}
	}))
	cache := New(rs)

	url := "http://example.com/garbage.png"
	cache.Prefetch(url)
	cache.Decode(url)

	resp := cache.WaitForImage(url)
	if _, ok := resp.(ImageFailedResponse); !ok {
		t.Fatalf("expected ImageFailedResponse for undecodable bytes, got %T", resp)
	}

	cache.Exit()
}

func TestAtMostOneLoadPerURL(t *testing.T) {
	rs := resource.NewMockService()
	cache := New(rs)

	url := "http://example.com/once.png"
	cache.Prefetch(url)
	cache.Prefetch(url)
	cache.Prefetch(url)
	cache.Decode(url)

	cache.WaitForImage(url)
	cache.Exit()

	if n := rs.LoadCount(url); n != 1 {
		t.Fatalf("Load called %d times for one URL, want 1", n)
	}
}

func TestMultipleWaitersAllSettleOnSameURL(t *testing.T) {
	g := newGate()
	rs := gatedMockService(g, encodePNG(t, 3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), nil)
	cache := New(rs)

	url := "http://example.com/shared.png"
	cache.Prefetch(url)
	cache.Decode(url)

	const waiters = 5
	results := make(chan ImageResponse, waiters)
	for i := 0; i < waiters; i++ {
		go func() { results <- cache.WaitForImage(url) }()
	}

	time.Sleep(20 * time.Millisecond)
	g.release()

	for i := 0; i < waiters; i++ {
		select {
		case resp := <-results:
			mustReady(t, resp)
		case <-time.After(2 * time.Second):
			t.Fatal("a waiter never settled")
		}
	}

	cache.Exit()
}

func TestSyncCacheGetImageBlocksUntilReady(t *testing.T) {
	g := newGate()
	rs := gatedMockService(g, encodePNG(t, 2, 2, color.White), nil)
	cache := New(rs)
	sc := NewSynchronousCache(cache)

	url := "http://example.com/sync.png"
	cache.Prefetch(url)
	cache.Decode(url)

	done := make(chan ImageResponse, 1)
	go func() { done <- sc.GetImage(url) }()

	select {
	case <-done:
		t.Fatal("synchronous GetImage returned before data was released")
	case <-time.After(30 * time.Millisecond):
	}

	g.release()

	select {
	case resp := <-done:
		mustReady(t, resp)
	case <-time.After(2 * time.Second):
		t.Fatal("synchronous GetImage never returned")
	}

	sc.Exit()
}
