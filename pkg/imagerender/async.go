package imagerender

import (
	"sync"

	"github.com/tinyland/imagecache/pkg/imagecache"
)

// defaultWorkers is the number of concurrent render goroutines.
const defaultWorkers = 2

// renderJob is an internal unit of work for the async pool.
type renderJob struct {
	handle   *imagecache.ImageHandle
	width    int
	height   int
	callback func(string, error)
}

// AsyncRenderer manages a bounded goroutine pool for non-blocking terminal
// rendering, so a TUI event loop polling imagecache.Cache.GetImage never
// blocks on Renderer.Render itself.
type AsyncRenderer struct {
	renderer *Renderer
	jobs     chan renderJob
	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}
}

// NewAsyncRenderer creates an async wrapper around a Renderer with a
// bounded goroutine pool. The pool starts immediately.
func NewAsyncRenderer(r *Renderer) *AsyncRenderer {
	return NewAsyncRendererWithWorkers(r, defaultWorkers)
}

// NewAsyncRendererWithWorkers creates an async renderer with a specific
// number of workers.
func NewAsyncRendererWithWorkers(r *Renderer, workers int) *AsyncRenderer {
	if workers <= 0 {
		workers = defaultWorkers
	}

	ar := &AsyncRenderer{
		renderer: r,
		jobs:     make(chan renderJob, workers*4),
		stop:     make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}

	return ar
}

// RenderAsync submits a settled image handle for asynchronous rendering.
// The callback is invoked from a worker goroutine when rendering completes
// or fails. Returns a cancel function that suppresses the callback
// best-effort; an already-started render still completes, but the
// callback will not fire after cancel.
//
// This method never blocks the caller beyond a channel send.
func (ar *AsyncRenderer) RenderAsync(handle *imagecache.ImageHandle, width, height int, callback func(string, error)) func() {
	cancelled := make(chan struct{})

	wrappedCallback := func(result string, err error) {
		select {
		case <-cancelled:
			return
		default:
			callback(result, err)
		}
	}

	job := renderJob{
		handle:   handle,
		width:    width,
		height:   height,
		callback: wrappedCallback,
	}

	// Non-blocking send: if the job queue is full, run synchronously in a
	// new goroutine to avoid blocking the caller's event loop.
	select {
	case ar.jobs <- job:
	default:
		go func() {
			result, err := ar.renderer.Render(handle, width, height)
			wrappedCallback(result, err)
		}()
	}

	return func() {
		close(cancelled)
	}
}

// Close shuts down the worker pool. It signals all workers to stop and
// waits for in-flight jobs to complete.
func (ar *AsyncRenderer) Close() {
	ar.stopOnce.Do(func() {
		close(ar.stop)
		close(ar.jobs)
		ar.wg.Wait()
	})
}

// worker processes jobs from the queue until the pool is closed.
func (ar *AsyncRenderer) worker() {
	defer ar.wg.Done()

	for {
		select {
		case <-ar.stop:
			for job := range ar.jobs {
				result, err := ar.renderer.Render(job.handle, job.width, job.height)
				job.callback(result, err)
			}
			return
		case job, ok := <-ar.jobs:
			if !ok {
				return
			}
			result, err := ar.renderer.Render(job.handle, job.width, job.height)
			job.callback(result, err)
		}
	}
}
