package imagecache

import (
	"log/slog"

	"github.com/tinyland/imagecache/pkg/resource"
)

// actor owns all cache state and runs the single-threaded serial loop
// described in spec §4.2. Nothing outside this goroutine ever reads or
// writes state, waiters, pendingExit, or observers.
type actor struct {
	inbox          chan message
	resourceTask   resource.Service
	decoderFactory DecoderFactory
	logger         *slog.Logger

	state      stateMap
	waiters    waiterRegistry
	observers  []func(message)
	pendingExit chan<- struct{}
}

// run is the actor's main loop: receive, observe, dispatch, check for
// quiescent shutdown. It never returns except via the Exit path, matching
// "the actor suspends only at inbox receive."
func (a *actor) run() {
	for {
		msg := <-a.inbox

		for _, obs := range a.observers {
			obs(msg)
		}

		if a.dispatch(msg) {
			return
		}

		if a.pendingExit != nil && a.state.quiescent() {
			reply := a.pendingExit
			a.pendingExit = nil
			close(reply)
			return
		}
	}
}

// dispatch handles one message and returns true if the actor should stop
// immediately (only exitMsg, and only when already quiescent).
func (a *actor) dispatch(msg message) bool {
	switch m := msg.(type) {
	case prefetchMsg:
		a.prefetch(m.url)
	case decodeMsg:
		a.decode(m.url)
	case getImageMsg:
		a.getImage(m.url, m.reply)
	case waitForImageMsg:
		a.waitForImage(m.url, m.reply)
	case onMsgMsg:
		a.observers = append(a.observers, m.observer)
	case storePrefetchedMsg:
		a.storePrefetchedImageData(m.url, m.data, m.err)
	case storeImageMsg:
		a.storeImage(m.url, m.image)
	case forgetMsg:
		a.forget(m.url)
	case exitMsg:
		if a.pendingExit != nil {
			fatalf(a.logger, "Exit requested while one is already pending")
		}
		a.pendingExit = m.reply
		if a.state.quiescent() {
			reply := a.pendingExit
			a.pendingExit = nil
			close(reply)
			return true
		}
	}
	return false
}

func (a *actor) prefetch(url string) {
	s := a.state.get(url)
	if s.Kind != stateInit {
		// Already begun working on this image; idempotent no-op.
		return
	}

	a.logger.Debug("imagecache: started fetch", "url", url)
	a.state.set(url, prefetchingState(doNotDecode))
	go runPrefetchWorker(url, a.resourceTask, a.inbox)
}

func (a *actor) decode(url string) {
	s := a.state.get(url)
	switch s.Kind {
	case stateInit:
		fatalf(a.logger, "decoding image %q before prefetch", url)

	case statePrefetching:
		if s.Next == doNotDecode {
			a.state.set(url, prefetchingState(doDecode))
		}
		// doDecode already queued: no-op.

	case statePrefetched:
		data := s.Buffer.Take()
		decoder := a.decoderFactory()
		a.state.set(url, decodingState())
		a.logger.Debug("imagecache: started decode", "url", url)
		go runDecodeWorker(url, data, decoder, a.inbox)

	case stateDecoding, stateDecoded, stateFailed:
		// Already begun (or finished) decoding: no-op.
	}
}

func (a *actor) storePrefetchedImageData(url string, data *prefetchBuffer, fetchErr error) {
	s := a.state.get(url)
	if s.Kind != statePrefetching {
		fatalf(a.logger, "wrong state %s for storing prefetched image %q", s.Kind, url)
	}

	if fetchErr != nil {
		a.state.set(url, failedState())
		a.waiters.settle(url, func() ImageResponse { return ImageFailedResponse{} })
		return
	}

	if s.Next == doDecode {
		decoder := a.decoderFactory()
		a.state.set(url, decodingState())
		a.logger.Debug("imagecache: started decode", "url", url)
		go runDecodeWorker(url, data.Take(), decoder, a.inbox)
		return
	}

	a.state.set(url, prefetchedState(data))
}

func (a *actor) storeImage(url string, img *ImageHandle) {
	s := a.state.get(url)
	if s.Kind != stateDecoding {
		fatalf(a.logger, "wrong state %s for storing decoded image %q", s.Kind, url)
	}

	if img == nil {
		a.state.set(url, failedState())
		a.waiters.settle(url, func() ImageResponse { return ImageFailedResponse{} })
		return
	}

	a.state.set(url, decodedState(img))
	a.waiters.settle(url, func() ImageResponse {
		return ImageReadyResponse{Image: img.Clone()}
	})
}

// forget drops a settled URL back to Init. SizeBoundedEvictor posts this
// for its least-recently-settled URL; it does not check whether a consumer
// still holds a clone of the decoded handle.
func (a *actor) forget(url string) {
	s := a.state.get(url)
	switch s.Kind {
	case stateDecoded:
		s.Image.Release()
		delete(a.state, url)
	case stateFailed:
		delete(a.state, url)
	}
}

func (a *actor) getImage(url string, reply chan<- ImageResponse) {
	s := a.state.get(url)
	switch s.Kind {
	case stateInit:
		fatalf(a.logger, "request for image %q before prefetch", url)
	case statePrefetching:
		if s.Next == doNotDecode {
			fatalf(a.logger, "request for image %q before decode", url)
		}
		sendResponse(reply, ImageNotReadyResponse{})
	case statePrefetched:
		fatalf(a.logger, "request for image %q before decode", url)
	case stateDecoding:
		sendResponse(reply, ImageNotReadyResponse{})
	case stateDecoded:
		sendResponse(reply, ImageReadyResponse{Image: s.Image.Clone()})
	case stateFailed:
		sendResponse(reply, ImageFailedResponse{})
	}
}

func (a *actor) waitForImage(url string, reply chan<- ImageResponse) {
	s := a.state.get(url)
	switch s.Kind {
	case stateInit:
		fatalf(a.logger, "request for image %q before prefetch", url)
	case statePrefetching:
		if s.Next == doNotDecode {
			fatalf(a.logger, "request for image %q before decode", url)
		}
		a.waiters.enroll(url, reply)
	case statePrefetched:
		fatalf(a.logger, "request for image %q before decode", url)
	case stateDecoding:
		a.waiters.enroll(url, reply)
	case stateDecoded:
		sendResponse(reply, ImageReadyResponse{Image: s.Image.Clone()})
	case stateFailed:
		sendResponse(reply, ImageFailedResponse{})
	}
}
