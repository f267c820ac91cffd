// Package imagecache implements an asynchronous, actor-based cache of
// decoded images keyed by URL. It sits between a byte-fetching resource
// service and consumers that need ready-to-paint image objects,
// guaranteeing at-most-once fetch and at-most-once decode per URL.
package imagecache

// message is the sealed tagged union carried on the cache actor's inbox.
// The nine concrete types below are its only implementations; dispatch is
// a type switch in actor.dispatch rather than an interface method, matching the
// closed-variant shape of the original Msg enum.
type message interface {
	isMessage()
}

// prefetchMsg requests that bytes for url begin fetching if they have not
// already. Must be posted before decodeMsg.
type prefetchMsg struct {
	url string
}

// decodeMsg requests that url be decoded once its bytes arrive. Must be
// posted before getImageMsg/waitForImageMsg.
type decodeMsg struct {
	url string
}

// getImageMsg is a non-blocking query: reply is sent exactly once with
// whatever ImageResponse the current state implies.
type getImageMsg struct {
	url   string
	reply chan<- ImageResponse
}

// waitForImageMsg is a blocking query: reply is sent exactly once, either
// immediately (state already settled) or after settlement.
type waitForImageMsg struct {
	url   string
	reply chan<- ImageResponse
}

// exitMsg requests quiescent shutdown. reply is sent (and the actor
// terminates) once no URL is Prefetching or Decoding.
type exitMsg struct {
	reply chan<- struct{}
}

// onMsgMsg registers a test-only observer invoked on every subsequent
// message, pre-dispatch, in registration order.
type onMsgMsg struct {
	observer func(message)
}

// storePrefetchedMsg is posted by a prefetcher worker exactly once per
// URL: either the concatenated byte buffer, or an error.
type storePrefetchedMsg struct {
	url  string
	data *prefetchBuffer
	err  error
}

// storeImageMsg is posted by a decoder worker exactly once per URL: either
// the decoded image, or nil on decode failure.
type storeImageMsg struct {
	url   string
	image *ImageHandle
}

// forgetMsg resets a settled (Decoded or Failed) URL back to Init, freeing
// its entry from the cache so a later Prefetch starts over. Posting it for
// a URL that is not settled is a no-op, not a fatal error: an evictor
// racing a concurrent re-Prefetch of the same URL must not crash the actor.
type forgetMsg struct {
	url string
}

func (prefetchMsg) isMessage()        {}
func (decodeMsg) isMessage()          {}
func (getImageMsg) isMessage()        {}
func (waitForImageMsg) isMessage()    {}
func (exitMsg) isMessage()            {}
func (onMsgMsg) isMessage()           {}
func (storePrefetchedMsg) isMessage() {}
func (storeImageMsg) isMessage()      {}
func (forgetMsg) isMessage()          {}
