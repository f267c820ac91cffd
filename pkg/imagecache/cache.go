package imagecache

import (
	"log/slog"

	"github.com/tinyland/imagecache/pkg/resource"
)

// Cache is a send-handle to a running cache actor. It is cheap to copy:
// every method sends a message over the actor's inbox and the actor itself
// owns all mutable state, so a Cache value has no exclusive state of its
// own. Cloning it (assigning it, passing it by value) is exactly the
// "cloneable send-handle" the spec describes for consumers.
type Cache struct {
	inbox chan message
}

// Option configures a Cache at construction time.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	decoder DecoderFactory
}

// WithLogger overrides the actor's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDecoderFactory overrides the decoder factory. Defaults to
// DefaultDecoderFactory(). Test harnesses use this to inject gated or
// failing decoders (spec §8 scenario 2 and 6).
func WithDecoderFactory(factory DecoderFactory) Option {
	return func(o *options) { o.decoder = factory }
}

// New starts a cache actor backed by rs and returns a handle to it. The
// actor runs in its own goroutine until Exit is acknowledged.
func New(rs resource.Service, opts ...Option) *Cache {
	o := &options{
		logger:  slog.Default(),
		decoder: DefaultDecoderFactory(),
	}
	for _, opt := range opts {
		opt(o)
	}

	inbox := make(chan message, 64)
	a := &actor{
		inbox:          inbox,
		resourceTask:   rs,
		decoderFactory: o.decoder,
		logger:         o.logger,
		state:          make(stateMap),
		waiters:        make(waiterRegistry),
	}

	go a.run()

	return &Cache{inbox: inbox}
}

// Prefetch begins fetching bytes for url if not already begun. Idempotent.
func (c *Cache) Prefetch(url string) {
	c.inbox <- prefetchMsg{url: url}
}

// Decode schedules url for decoding once its bytes arrive. Must be called
// after Prefetch for the same URL; calling it before Prefetch is an API
// misuse that crashes the actor (spec §4.3).
func (c *Cache) Decode(url string) {
	c.inbox <- decodeMsg{url: url}
}

// GetImage performs a non-blocking query and returns immediately once the
// actor has replied. It does not block on fetch/decode completion: if the
// image is still in flight it returns ImageNotReadyResponse.
func (c *Cache) GetImage(url string) ImageResponse {
	reply := make(chan ImageResponse, 1)
	c.inbox <- getImageMsg{url: url, reply: reply}
	return <-reply
}

// WaitForImage blocks until url settles (Decoded or Failed) and returns
// the terminal response.
func (c *Cache) WaitForImage(url string) ImageResponse {
	reply := make(chan ImageResponse, 1)
	c.inbox <- waitForImageMsg{url: url, reply: reply}
	return <-reply
}

// OnMsg registers a test-only observer invoked, in registration order, on
// every message the actor subsequently receives, before dispatch.
// Observers must not mutate cache state and must not block on channels
// they themselves feed.
func (c *Cache) OnMsg(observer func(message)) {
	c.inbox <- onMsgMsg{observer: observer}
}

// Forget resets url back to Init if it is currently Decoded or Failed, and
// is a no-op otherwise. It exists for SizeBoundedEvictor and is not part of
// the core protocol: ordinary consumers never need to call it.
func (c *Cache) Forget(url string) {
	c.inbox <- forgetMsg{url: url}
}

// Exit requests quiescent shutdown: the actor keeps processing in-flight
// worker callbacks until no URL is Prefetching or Decoding, then
// terminates. Exit blocks until that has happened. Calling Exit a second
// time concurrently with a pending one is a contract violation (spec §5).
func (c *Cache) Exit() {
	reply := make(chan struct{})
	c.inbox <- exitMsg{reply: reply}
	<-reply
}
