// Package resource implements the byte-fetching collaborator the image
// cache depends on but does not own: given a URL, it streams zero or more
// Payload frames followed by exactly one Done frame over a caller-supplied
// channel, and can be asked to Exit.
//
// This mirrors the original Rust resource_task protocol (Load/Exit control
// messages, Payload/Done progress messages) closely enough that the cache's
// prefetch worker (pkg/imagecache) needs no knowledge of how bytes are
// actually fetched.
package resource

// Event is the sealed union of messages a Service sends on a responder
// channel in reply to Load: zero or more Payload frames, terminated by
// exactly one Done frame.
type Event interface {
	isEvent()
}

// Payload carries one chunk of the URL's byte stream. Order matters;
// a caller concatenates payloads in receive order.
type Payload struct {
	Data []byte
}

// Done terminates a Load's event stream. Err is nil on success; any
// non-nil error means the fetch failed and prior Payload frames for this
// Load should be discarded.
type Done struct {
	Err error
}

func (Payload) isEvent() {}
func (Done) isEvent()    {}

// Service is the resource service contract: a handle accepting Load and
// Exit. Implementations may be backed by HTTP (see HTTPService), or, in
// tests, by a fully scripted mock (see MockService).
type Service interface {
	// Load begins fetching url. Frames are sent to responder in order;
	// the final frame is always exactly one Done. Load must not block
	// the caller past submitting the request.
	Load(url string, responder chan<- Event)

	// Exit shuts the service down. The owner of a Service must call
	// Exit only after every cache depending on it has itself exited,
	// per the contract in spec §6.
	Exit()
}
