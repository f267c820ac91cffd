package terminal

import "sync"

// Capabilities is the subset of terminal state imagerender.NewRenderer
// needs to pick a protocol and size frames correctly: which emulator this
// is (for SelectProtocolWithOverride), which protocol follows from that,
// and the cell geometry ResizeToFit needs.
type Capabilities struct {
	Term     Terminal
	Protocol GraphicsProtocol
	Size     Size
}

var (
	cached     *Capabilities
	detectOnce sync.Once
)

// DetectCapabilities runs detection once per process and caches the
// result; cmd/imagecache-demo calls this a single time at startup.
func DetectCapabilities() *Capabilities {
	detectOnce.Do(func() {
		term := Detect()
		cached = &Capabilities{
			Term:     term,
			Protocol: SelectProtocol(term),
			Size:     GetSize(),
		}
	})
	return cached
}
