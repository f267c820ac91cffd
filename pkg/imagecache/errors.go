package imagecache

import (
	"fmt"
	"log/slog"
)

// fatalf reports a cache-actor contract violation (API misuse, or an
// internal invariant broken by a worker report arriving in an impossible
// state) and then crashes the actor goroutine. This mirrors the original
// Rust task's fail!(...): these are bugs in the caller or in the cache
// itself, not runtime failures, and silently tolerating them would mask
// ordering bugs in consumers rather than surface them.
//
// The panic is deliberate and is not recovered anywhere in this package;
// logging first just leaves a diagnostic line before the process-level
// crash that the spec requires.
func fatalf(logger *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("imagecache: fatal", "reason", msg)
	panic("imagecache: " + msg)
}
