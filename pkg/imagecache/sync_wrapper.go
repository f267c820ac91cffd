package imagecache

// SynchronousCache wraps a Cache so that GetImage always blocks until the
// URL settles, matching the original's SyncImageCacheTask: a thin
// translation layer for consumers (e.g. a renderer on its own goroutine)
// that would rather block than poll ImageNotReadyResponse in a loop.
//
// It owns no state of its own beyond the inner handle: every call is
// forwarded, with GetImage rewritten to WaitForImage.
type SynchronousCache struct {
	inner *Cache
}

// NewSynchronousCache wraps inner. inner must not be shared with any other
// SynchronousCache or used directly for GetImage once wrapped, or the two
// callers' expectations about blocking will diverge.
func NewSynchronousCache(inner *Cache) *SynchronousCache {
	return &SynchronousCache{inner: inner}
}

// Prefetch forwards to the inner cache.
func (s *SynchronousCache) Prefetch(url string) {
	s.inner.Prefetch(url)
}

// Decode forwards to the inner cache.
func (s *SynchronousCache) Decode(url string) {
	s.inner.Decode(url)
}

// GetImage blocks until url settles, unlike Cache.GetImage.
func (s *SynchronousCache) GetImage(url string) ImageResponse {
	return s.inner.WaitForImage(url)
}

// OnMsg forwards registration to the inner cache.
func (s *SynchronousCache) OnMsg(observer func(message)) {
	s.inner.OnMsg(observer)
}

// Exit forwards to the inner cache and blocks until it has quiesced.
func (s *SynchronousCache) Exit() {
	s.inner.Exit()
}
