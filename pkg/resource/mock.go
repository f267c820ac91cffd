package resource

import "sync"

// OnLoadFunc is invoked once per Load call with the URL and the responder
// channel, in its own goroutine. It should send zero or more Payload
// frames followed by exactly one Done frame, the same contract a real
// Service must honor. This mirrors the original's #[cfg(test)]
// mock_resource_task, which took an equivalent on_load closure.
type OnLoadFunc func(url string, responder chan<- Event)

// MockService is a fully scripted Service for tests. Its Load behaviour is
// configurable via MockServiceOption, following the teacher corpus's
// functional-options mock style (see pkg/collectors.MockCollector's
// WithData/WithError/WithCollectFunc).
type MockService struct {
	onLoad OnLoadFunc

	mu          sync.Mutex
	loadCount   map[string]int
	exitCalled  bool
	wg          sync.WaitGroup
}

// MockServiceOption configures a MockService.
type MockServiceOption func(*MockService)

// WithOnLoad sets the function invoked for every Load call.
func WithOnLoad(fn OnLoadFunc) MockServiceOption {
	return func(m *MockService) { m.onLoad = fn }
}

// NewMockService creates a MockService. By default Load immediately sends
// Done{Err: nil} with no payload; use WithOnLoad to script payload frames,
// errors, or gating (e.g. blocking on a test-owned channel before
// replying, to exercise the "not ready" scenarios in spec §8).
func NewMockService(opts ...MockServiceOption) *MockService {
	m := &MockService{
		loadCount: make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.onLoad == nil {
		m.onLoad = func(_ string, responder chan<- Event) {
			responder <- Done{Err: nil}
		}
	}
	return m
}

// Load records the call and runs the configured OnLoadFunc in a tracked
// goroutine, matching the real Service's asynchronous contract.
func (m *MockService) Load(url string, responder chan<- Event) {
	m.mu.Lock()
	m.loadCount[url]++
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.onLoad(url, responder)
	}()
}

// Exit records that shutdown was requested and waits for any in-flight
// scripted loads to finish sending.
func (m *MockService) Exit() {
	m.mu.Lock()
	m.exitCalled = true
	m.mu.Unlock()
	m.wg.Wait()
}

// LoadCount returns how many times Load was called for url. Tests use this
// to assert "at most one Load per URL" (spec §8).
func (m *MockService) LoadCount(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCount[url]
}

// ExitCalled reports whether Exit has been called.
func (m *MockService) ExitCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCalled
}
