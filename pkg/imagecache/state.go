package imagecache

// afterPrefetch records whether a Decode request arrived while a
// prefetcher was still in flight for a URL.
type afterPrefetch int

const (
	// doNotDecode means no Decode has been requested yet.
	doNotDecode afterPrefetch = iota
	// doDecode means Decode was requested; start decoding as soon as
	// the prefetcher's bytes arrive.
	doDecode
)

// stateKind tags which case of perURLState is populated. stateInit is
// never stored; an absent stateMap entry is equivalent to stateInit.
type stateKind int

const (
	stateInit stateKind = iota
	statePrefetching
	statePrefetched
	stateDecoding
	stateDecoded
	stateFailed
)

func (k stateKind) String() string {
	switch k {
	case stateInit:
		return "Init"
	case statePrefetching:
		return "Prefetching"
	case statePrefetched:
		return "Prefetched"
	case stateDecoding:
		return "Decoding"
	case stateDecoded:
		return "Decoded"
	case stateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// perURLState is the tagged variant describing one URL's progress through
// fetch and decode. Only the field(s) matching Kind are meaningful.
type perURLState struct {
	Kind   stateKind
	Next   afterPrefetch   // valid when Kind == statePrefetching
	Buffer *prefetchBuffer // valid when Kind == statePrefetched
	Image  *ImageHandle    // valid when Kind == stateDecoded
}

func initState() perURLState {
	return perURLState{Kind: stateInit}
}

func prefetchingState(next afterPrefetch) perURLState {
	return perURLState{Kind: statePrefetching, Next: next}
}

func prefetchedState(buf *prefetchBuffer) perURLState {
	return perURLState{Kind: statePrefetched, Buffer: buf}
}

func decodingState() perURLState {
	return perURLState{Kind: stateDecoding}
}

func decodedState(img *ImageHandle) perURLState {
	return perURLState{Kind: stateDecoded, Image: img}
}

func failedState() perURLState {
	return perURLState{Kind: stateFailed}
}

// stateMap maps URL to perURLState; an absent entry is Init. Owned
// exclusively by the cache actor goroutine — never touched concurrently.
type stateMap map[string]perURLState

func (m stateMap) get(url string) perURLState {
	if s, ok := m[url]; ok {
		return s
	}
	return initState()
}

func (m stateMap) set(url string, s perURLState) {
	m[url] = s
}

// quiescent reports whether every URL is in a terminal-or-idle state
// (Init, Prefetched, Decoded, or Failed) — i.e. no prefetcher or decoder
// worker is currently running. Required before Exit can be satisfied.
func (m stateMap) quiescent() bool {
	for _, s := range m {
		switch s.Kind {
		case statePrefetching, stateDecoding:
			return false
		}
	}
	return true
}
