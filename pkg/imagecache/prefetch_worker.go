package imagecache

import "github.com/tinyland/imagecache/pkg/resource"

// runPrefetchWorker drives one URL's Load call to completion and reports
// the accumulated bytes (or the failure) back to the actor's inbox. It owns
// no cache state directly; it only ever talks to the actor through
// storePrefetchedMsg, matching the "workers report, actor decides" split
// in spec §4.4.
func runPrefetchWorker(url string, rs resource.Service, inbox chan<- message) {
	responder := make(chan resource.Event, 8)
	rs.Load(url, responder)

	var buf []byte
	for evt := range responder {
		switch e := evt.(type) {
		case resource.Payload:
			buf = append(buf, e.Data...)
		case resource.Done:
			if e.Err != nil {
				inbox <- storePrefetchedMsg{url: url, err: e.Err}
				return
			}
			inbox <- storePrefetchedMsg{url: url, data: newPrefetchBuffer(buf)}
			return
		}
	}
}
