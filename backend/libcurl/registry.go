package libcurl

import (
	"sync"

	curl "github.com/BridgeSenseDev/go-curl-impersonate"
)

// easyRegistry recovers the *curlEasy wrapper for a raw *curl.CURL the
// multi handle's InfoRead hands back. libcurl's own CURLOPT_PRIVATE
// slot would normally carry this association; we keep it in a Go map
// instead since the binding's Getopt surface for private data is not
// assumed here.
type easyRegistry struct {
	mu sync.Mutex
	m  map[*curl.CURL]*curlEasy
}

func newEasyRegistry() *easyRegistry {
	return &easyRegistry{m: make(map[*curl.CURL]*curlEasy)}
}

func (r *easyRegistry) register(e *curlEasy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[e.h] = e
}

func (r *easyRegistry) unregister(e *curlEasy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, e.h)
}

func (r *easyRegistry) lookup(h *curl.CURL) *curlEasy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[h]
}
