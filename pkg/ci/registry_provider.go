package ci

import (
	"sort"
	"sync"

	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// Register registers a CI provider.
// Providers should call this in their init() function.
func Register(p Provider) {
	defer perf.Track(nil, "ci.Register")()

	providersMu.Lock()
	defer providersMu.Unlock()
	providers[p.Name()] = p
}

// Detect returns the first registered provider, by name, that detects it is active.
func Detect() Provider {
	defer perf.Track(nil, "ci.Detect")()

	providersMu.RLock()
	defer providersMu.RUnlock()

	for _, name := range sortedNames() {
		p := providers[name]
		if p.Detect() {
			log.Debug("CI provider detected", "provider", name)
			return p
		}
		log.Debug("CI provider not detected", "provider", name)
	}
	return nil
}

// Reset clears the registry. For testing only.
func Reset() {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers = make(map[string]Provider)
}

// sortedNames must be called with providersMu held.
func sortedNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
