package payment

import (
	"sync"
)

// Registry tracks the live checkout of each booking for the web shell, where
// starting a payment and reporting its outcome are separate requests.
type Registry struct {
	mu     sync.Mutex
	deps   Deps
	active map[string]*Orchestrator
}

func NewRegistry(deps Deps) *Registry {
	if deps.Secrets == nil {
		deps.Secrets = NewMemorySecretStore(DefaultSessionTTL)
	}
	return &Registry{deps: deps, active: make(map[string]*Orchestrator)}
}

func registryKey(bookingReference, amount string) string {
	return bookingReference + "|" + amount
}

// Get returns the checkout for the pair, creating it if none is live. A
// finished checkout is replaced by a fresh one.
func (r *Registry) Get(bookingReference, amount string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey(bookingReference, amount)
	if o, ok := r.active[key]; ok && !o.State().Terminal() {
		return o
	}
	o := NewOrchestrator(bookingReference, amount, r.deps)
	r.active[key] = o
	return o
}

// Lookup returns the checkout for the pair without creating one.
func (r *Registry) Lookup(bookingReference, amount string) (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.active[registryKey(bookingReference, amount)]
	return o, ok
}

// Prune forgets finished checkouts.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, o := range r.active {
		if o.State().Terminal() {
			delete(r.active, key)
			n++
		}
	}
	return n
}
