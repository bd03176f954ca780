package routing

import (
	"sort"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// HandleNotFound is returned by the selector when the participant it
// needs is not registered. Callers treat it as a configuration error.
const HandleNotFound = domain.ParticipantHandle("")

// Registry maps participant display names to the opaque handles the
// participant runtime uses to invoke them. Populated once at session
// setup and read-only afterwards, so it is safe for concurrent reads
// without locking.
type Registry struct {
	entries map[string]domain.ParticipantHandle

	// specialist display name -> domain trigger term ("aws", "azure").
	terms map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]domain.ParticipantHandle),
		terms:   make(map[string]string),
	}
}

// Register adds a participant under its display name.
func (r *Registry) Register(name string, handle domain.ParticipantHandle) {
	r.entries[name] = handle
}

// RegisterSpecialist adds a specialist participant together with the
// domain term its trigger-phrase rule matches on.
func (r *Registry) RegisterSpecialist(name, domainTerm string, handle domain.ParticipantHandle) {
	r.entries[name] = handle
	r.terms[name] = domainTerm
}

// Lookup resolves a display name to a handle.
func (r *Registry) Lookup(name string) (domain.ParticipantHandle, bool) {
	h, ok := r.entries[name]
	return h, ok
}

// IsSpecialist reports whether the name belongs to a registered
// specialist.
func (r *Registry) IsSpecialist(name string) bool {
	_, ok := r.terms[name]
	return ok
}

// DomainTerm returns the trigger term of a registered specialist.
func (r *Registry) DomainTerm(name string) (string, bool) {
	term, ok := r.terms[name]
	return term, ok
}

// Specialists returns the registered specialist names in sorted order,
// so trigger scanning is deterministic.
func (r *Registry) Specialists() []string {
	names := make([]string, 0, len(r.terms))
	for name := range r.terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
