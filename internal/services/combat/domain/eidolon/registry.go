// Package eidolon tracks bonded-creature growth and applies summon, growth,
// reset, and protection transfer rules.
package eidolon

import "sync"

// Key scopes growth to a summoner within one match.
type Key struct {
	MatchID    string
	SummonerID string
}

// Registry holds per-(match, summoner) growth. It is safe for concurrent use
// across matches.
type Registry struct {
	mu     sync.Mutex
	growth map[Key]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{growth: make(map[Key]int)}
}

// Growth returns the accumulated kill bonus for key.
func (r *Registry) Growth(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.growth[key]
}

// Touch creates the entry for key if missing.
func (r *Registry) Touch(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.growth[key]; !ok {
		r.growth[key] = 0
	}
}

// Credit increments growth for key and returns the new value.
func (r *Registry) Credit(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.growth[key]++
	return r.growth[key]
}

// Reset zeroes growth for key.
func (r *Registry) Reset(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.growth[key] = 0
}

// Restore sets growth for key, used when loading persisted state.
func (r *Registry) Restore(key Key, growth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.growth[key] = max(growth, 0)
}

// Snapshot returns growth per summoner for a match.
func (r *Registry) Snapshot(matchID string) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int)
	for key, growth := range r.growth {
		if key.MatchID == matchID {
			out[key.SummonerID] = growth
		}
	}
	return out
}

// ClearMatch drops every entry for a match.
func (r *Registry) ClearMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.growth {
		if key.MatchID == matchID {
			delete(r.growth, key)
		}
	}
}
