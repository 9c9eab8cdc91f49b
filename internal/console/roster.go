package console

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
)

// Roster tracks the actors that are currently connected. It satisfies
// parser.Directory so commands can look actors up by name or ID.
type Roster struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Actor
	byName map[string]*Actor
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		byID:   make(map[uuid.UUID]*Actor),
		byName: make(map[string]*Actor),
	}
}

// Join adds a. An actor with the same name is replaced.
func (r *Roster) Join(a *Actor) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(a.Name())
	if old, ok := r.byName[key]; ok {
		delete(r.byID, old.UUID())
	}
	r.byID[a.UUID()] = a
	r.byName[key] = a
}

// Leave removes a.
func (r *Roster) Leave(a *Actor) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byID[a.UUID()]; ok && cur == a {
		delete(r.byID, a.UUID())
		delete(r.byName, strings.ToLower(a.Name()))
	}
}

// ByID implements parser.Directory.
func (r *Roster) ByID(id uuid.UUID) (actor.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return a, true
}

// ByName implements parser.Directory. Names match case-insensitively.
func (r *Roster) ByName(name string) (actor.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return a, true
}

// Actors returns the connected actors sorted by name.
func (r *Roster) Actors() []command.Actor {
	r.mu.RLock()
	out := make([]command.Actor, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name()) < strings.ToLower(out[j].Name())
	})
	return out
}

// Len returns the number of connected actors.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
