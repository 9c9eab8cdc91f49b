package permission

import (
	"sort"
	"strings"
	"sync"
)

// Grants is a concurrent set of permission nodes held by an actor.
//
// A granted node ending in ".*" covers every node below it and "*" covers
// everything. Negated grants ("-node") take precedence over positive ones.
type Grants struct {
	mu    sync.RWMutex
	allow map[string]bool
	deny  map[string]bool
}

// NewGrants creates a set from the given nodes.
func NewGrants(nodes ...string) *Grants {
	g := &Grants{
		allow: make(map[string]bool),
		deny:  make(map[string]bool),
	}
	for _, n := range nodes {
		g.Grant(n)
	}
	return g
}

// Grant adds a node. A leading "-" records a denial.
func (g *Grants) Grant(node string) {
	node = strings.TrimSpace(node)
	if node == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if strings.HasPrefix(node, "-") {
		g.deny[node[1:]] = true
		return
	}
	g.allow[node] = true
}

// Revoke removes a node and any denial recorded for it.
func (g *Grants) Revoke(node string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.allow, node)
	delete(g.deny, node)
}

// Has reports whether node is granted.
func (g *Grants) Has(node string) bool {
	if node == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if matchAny(g.deny, node) {
		return false
	}
	return matchAny(g.allow, node)
}

// Nodes returns the granted nodes, sorted.
func (g *Grants) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes := make([]string, 0, len(g.allow)+len(g.deny))
	for n := range g.allow {
		nodes = append(nodes, n)
	}
	for n := range g.deny {
		nodes = append(nodes, "-"+n)
	}
	sort.Strings(nodes)
	return nodes
}

// matchAny checks node, then each parent wildcard, then the global wildcard.
func matchAny(set map[string]bool, node string) bool {
	if set[node] || set["*"] {
		return true
	}
	for i := len(node) - 1; i > 0; i-- {
		if node[i] == '.' && set[node[:i]+".*"] {
			return true
		}
	}
	return false
}
