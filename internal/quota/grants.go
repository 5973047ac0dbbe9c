// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package quota limits how many regions of a given type a player may own,
// deriving the limit from permission grants.
package quota

import (
	"sync"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Grants looks up permission nodes for players. The host's permission
// service sits behind this; StaticGrants is the in-process implementation.
type Grants interface {
	// Has reports whether the player holds the permission node.
	Has(player ulid.ULID, node string) bool
}

// compiledGrant holds a grant pattern and its compiled glob.
type compiledGrant struct {
	pattern string
	glob    glob.Glob
}

// StaticGrants implements Grants with per-player glob patterns compiled at
// grant time, using '.' as the node separator so "signplot.limit.*.5"
// matches exactly one type segment.
//
// Thread-safety: grants is protected by mu; Has is safe for concurrent use.
type StaticGrants struct {
	mu     sync.RWMutex
	grants map[ulid.ULID][]compiledGrant
}

// NewStaticGrants creates an empty grant table.
func NewStaticGrants() *StaticGrants {
	return &StaticGrants{grants: map[ulid.ULID][]compiledGrant{}}
}

// Grant adds a permission pattern for a player.
// Returns an error if the pattern fails to compile (invalid glob syntax).
func (g *StaticGrants) Grant(player ulid.ULID, pattern string) error {
	compiled, err := glob.Compile(pattern, '.')
	if err != nil {
		return oops.In("quota").
			With("pattern", pattern).
			Wrapf(err, "compile grant pattern")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.grants[player] = append(g.grants[player], compiledGrant{pattern: pattern, glob: compiled})
	return nil
}

// MustGrant adds a permission pattern and panics on invalid syntax.
// For hardcoded patterns in tests and seed data.
func (g *StaticGrants) MustGrant(player ulid.ULID, pattern string) {
	if err := g.Grant(player, pattern); err != nil {
		panic("invalid grant pattern: " + pattern)
	}
}

// Has implements Grants.
func (g *StaticGrants) Has(player ulid.ULID, node string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, cg := range g.grants[player] {
		if cg.glob.Match(node) {
			return true
		}
	}
	return false
}
