// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package region contains the land parcel domain model and the registry
// boundary the sale machinery talks to.
package region

import (
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/signplot/signplot/internal/world"
)

// MaxIDLength caps region identifiers so they fit on a sign line.
const MaxIDLength = world.MaxLineLength

// MaxTypeLength caps type labels so they fit on a sign line.
const MaxTypeLength = world.MaxLineLength

// Region is a spatially bounded, uniquely identified ownable area with
// sale-related flags. The registry owns the authoritative copy; callers
// re-read rather than caching across operations.
type Region struct {
	ID       string
	Priority int
	Bounds   world.Bounds

	// Sale flags. Nil pointers mean the flag is unset.
	Buyable       bool
	Price         *float64
	Type          *string
	BuyPermission *string

	owners map[ulid.ULID]struct{}
}

// New creates a region with an empty owner set.
func New(id string, bounds world.Bounds) *Region {
	return &Region{
		ID:     id,
		Bounds: bounds,
		owners: map[ulid.ULID]struct{}{},
	}
}

// IsOwner reports owner-set membership.
func (r *Region) IsOwner(player ulid.ULID) bool {
	_, ok := r.owners[player]
	return ok
}

// AddOwner inserts a player into the owner set.
func (r *Region) AddOwner(player ulid.ULID) {
	if r.owners == nil {
		r.owners = map[ulid.ULID]struct{}{}
	}
	r.owners[player] = struct{}{}
}

// ClearOwners empties the owner set.
func (r *Region) ClearOwners() {
	r.owners = map[ulid.ULID]struct{}{}
}

// Owners returns the owner set in stable order.
func (r *Region) Owners() []ulid.ULID {
	out := make([]ulid.ULID, 0, len(r.owners))
	for id := range r.owners {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// OwnerCount returns the size of the owner set.
func (r *Region) OwnerCount() int {
	return len(r.owners)
}

// TypeLabel returns the type flag or "" when unset.
func (r *Region) TypeLabel() string {
	if r.Type == nil {
		return ""
	}
	return *r.Type
}
