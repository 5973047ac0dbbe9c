// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package region

import (
	"context"
	"sort"

	"github.com/samber/oops"

	"github.com/signplot/signplot/internal/world"
)

// MemoryRegistry is an in-process Registry backed by a map. It stands in
// for the host's spatial region store in tests and standalone mode.
// Accessed only from the game thread.
type MemoryRegistry struct {
	regions map[string]*Region
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{regions: map[string]*Region{}}
}

// Put inserts or replaces a region.
func (m *MemoryRegistry) Put(r *Region) {
	m.regions[r.ID] = r
}

// Get implements Registry.
func (m *MemoryRegistry) Get(_ context.Context, id string) (*Region, error) {
	r, ok := m.regions[id]
	if !ok {
		return nil, oops.Code("REGION_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
	}
	return r, nil
}

// FindContaining implements Registry. Results are ordered by priority
// descending, ties broken by ID for determinism.
func (m *MemoryRegistry) FindContaining(_ context.Context, p world.Point) ([]*Region, error) {
	var found []*Region
	for _, r := range m.regions {
		if r.Bounds.Contains(p) {
			found = append(found, r)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Priority != found[j].Priority {
			return found[i].Priority > found[j].Priority
		}
		return found[i].ID < found[j].ID
	})
	return found, nil
}

// ForEach implements Registry.
func (m *MemoryRegistry) ForEach(_ context.Context, fn func(*Region) bool) error {
	ids := make([]string, 0, len(m.regions))
	for id := range m.regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !fn(m.regions[id]) {
			return nil
		}
	}
	return nil
}

// Save implements Registry.
func (m *MemoryRegistry) Save(_ context.Context, r *Region) error {
	m.regions[r.ID] = r
	return nil
}
