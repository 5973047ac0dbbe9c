// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package region

import (
	"context"
	"errors"

	"github.com/signplot/signplot/internal/world"
)

// ErrNotFound is returned when a region does not exist.
var ErrNotFound = errors.New("region not found")

// Registry is the boundary to the spatial region store. Implementations
// must return regions reflecting current truth on every call; the sale
// machinery never caches region state across operations.
type Registry interface {
	// Get returns the region with the given identifier.
	// Returns an error wrapping ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Region, error)

	// FindContaining returns every region whose bounds contain p,
	// ordered by priority descending.
	FindContaining(ctx context.Context, p world.Point) ([]*Region, error)

	// ForEach visits every region until fn returns false.
	ForEach(ctx context.Context, fn func(*Region) bool) error

	// Save persists the region's flags and owner set.
	Save(ctx context.Context, r *Region) error
}
