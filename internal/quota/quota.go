// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package quota

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/signplot/signplot/internal/region"
)

// CodeQuotaExceeded marks a denied quota check.
const CodeQuotaExceeded = "QUOTA_EXCEEDED"

// DefaultMaxScan bounds the descending per-type grant scan when the
// configuration does not set one.
const DefaultMaxScan = 100

// Permission node templates. <type> and <group> are substituted verbatim.
const (
	nodeTypeUnlimited  = "signplot.type.%s.unlimited"
	nodeGroupUnlimited = "signplot.group.%s.unlimited"
	nodeGroupMember    = "signplot.group.%s"
	nodeTypeLimit      = "signplot.limit.%s.%d"
)

// Config holds the quota configuration surface.
type Config struct {
	// MaxScan is the upper bound of the descending per-type grant scan.
	MaxScan int

	// Groups maps a permission group to its numeric ownership maximum.
	Groups map[string]int

	// GroupTypes maps a region type to its permission group.
	GroupTypes map[string]string
}

// Checker decides whether a player may acquire another region of a type.
// Ownership counts are recomputed from the registry on every call; no
// persistent counter exists, so external registry mutation is always
// reflected.
type Checker struct {
	grants   Grants
	registry region.Registry
	cfg      Config
}

// NewChecker creates a checker.
func NewChecker(grants Grants, registry region.Registry, cfg Config) *Checker {
	if cfg.MaxScan <= 0 {
		cfg.MaxScan = DefaultMaxScan
	}
	return &Checker{grants: grants, registry: registry, cfg: cfg}
}

// CheckTypeCount returns nil if the player may acquire another region of
// the given type, or a QUOTA_EXCEEDED error otherwise.
//
// Grant precedence is fixed: type/group unlimited, then the group numeric
// grant, then the per-type descending scan, then the default of 1. A
// resolved limit of 0 denies without counting.
func (c *Checker) CheckTypeCount(ctx context.Context, player ulid.ULID, typ string) error {
	if typ == "" {
		return nil
	}

	group, hasGroup := c.cfg.GroupTypes[typ]

	if c.grants.Has(player, fmt.Sprintf(nodeTypeUnlimited, typ)) {
		return nil
	}
	if hasGroup && c.grants.Has(player, fmt.Sprintf(nodeGroupUnlimited, group)) {
		return nil
	}

	maxAmount := c.resolveLimit(player, typ, group, hasGroup)
	if maxAmount == 0 {
		return oops.Code(CodeQuotaExceeded).
			With("type", typ).
			With("limit", 0).
			Errorf("ownership of type %q not allowed", typ)
	}

	owned, err := c.countOwned(ctx, player, typ, maxAmount)
	if err != nil {
		return oops.In("quota").With("type", typ).Wrap(err)
	}
	if owned >= maxAmount {
		return oops.Code(CodeQuotaExceeded).
			With("type", typ).
			With("limit", maxAmount).
			With("owned", owned).
			Errorf("already owns %d regions of type %q (limit %d)", owned, typ, maxAmount)
	}
	return nil
}

func (c *Checker) resolveLimit(player ulid.ULID, typ, group string, hasGroup bool) int {
	if hasGroup && c.grants.Has(player, fmt.Sprintf(nodeGroupMember, group)) {
		return c.cfg.Groups[group]
	}
	for n := c.cfg.MaxScan; n >= 0; n-- {
		if c.grants.Has(player, fmt.Sprintf(nodeTypeLimit, typ, n)) {
			return n
		}
	}
	return 1
}

// countOwned counts the player's regions carrying typ as their type flag,
// stopping early once the limit is reached.
func (c *Checker) countOwned(ctx context.Context, player ulid.ULID, typ string, limit int) (int, error) {
	count := 0
	err := c.registry.ForEach(ctx, func(r *region.Region) bool {
		if r.TypeLabel() == typ && r.IsOwner(player) {
			count++
		}
		return count < limit
	})
	return count, err
}
