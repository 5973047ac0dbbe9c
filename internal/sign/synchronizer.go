// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/world"
)

// Namer resolves a player's display name for the sold template.
type Namer interface {
	Name(player ulid.ULID) string
}

// Synchronizer rewrites every sign bound to a region after its sale state
// changes. It scans the region's chunk extent plus a one-chunk margin so
// signs placed just outside the border are caught too.
type Synchronizer struct {
	chunks    world.ChunkAccess
	templates Templates
	namer     Namer
	logger    *slog.Logger
}

// NewSynchronizer creates a synchronizer over the host's chunk access.
func NewSynchronizer(chunks world.ChunkAccess, templates Templates, namer Namer, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{chunks: chunks, templates: templates, namer: namer, logger: logger}
}

// Refresh rewrites the text of every sign tagged with the region's
// identifier inside the region's chunk box. sold selects the template: the
// "sold" lines name the acting player as buyer, the "for sale" lines carry
// the region's price and type flags. Unloaded chunks are skipped; their
// signs stay stale until the next refresh after loading.
func (s *Synchronizer) Refresh(ctx context.Context, actor ulid.ULID, r *region.Region, sold bool) error {
	var lines [world.SignLines]string
	state := "sale"
	if sold {
		state = "sold"
		lines = s.templates.RenderSold(r, s.namer.Name(actor))
	} else {
		lines = s.templates.RenderSale(r)
	}

	rewritten := 0
	skipped := 0
	for _, key := range r.Bounds.ChunkBox(1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.chunks.IsLoaded(key) {
			skipped++
			continue
		}
		for _, sg := range s.chunks.SignsIn(key) {
			if sg.RegionTag != r.ID {
				continue
			}
			sg.SetLines(lines)
			rewritten++
		}
	}

	Refreshes.WithLabelValues(state).Inc()
	RewrittenSigns.Add(float64(rewritten))
	s.logger.Debug("region signs refreshed",
		"region", r.ID,
		"state", state,
		"rewritten", rewritten,
		"chunks_skipped", skipped)
	return nil
}
