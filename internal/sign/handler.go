// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/signplot/signplot/pkg/errutil"

	"github.com/signplot/signplot/internal/economy"
	"github.com/signplot/signplot/internal/intent"
	"github.com/signplot/signplot/internal/lang"
	"github.com/signplot/signplot/internal/purchase"
	"github.com/signplot/signplot/internal/quota"
	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/schedule"
	"github.com/signplot/signplot/internal/world"
)

// Permission nodes for the sign protocol surfaces.
const (
	PermPurchase          = "signplot.sign.purchase"
	PermCreate            = "signplot.sign.create"
	PermCreateOthers      = "signplot.sign.create.others"
	PermCreateOutside     = "signplot.sign.create.outside"
	PermCreateMakeBuyable = "signplot.sign.create.makebuyable"
	PermCreateType        = "signplot.sign.create.type"
)

// HandlerConfig holds dependencies for the sign protocol handler.
type HandlerConfig struct {
	Engine    *purchase.Engine
	Writes    *intent.WriteIntents
	Grants    quota.Grants
	Registry  region.Registry
	Sync      *Synchronizer
	Ticks     *schedule.TickQueue
	Templates Templates
	Catalog   *lang.Catalog
	Notifier  purchase.Notifier
	Logger    *slog.Logger

	// UpdateAllOnSale refreshes the whole region's signs after a sign is
	// created, in addition to the created sign itself.
	UpdateAllOnSale bool
}

// Handler interprets physical sign interactions as sale protocol events.
// Every failure is delivered to the acting player as a single formatted
// message; the returned error carries the code for the host's logging.
type Handler struct {
	engine    *purchase.Engine
	writes    *intent.WriteIntents
	grants    quota.Grants
	registry  region.Registry
	sync      *Synchronizer
	ticks     *schedule.TickQueue
	templates Templates
	catalog   *lang.Catalog
	notifier  purchase.Notifier
	logger    *slog.Logger
	updateAll bool
}

// NewHandler creates a handler with the given configuration.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine:    cfg.Engine,
		writes:    cfg.Writes,
		grants:    cfg.Grants,
		registry:  cfg.Registry,
		sync:      cfg.Sync,
		ticks:     cfg.Ticks,
		templates: cfg.Templates,
		catalog:   cfg.Catalog,
		notifier:  cfg.Notifier,
		logger:    logger,
		updateAll: cfg.UpdateAllOnSale,
	}
}

// PrepareSignWrite stores the lines a player intends to write onto the
// next sign they interact with. The intent expires unused after the
// write-intent TTL.
func (h *Handler) PrepareSignWrite(player ulid.ULID, lines [world.SignLines]string) error {
	for i, line := range lines {
		if len(line) > world.MaxLineLength {
			return &region.ValidationError{
				Field:   "line " + strconv.Itoa(i+1),
				Message: "does not fit on a sign line",
			}
		}
	}
	h.writes.Set(player, lines)
	return nil
}

// HandleInteract processes a player interacting with an existing sign.
// A pending write intent consumes the interaction outright. Otherwise a
// sign carrying the sale sentinel is treated as a purchase attempt.
func (h *Handler) HandleInteract(ctx context.Context, player ulid.ULID, s *world.Sign) error {
	if lines, ok := h.writes.Get(player); ok {
		s.SetLines(lines)
		h.writes.Remove(player)
		h.notifier.Message(player, h.catalog.Get("write.success"))
		return nil
	}

	if !h.templates.Matches(s.Lines[0]) {
		return nil
	}

	if !h.grants.Has(player, PermPurchase) {
		return h.fail(player, oops.Code(CodeNoPermission).
			Errorf("player lacks %s", PermPurchase))
	}

	r, err := h.resolveSignRegion(ctx, s)
	if err != nil {
		return h.fail(player, err)
	}

	price, typ, err := h.validateSaleLines(r, s)
	if err != nil {
		return h.fail(player, err)
	}

	if err := h.engine.Buy(ctx, player, r, price, typ); err != nil {
		return h.fail(player, err)
	}

	s.SetLines(h.templates.RenderSold(r, h.notifier.Name(player)))
	s.TagRegion(r.ID)
	h.notifier.Message(player, h.catalog.Get("buy.bought-plot",
		"region", r.ID,
		"price", economy.FormatAmount(price)))
	return nil
}

// HandleCreate processes a player placing a sign with the given proposed
// lines. Signs without the sale sentinel pass through untouched. On
// success the sign's lines are rewritten from the sale template and the
// region tag is persisted on the next tick, after the triggering event has
// fully resolved.
func (h *Handler) HandleCreate(ctx context.Context, player ulid.ULID, s *world.Sign) error {
	if !h.templates.Matches(s.Lines[0]) {
		return nil
	}

	if !h.grants.Has(player, PermCreate) {
		return h.fail(player, oops.Code(CodeCreateNoPermission).
			Errorf("player lacks %s", PermCreate))
	}

	r, err := h.resolvePlacementRegion(ctx, s)
	if err != nil {
		return h.fail(player, err)
	}

	if !r.IsOwner(player) && !h.grants.Has(player, PermCreateOthers) {
		return h.fail(player, oops.Code(CodeNotOwner).
			With("region", r.ID).
			Errorf("player does not own region %s", r.ID))
	}
	if !r.Bounds.Contains(s.Pos) && !h.grants.Has(player, PermCreateOutside) {
		return h.fail(player, oops.Code(CodeOutsideRegion).
			With("region", r.ID).
			Errorf("sign placed outside region %s", r.ID))
	}
	if !r.Buyable && !h.grants.Has(player, PermCreateMakeBuyable) {
		return h.fail(player, oops.Code(CodeNotSellable).
			With("region", r.ID).
			Errorf("region %s is not flagged for sale", r.ID))
	}

	price, err := h.resolvePrice(r, s.Lines[2])
	if err != nil {
		return h.fail(player, err)
	}
	typ := h.resolveType(player, r, s.Lines[3])

	if err := h.engine.MakeBuyable(ctx, r, price, typ); err != nil {
		return h.fail(player, err)
	}

	s.SetLines(h.templates.RenderSale(r))

	// The tag write must not land inside the still-resolving placement
	// event; it runs after the current interaction completes.
	h.ticks.Defer(func() {
		s.TagRegion(r.ID)
		if h.updateAll && h.sync != nil {
			if err := h.sync.Refresh(context.Background(), player, r, false); err != nil {
				errutil.LogWarn(h.logger, "region sign refresh after creation failed", err)
			}
		}
	})

	h.notifier.Message(player, h.catalog.Get("create-sign.success",
		"region", r.ID,
		"price", economy.FormatAmount(price)))
	return nil
}

// resolveSignRegion resolves the region a sale sign refers to, preferring
// the persisted tag over the second text line.
func (h *Handler) resolveSignRegion(ctx context.Context, s *world.Sign) (*region.Region, error) {
	id := s.RegionTag
	if id == "" {
		id = StripFormat(s.Lines[1])
	}
	r, err := h.registry.Get(ctx, id)
	if err != nil {
		return nil, oops.Code(CodeUnknownRegion).With("region", id).Wrap(err)
	}
	return r, nil
}

// resolvePlacementRegion resolves the target region during sign creation:
// an explicit identifier on line 2, or the highest-priority region
// containing the placement point.
func (h *Handler) resolvePlacementRegion(ctx context.Context, s *world.Sign) (*region.Region, error) {
	if id := StripFormat(s.Lines[1]); id != "" {
		r, err := h.registry.Get(ctx, id)
		if err != nil {
			return nil, oops.Code(CodeUnknownRegion).With("region", id).Wrap(err)
		}
		return r, nil
	}

	containing, err := h.registry.FindContaining(ctx, s.Pos)
	if err != nil {
		return nil, oops.In("sign").Wrapf(err, "containment lookup")
	}
	if len(containing) == 0 {
		return nil, oops.Code(CodeMissingRegion).
			Errorf("no region contains the placement point")
	}
	return containing[0], nil
}

// validateSaleLines re-validates a sale sign's price and type lines
// against the region's flags. A disagreement is a data-integrity problem
// in the world, not a player mistake; it aborts and is logged as a
// warning by fail.
func (h *Handler) validateSaleLines(r *region.Region, s *world.Sign) (float64, string, error) {
	raw := StripFormat(s.Lines[2])
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, "", oops.Code(CodeMalformedPrice).
			With("input", raw).
			With("region", r.ID).
			Wrapf(err, "unparseable price line")
	}
	if r.Price != nil && price != *r.Price {
		return 0, "", oops.Code(CodePriceMismatch).
			With("sign", raw).
			With("region", economy.FormatAmount(*r.Price)).
			Errorf("sign price %s disagrees with region price %s on %s",
				raw, economy.FormatAmount(*r.Price), r.ID)
	}

	typ := StripFormat(s.Lines[3])
	if r.Type != nil && typ != *r.Type {
		return 0, "", oops.Code(CodeTypeMismatch).
			With("sign", typ).
			With("region", *r.Type).
			Errorf("sign type %q disagrees with region type %q on %s", typ, *r.Type, r.ID)
	}
	return price, typ, nil
}

// resolvePrice takes a creation sign's price line, falling back to the
// region's existing price flag.
func (h *Handler) resolvePrice(r *region.Region, line string) (float64, error) {
	raw := StripFormat(line)
	if raw == "" {
		if r.Price != nil {
			return *r.Price, nil
		}
		return 0, oops.Code(CodeMissingPrice).
			With("region", r.ID).
			Errorf("no price on the sign or the region")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, oops.Code(CodeMalformedPrice).
			With("input", raw).
			Wrapf(err, "unparseable price line")
	}
	return price, nil
}

// resolveType takes a creation sign's type line. Setting an explicit type
// requires its own permission; without it the player is warned and the
// region's existing type flag is kept, as with a blank line.
func (h *Handler) resolveType(player ulid.ULID, r *region.Region, line string) string {
	typ := StripFormat(line)
	if typ == "" {
		return r.TypeLabel()
	}
	if !h.grants.Has(player, PermCreateType) {
		h.notifier.Message(player, h.catalog.Get("create-sign.cant-set-type"))
		return r.TypeLabel()
	}
	return typ
}

// fail delivers the failure to the player and passes the error through.
// Mismatch codes are surfaced in the log as data-integrity warnings.
func (h *Handler) fail(player ulid.ULID, err error) error {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case CodePriceMismatch, CodeTypeMismatch:
			errutil.LogWarn(h.logger, "sign disagrees with region registry", err)
		}
	}
	h.notifier.Message(player, PlayerMessage(h.catalog, err))
	return err
}
