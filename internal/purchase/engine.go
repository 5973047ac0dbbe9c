// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package purchase implements the transactional sale engine. Payment
// success is the commit point: ownership never transfers without a
// confirmed withdrawal, but a seller-side deposit failure after payment
// does not roll the sale back.
package purchase

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/signplot/signplot/pkg/errutil"

	"github.com/signplot/signplot/internal/economy"
	"github.com/signplot/signplot/internal/intent"
	"github.com/signplot/signplot/internal/lang"
	"github.com/signplot/signplot/internal/quota"
	"github.com/signplot/signplot/internal/region"
)

// Refresher propagates a region's sale state to its physical signs.
// This mirrors sign.Synchronizer to avoid coupling purchase to sign.
type Refresher interface {
	Refresh(ctx context.Context, actor ulid.ULID, r *region.Region, sold bool) error
}

// Notifier is the host's player messaging surface.
type Notifier interface {
	// IsReachable reports whether the player can receive a message now.
	IsReachable(player ulid.ULID) bool

	// Message delivers a message to a reachable player.
	Message(player ulid.ULID, message string)

	// Name returns the player's display name.
	Name(player ulid.ULID) string
}

// PermissionGranter grants a permission node to a player. Regions carrying
// a buy-permission flag use this on purchase.
type PermissionGranter interface {
	Grant(player ulid.ULID, node string) error
}

// TaxConfig is the sale tax surface.
type TaxConfig struct {
	// Fixed is the flat amount deducted from every sale.
	Fixed float64

	// ShareRate is the fraction of the price deducted, in [0,1].
	ShareRate float64
}

// EngineConfig holds dependencies for the purchase engine.
type EngineConfig struct {
	Ledger   economy.Ledger
	Registry region.Registry
	Quota    *quota.Checker
	Pending  *intent.MessageIntents
	Notifier Notifier
	Catalog  *lang.Catalog
	Logger   *slog.Logger

	// Refresher may be nil when no sign synchronizer is wired.
	Refresher Refresher

	// Granter may be nil; buy-permission flags are then ignored.
	Granter PermissionGranter

	Tax TaxConfig

	// UpdateSignsOnSale triggers a region-wide sign refresh after a sale.
	UpdateSignsOnSale bool
}

// Engine orchestrates sale transactions. All mutating operations run on
// the game thread; the engine keeps no region state between calls.
type Engine struct {
	ledger    economy.Ledger
	registry  region.Registry
	quota     *quota.Checker
	pending   *intent.MessageIntents
	notifier  Notifier
	catalog   *lang.Catalog
	logger    *slog.Logger
	refresher Refresher
	granter   PermissionGranter
	tax       TaxConfig
	updateAll bool
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ledger:    cfg.Ledger,
		registry:  cfg.Registry,
		quota:     cfg.Quota,
		pending:   cfg.Pending,
		notifier:  cfg.Notifier,
		catalog:   cfg.Catalog,
		logger:    logger,
		refresher: cfg.Refresher,
		granter:   cfg.Granter,
		tax:       cfg.Tax,
		updateAll: cfg.UpdateSignsOnSale,
	}
}

// MakeBuyable flags a region for sale at the given price and type.
// Returns a ValidationError before any mutation if the identifier or type
// does not fit on a sign line, or the price is negative.
func (e *Engine) MakeBuyable(ctx context.Context, r *region.Region, price float64, typ string) error {
	if err := region.ValidateID(r.ID); err != nil {
		return err
	}
	if err := region.ValidateType(typ); err != nil {
		return err
	}
	if err := region.ValidatePrice(price); err != nil {
		return err
	}

	r.Buyable = true
	r.Price = &price
	if typ == "" {
		r.Type = nil
	} else {
		r.Type = &typ
	}
	if err := e.registry.Save(ctx, r); err != nil {
		return oops.In("purchase").With("region", r.ID).Wrapf(err, "save region")
	}
	return nil
}

// Buy executes a purchase transaction. The asserted price and type have
// already been checked against the region's flags by the caller; Buy
// re-checks only the sale gates it owns.
//
// Order matters: the buyer's withdrawal (the commit point) strictly
// precedes the ownership transfer, and seller deposits after a successful
// withdrawal are non-fatal.
func (e *Engine) Buy(ctx context.Context, buyer ulid.ULID, r *region.Region, price float64, typ string) error {
	if !r.Buyable {
		recordPurchase(StatusNotForSale)
		return ErrNotForSale(r.ID)
	}

	affords, err := e.ledger.Has(ctx, buyer, price)
	if err != nil {
		recordPurchase(StatusError)
		return oops.In("purchase").With("region", r.ID).Wrapf(err, "balance check")
	}
	if !affords {
		recordPurchase(StatusInsufficientFunds)
		return ErrInsufficientFunds(r.ID, price)
	}

	if err := e.quota.CheckTypeCount(ctx, buyer, typ); err != nil {
		recordPurchase(StatusQuotaExceeded)
		return err
	}

	owners := r.Owners()
	share := e.ownerShare(price, len(owners))

	if resp := e.ledger.Withdraw(ctx, buyer, price); !resp.OK {
		recordPurchase(StatusPaymentFailed)
		return ErrPaymentFailed(r.ID, resp.Reason)
	}

	// The buyer has paid; everything from here on completes the sale.
	e.payOwners(ctx, buyer, r, owners, share, price)
	e.grantBuyPermission(buyer, r)

	r.Buyable = false
	if r.Price == nil {
		r.Price = &price
	}
	if r.Type == nil && typ != "" {
		r.Type = &typ
	}
	r.ClearOwners()
	r.AddOwner(buyer)
	if err := e.registry.Save(ctx, r); err != nil {
		recordPurchase(StatusError)
		return oops.In("purchase").With("region", r.ID).Wrapf(err, "commit ownership transfer")
	}

	if e.updateAll && e.refresher != nil {
		if err := e.refresher.Refresh(ctx, buyer, r, true); err != nil {
			errutil.LogWarn(e.logger, "sign refresh after sale failed", err)
		}
	}

	recordPurchase(StatusSuccess)
	return nil
}

// DeliverPending drains and delivers a player's queued sale notifications.
// The host calls this when the player becomes reachable. Returns the
// number of messages delivered.
func (e *Engine) DeliverPending(player ulid.ULID) int {
	messages := e.pending.Drain(player)
	for _, msg := range messages {
		e.notifier.Message(player, msg)
	}
	return len(messages)
}

// ownerShare computes the per-owner proceeds: the price minus the fixed
// tax and the tax share, divided evenly, floored to cents.
func (e *Engine) ownerShare(price float64, ownerCount int) float64 {
	if ownerCount == 0 {
		return 0
	}
	net := price - e.tax.Fixed - price*e.tax.ShareRate
	if net < 0 {
		net = 0
	}
	return economy.FloorCents(net / float64(ownerCount))
}

// payOwners deposits each previous owner's share and notifies them of the
// sale, queueing a message intent for anyone unreachable.
func (e *Engine) payOwners(ctx context.Context, buyer ulid.ULID, r *region.Region, owners []ulid.ULID, share, price float64) {
	soldMsg := e.catalog.Get("buy.plot-sold",
		"region", r.ID,
		"buyer", e.notifier.Name(buyer),
		"price", economy.FormatAmount(price))

	for _, owner := range owners {
		if resp := e.ledger.Deposit(ctx, owner, share); !resp.OK {
			DepositFailures.Inc()
			e.logger.Warn("seller deposit failed",
				"region", r.ID,
				"owner", owner.String(),
				"share", share,
				"reason", resp.Reason)
		}
		if e.notifier.IsReachable(owner) {
			e.notifier.Message(owner, soldMsg)
		} else {
			e.pending.Append(owner, soldMsg)
		}
	}
}

// grantBuyPermission grants the region's buy-permission flag to the buyer,
// if both the flag and a granter are present. Failures are logged only.
func (e *Engine) grantBuyPermission(buyer ulid.ULID, r *region.Region) {
	if r.BuyPermission == nil || e.granter == nil {
		return
	}
	if err := e.granter.Grant(buyer, *r.BuyPermission); err != nil {
		errutil.LogWarn(e.logger, "buy-permission grant failed", err)
	}
}
