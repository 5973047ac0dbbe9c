// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package economy defines the money ledger boundary used by the purchase
// engine, plus an in-process implementation for tests and standalone mode.
package economy

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Response is the outcome of a ledger mutation. Reason carries the
// ledger's human-readable explanation when OK is false.
type Response struct {
	OK     bool
	Amount float64
	Reason string
}

// Ledger is the economy boundary. Calls are synchronous-fast; the purchase
// engine never retries a failed mutation.
type Ledger interface {
	// Has reports whether the player can afford the amount.
	Has(ctx context.Context, player ulid.ULID, amount float64) (bool, error)

	// Withdraw removes the amount from the player's balance.
	Withdraw(ctx context.Context, player ulid.ULID, amount float64) Response

	// Deposit adds the amount to the player's balance.
	Deposit(ctx context.Context, player ulid.ULID, amount float64) Response
}
