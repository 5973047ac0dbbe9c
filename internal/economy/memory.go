// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package economy

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
)

// MemoryLedger is an in-process Ledger backed by a balance map. Safe for
// concurrent use so tests can exercise it outside the game thread.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[ulid.ULID]float64

	// FailDeposits forces Deposit to fail; tests use it to exercise the
	// purchase engine's partial-failure path.
	FailDeposits bool

	// FailWithdrawals forces Withdraw to fail even when the balance
	// covers the amount, simulating a rejection between the balance
	// check and the charge.
	FailWithdrawals bool
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: map[ulid.ULID]float64{}}
}

// SetBalance sets a player's balance directly.
func (l *MemoryLedger) SetBalance(player ulid.ULID, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[player] = amount
}

// Balance returns a player's balance.
func (l *MemoryLedger) Balance(player ulid.ULID) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[player]
}

// Has implements Ledger.
func (l *MemoryLedger) Has(_ context.Context, player ulid.ULID, amount float64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[player] >= amount, nil
}

// Withdraw implements Ledger.
func (l *MemoryLedger) Withdraw(_ context.Context, player ulid.ULID, amount float64) Response {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailWithdrawals {
		return Response{Reason: "account frozen"}
	}
	if amount < 0 {
		return Response{Reason: "negative amount"}
	}
	if l.balances[player] < amount {
		return Response{Reason: "insufficient funds"}
	}
	l.balances[player] -= amount
	return Response{OK: true, Amount: amount}
}

// Deposit implements Ledger.
func (l *MemoryLedger) Deposit(_ context.Context, player ulid.ULID, amount float64) Response {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailDeposits {
		return Response{Reason: "account frozen"}
	}
	if amount < 0 {
		return Response{Reason: "negative amount"}
	}
	l.balances[player] += amount
	return Response{OK: true, Amount: amount}
}
