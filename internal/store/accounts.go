// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/signplot/signplot/internal/economy"
)

// PostgresAccountLedger implements economy.Ledger using PostgreSQL.
// Withdrawals rely on a conditional UPDATE so a concurrent drain between
// the balance check and the charge cannot overdraw an account.
type PostgresAccountLedger struct {
	pool poolIface
}

// NewPostgresAccountLedger creates a PostgreSQL account ledger.
func NewPostgresAccountLedger(pool poolIface) *PostgresAccountLedger {
	return &PostgresAccountLedger{pool: pool}
}

// Has implements economy.Ledger. An account with no row has a zero
// balance.
func (l *PostgresAccountLedger) Has(ctx context.Context, player ulid.ULID, amount float64) (bool, error) {
	var balance float64
	err := l.pool.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE player_id = $1`,
		player.String()).Scan(&balance)
	if errIsNoRows(err) {
		return amount <= 0, nil
	}
	if err != nil {
		return false, oops.With("operation", "read balance").
			With("player", player.String()).
			Wrap(err)
	}
	return balance >= amount, nil
}

// Withdraw implements economy.Ledger.
func (l *PostgresAccountLedger) Withdraw(ctx context.Context, player ulid.ULID, amount float64) economy.Response {
	if amount < 0 {
		return economy.Response{Reason: "negative amount"}
	}

	tag, err := l.pool.Exec(ctx,
		`UPDATE accounts SET balance = balance - $2
		 WHERE player_id = $1 AND balance >= $2`,
		player.String(), amount)
	if err != nil {
		return economy.Response{Reason: reasonFor(err)}
	}
	if tag.RowsAffected() == 0 {
		return economy.Response{Reason: "insufficient funds"}
	}
	return economy.Response{OK: true, Amount: amount}
}

// Deposit implements economy.Ledger. Depositing creates the account row
// if it doesn't exist yet.
func (l *PostgresAccountLedger) Deposit(ctx context.Context, player ulid.ULID, amount float64) economy.Response {
	if amount < 0 {
		return economy.Response{Reason: "negative amount"}
	}

	_, err := l.pool.Exec(ctx,
		`INSERT INTO accounts (player_id, balance) VALUES ($1, $2)
		 ON CONFLICT (player_id) DO UPDATE SET balance = accounts.balance + $2`,
		player.String(), amount)
	if err != nil {
		return economy.Response{Reason: reasonFor(err)}
	}
	return economy.Response{OK: true, Amount: amount}
}

// SetBalance overwrites an account's balance. Administrative surface, not
// part of economy.Ledger.
func (l *PostgresAccountLedger) SetBalance(ctx context.Context, player ulid.ULID, amount float64) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO accounts (player_id, balance) VALUES ($1, $2)
		 ON CONFLICT (player_id) DO UPDATE SET balance = $2`,
		player.String(), amount)
	if err != nil {
		return oops.With("operation", "set balance").
			With("player", player.String()).
			Wrap(err)
	}
	return nil
}

// reasonFor turns a database error into a ledger response reason,
// classifying constraint violations separately from plain failures.
func reasonFor(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return "constraint violation: " + pgErr.ConstraintName
		}
		if pgerrcode.IsTransactionRollback(pgErr.Code) {
			return "transaction rolled back"
		}
	}
	return "database error: " + err.Error()
}
