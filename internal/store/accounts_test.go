// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresAccountLedger_Has(t *testing.T) {
	player := ulid.Make()

	tests := []struct {
		name      string
		amount    float64
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
		wantErr   bool
	}{
		{
			name:   "sufficient balance",
			amount: 50,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT balance FROM accounts`).
					WithArgs(player.String()).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(100.0))
			},
			want: true,
		},
		{
			name:   "insufficient balance",
			amount: 150,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT balance FROM accounts`).
					WithArgs(player.String()).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(100.0))
			},
			want: false,
		},
		{
			name:   "missing account means zero balance",
			amount: 1,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT balance FROM accounts`).
					WithArgs(player.String()).
					WillReturnError(pgx.ErrNoRows)
			},
			want: false,
		},
		{
			name:   "missing account still covers zero",
			amount: 0,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT balance FROM accounts`).
					WithArgs(player.String()).
					WillReturnError(pgx.ErrNoRows)
			},
			want: true,
		},
		{
			name:   "database error",
			amount: 1,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT balance FROM accounts`).
					WithArgs(player.String()).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			ledger := NewPostgresAccountLedger(mock)
			got, err := ledger.Has(context.Background(), player, tt.amount)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresAccountLedger_Withdraw(t *testing.T) {
	player := ulid.Make()

	t.Run("successful withdrawal", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`UPDATE accounts SET balance`).
			WithArgs(player.String(), 40.0).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		resp := NewPostgresAccountLedger(mock).Withdraw(context.Background(), player, 40)

		assert.True(t, resp.OK)
		assert.Equal(t, 40.0, resp.Amount)
	})

	t.Run("insufficient funds leaves the row untouched", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`UPDATE accounts SET balance`).
			WithArgs(player.String(), 40.0).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		resp := NewPostgresAccountLedger(mock).Withdraw(context.Background(), player, 40)

		assert.False(t, resp.OK)
		assert.Equal(t, "insufficient funds", resp.Reason)
	})

	t.Run("negative amount rejected without a query", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		resp := NewPostgresAccountLedger(mock).Withdraw(context.Background(), player, -1)

		assert.False(t, resp.OK)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("constraint violation carries the constraint name", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`UPDATE accounts SET balance`).
			WithArgs(player.String(), 40.0).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "accounts_balance_non_negative",
			})

		resp := NewPostgresAccountLedger(mock).Withdraw(context.Background(), player, 40)

		assert.False(t, resp.OK)
		assert.Contains(t, resp.Reason, "accounts_balance_non_negative")
	})
}

func TestPostgresAccountLedger_Deposit(t *testing.T) {
	player := ulid.Make()

	t.Run("creates the account row on first deposit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(player.String(), 25.0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		resp := NewPostgresAccountLedger(mock).Deposit(context.Background(), player, 25)

		assert.True(t, resp.OK)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error becomes a response reason", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(player.String(), 25.0).
			WillReturnError(errors.New("connection refused"))

		resp := NewPostgresAccountLedger(mock).Deposit(context.Background(), player, 25)

		assert.False(t, resp.OK)
		assert.Contains(t, resp.Reason, "connection refused")
	})
}

func TestPostgresAccountLedger_SetBalance(t *testing.T) {
	player := ulid.Make()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(player.String(), 500.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ledger := NewPostgresAccountLedger(mock)
	require.NoError(t, ledger.SetBalance(context.Background(), player, 500))
	assert.NoError(t, mock.ExpectationsWereMet())
}
