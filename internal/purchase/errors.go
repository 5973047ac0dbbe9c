// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package purchase

import (
	"github.com/samber/oops"
)

// Error codes for purchase transaction failures. Every code aborts the
// transaction with zero region mutation.
const (
	CodeNotForSale        = "NOT_FOR_SALE"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodePaymentFailed     = "PAYMENT_FAILED"
	CodeValidation        = "VALIDATION_ERROR"
)

// ErrNotForSale creates an error for a region that is not flagged buyable.
func ErrNotForSale(regionID string) error {
	return oops.Code(CodeNotForSale).
		With("region", regionID).
		Errorf("region %s is not for sale", regionID)
}

// ErrInsufficientFunds creates an error for a buyer who cannot afford the price.
func ErrInsufficientFunds(regionID string, price float64) error {
	return oops.Code(CodeInsufficientFunds).
		With("region", regionID).
		With("price", price).
		Errorf("cannot afford %.2f for region %s", price, regionID)
}

// ErrPaymentFailed creates an error for a rejected withdrawal, carrying the
// ledger's reason.
func ErrPaymentFailed(regionID, reason string) error {
	return oops.Code(CodePaymentFailed).
		With("region", regionID).
		With("reason", reason).
		Errorf("withdrawal rejected: %s", reason)
}

// ValidationErrorf creates a pre-mutation input rejection.
func ValidationErrorf(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}
