// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/signplot/signplot/internal/economy"
	"github.com/signplot/signplot/internal/lang"
	"github.com/signplot/signplot/internal/purchase"
	"github.com/signplot/signplot/internal/quota"
)

// Error codes for sign protocol failures. Mismatch codes flag a
// disagreement between sign text and the registry; they are logged as
// data-integrity warnings, unlike plain input rejections.
const (
	CodeNoPermission       = "SIGN_NO_PERMISSION"
	CodeCreateNoPermission = "SIGN_CREATE_NO_PERMISSION"
	CodeUnknownRegion      = "REGION_NOT_FOUND"
	CodeMissingRegion      = "SIGN_MISSING_REGION"
	CodeMalformedPrice     = "SIGN_MALFORMED_PRICE"
	CodePriceMismatch      = "SIGN_PRICE_MISMATCH"
	CodeTypeMismatch       = "SIGN_TYPE_MISMATCH"
	CodeNotOwner           = "SIGN_NOT_OWNER"
	CodeOutsideRegion      = "SIGN_OUTSIDE_REGION"
	CodeNotSellable        = "SIGN_REGION_NOT_SELLABLE"
	CodeMissingPrice       = "SIGN_MISSING_PRICE"
)

// messageKeys maps error codes to language catalog keys. Codes outside
// this map fall through to the raw error text.
var messageKeys = map[string]string{
	CodeNoPermission:               "buy.no-permission",
	CodeCreateNoPermission:         "create-sign.no-permission",
	CodeUnknownRegion:              "error.unknown-region",
	CodeMissingRegion:              "create-sign.missing-region",
	CodeMalformedPrice:             "error.malformed-price",
	CodePriceMismatch:              "buy.price-mismatch",
	CodeTypeMismatch:               "buy.type-mismatch",
	CodeNotOwner:                   "create-sign.doesnt-own-plot",
	CodeOutsideRegion:              "create-sign.sign-outside-region",
	CodeNotSellable:                "create-sign.region-not-sellable",
	CodeMissingPrice:               "create-sign.missing-price",
	purchase.CodeNotForSale:        "buy.not-for-sale",
	purchase.CodeInsufficientFunds: "buy.insufficient-funds",
	purchase.CodePaymentFailed:     "buy.payment-failed",
	quota.CodeQuotaExceeded:        "buy.quota-exceeded",
}

// PlayerMessage renders the single user-facing message for a protocol
// failure, substituting placeholders from the error's context.
func PlayerMessage(catalog *lang.Catalog, err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return err.Error()
	}
	code, _ := oopsErr.Code().(string)
	key, ok := messageKeys[code]
	if !ok {
		return err.Error()
	}

	var args []string
	for name, value := range oopsErr.Context() {
		args = append(args, name, contextString(value))
	}
	return catalog.Get(key, args...)
}

func contextString(v any) string {
	if f, ok := v.(float64); ok {
		return economy.FormatAmount(f)
	}
	return fmt.Sprint(v)
}
