// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package lang renders player-facing messages from configurable templates
// keyed by event name, with %placeholder% substitution.
package lang

import "strings"

// DefaultMessages returns the built-in message templates. Configuration
// entries override these key by key.
func DefaultMessages() map[string]string {
	return map[string]string{
		"buy.no-permission":            "You don't have permission to buy plots.",
		"buy.not-for-sale":             "The plot %region% is not for sale.",
		"buy.insufficient-funds":       "You can't afford %price% for plot %region%.",
		"buy.quota-exceeded":           "You already own the maximum number of %type% plots.",
		"buy.payment-failed":           "Payment failed: %reason%",
		"buy.price-mismatch":           "The sign price %sign% doesn't match the plot price %region%.",
		"buy.type-mismatch":            "The sign type %sign% doesn't match the plot type %region%.",
		"buy.bought-plot":              "You bought %region% for %price%!",
		"buy.plot-sold":                "Your plot %region% was sold to %buyer% for %price%.",
		"error.unknown-region":         "No plot with the id %region% exists.",
		"error.malformed-price":        "%input% is not a valid price.",
		"create-sign.no-permission":    "You don't have permission to create sale signs.",
		"create-sign.missing-region":   "There is no plot here. Put the plot id on the second line.",
		"create-sign.doesnt-own-plot":  "You don't own the plot %region%.",
		"create-sign.sign-outside-region": "The sign has to be inside the plot %region%.",
		"create-sign.region-not-sellable": "The plot %region% is not flagged for sale.",
		"create-sign.missing-price":    "No price set. Put the price on the third line.",
		"create-sign.cant-set-type":    "You don't have permission to set a plot type.",
		"create-sign.success":          "Plot %region% is now for sale for %price%!",
		"write.success":                "Sign successfully written!",
	}
}

// Catalog resolves message templates by key.
type Catalog struct {
	messages map[string]string
}

// NewCatalog builds a catalog from the defaults merged with overrides.
func NewCatalog(overrides map[string]string) *Catalog {
	messages := DefaultMessages()
	for k, v := range overrides {
		messages[k] = v
	}
	return &Catalog{messages: messages}
}

// Get renders the template for key, substituting %name% placeholders from
// pairwise args ("name", "value", ...). Unknown keys yield a marked
// fallback so a missing template is visible instead of silent.
func (c *Catalog) Get(key string, args ...string) string {
	message, ok := c.messages[key]
	if !ok {
		return "signplot: unknown language key " + key
	}
	for i := 0; i+1 < len(args); i += 2 {
		message = strings.ReplaceAll(message, "%"+args[i]+"%", args[i+1])
	}
	return message
}
