// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package region

import (
	"fmt"
	"unicode/utf8"
)

// ValidationError represents an input validation error. Validation failures
// are rejected before any mutation takes place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateID checks that a region identifier fits on a sign line.
func ValidateID(id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if !utf8.ValidString(id) {
		return &ValidationError{Field: "id", Message: "must be valid UTF-8"}
	}
	if len(id) > MaxIDLength {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("exceeds maximum length of %d", MaxIDLength)}
	}
	return nil
}

// ValidateType checks that a type label fits on a sign line. Empty is valid:
// untyped regions are exempt from quota checks.
func ValidateType(typ string) error {
	if len(typ) > MaxTypeLength {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("exceeds maximum length of %d", MaxTypeLength)}
	}
	if !utf8.ValidString(typ) {
		return &ValidationError{Field: "type", Message: "must be valid UTF-8"}
	}
	return nil
}

// ValidatePrice checks that a price is usable as a sale price.
func ValidatePrice(price float64) error {
	if price < 0 {
		return &ValidationError{Field: "price", Message: "cannot be negative"}
	}
	return nil
}
