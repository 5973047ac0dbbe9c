// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package economy

import (
	"math"
	"strconv"
)

// FormatAmount renders a money amount the way it appears on signs and in
// player messages: no trailing zeros, full precision otherwise.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// FloorCents rounds an amount down to two decimal places. Seller proceeds
// are always floored so distribution remainders never over-pay.
func FloorCents(amount float64) float64 {
	return math.Floor(amount*100) / 100
}
