// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package purchase

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for purchase metrics.
const (
	StatusSuccess           = "success"
	StatusNotForSale        = "not_for_sale"
	StatusInsufficientFunds = "insufficient_funds"
	StatusQuotaExceeded     = "quota_exceeded"
	StatusPaymentFailed     = "payment_failed"
	StatusError             = "error"
)

// Purchases is the counter for purchase attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Purchases = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signplot_purchases_total",
		Help: "Total number of purchase attempts by outcome",
	},
	[]string{"status"},
)

// DepositFailures counts non-fatal seller deposit failures.
// Use RegisterMetrics to register this with a Prometheus registry.
var DepositFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "signplot_deposit_failures_total",
		Help: "Total number of non-fatal seller deposit failures",
	},
)

// RegisterMetrics registers purchase package metrics with the given
// Prometheus registry. Panics if registration fails (following prometheus
// convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Purchases)
	reg.MustRegister(DepositFailures)
}

// recordPurchase increments the purchase counter with the given status.
func recordPurchase(status string) {
	Purchases.WithLabelValues(status).Inc()
}
