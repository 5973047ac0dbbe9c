// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package sign

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Refreshes counts synchronizer passes by rendered state.
// Use RegisterMetrics to register this with a Prometheus registry.
var Refreshes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signplot_sign_refreshes_total",
		Help: "Total number of region sign refresh passes by rendered state",
	},
	[]string{"state"},
)

// RewrittenSigns counts individual signs rewritten by refresh passes.
// Use RegisterMetrics to register this with a Prometheus registry.
var RewrittenSigns = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "signplot_signs_rewritten_total",
		Help: "Total number of sign block entities rewritten by refresh passes",
	},
)

// RegisterMetrics registers sign package metrics with the given Prometheus
// registry. Panics if registration fails (following prometheus
// convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Refreshes)
	reg.MustRegister(RewrittenSigns)
}
