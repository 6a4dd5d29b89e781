// Package metrics defines and registers all custom Prometheus metrics for the
// anime catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and served by the router's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntriesWrittenTotal counts successful writes to the catalog.
// Label:
//   - operation: "create", "replay", "replace" or "delete"
var EntriesWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_written_total",
		Help:      "Total number of catalog entry writes, by operation.",
	},
	[]string{"operation"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests.
// Label:
//   - reason: "missing_credentials", "invalid_credentials", "invalid_token" or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)
