// Package metrics defines the custom Prometheus metrics of the library API.
// All collectors are registered with the default registry on package init
// through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ── Book metrics ──────────────────────────────────────────────────────────────

// BooksRegisteredTotal counts books stored through POST /books. Idempotent
// replays are not counted here.
var BooksRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_registered_total",
		Help:      "Total number of books registered.",
	},
)

// BookMutationsTotal counts update and delete attempts.
// Labels:
//   - operation: "update" or "delete"
//   - result: "ok", "not_found" or "error"
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of book update/delete attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts lending actions.
// Labels:
//   - action: "checkout" or "return"
//   - result: "ok", "conflict", "not_found" or "error"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout and return attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// IdempotentReplaysTotal counts requests short-circuited by a reused
// Idempotency-Key.
// Label:
//   - operation: "register_book" or "checkout"
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of requests answered from a previously used idempotency key.",
	},
	[]string{"operation"},
)
