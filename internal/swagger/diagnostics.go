package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route DELETE /cache Diagnostics ClearCache
// Evicts every employee from the cache (no-op without a cache).
//
// responses:
//   204: DiagnosticsResponseNoContent

// swagger:route GET /cache/counters Diagnostics ReadCacheCounters
// Reads the cache hits and misses per operation.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CacheCountersReadResponseOk

// swagger:route DELETE /cache/counters Diagnostics ClearCacheCounters
// Resets the cache hits and misses.
//
// responses:
//   204: DiagnosticsResponseNoContent

// swagger:route GET /timers Diagnostics ReadTimers
// Reads the total and average duration (nanoseconds) per endpoint, only
// populated when SERVICE_TIMERS_ENABLED is set.
//
//     Produces:
//     - application/json
//
// responses:
//   200: TimersReadResponseOk

// swagger:route DELETE /timers Diagnostics ClearTimers
// Clears the endpoint timers.
//
// responses:
//   204: DiagnosticsResponseNoContent

// swagger:response DiagnosticsResponseNoContent
type DiagnosticsResponseNoContent struct{}

// swagger:response CacheCountersReadResponseOk
type CacheCountersReadResponseOk struct {
	// in:body
	CacheCounters data.CacheCounters
}

// swagger:response TimersReadResponseOk
type TimersReadResponseOk struct {
	// in:body
	Timers data.Timers
}

// swagger:parameters ClearCache ReadCacheCounters ClearCacheCounters ReadTimers ClearTimers
type DiagnosticsParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
