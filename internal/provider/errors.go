package provider

import "errors"

// ErrCircuitOpen is returned when a reconnect attempt is suppressed by
// the reconnect circuit breaker (an enrichment over spec.md §4.8's bare
// lazy-reopen; see internal/provider/reconnect.go).
var ErrCircuitOpen = errors.New("provider: reconnect circuit is open")
