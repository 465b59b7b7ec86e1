// Package observability provides event logging, metrics calculation,
// alerting and webhook notification for dayplan. Events are persisted as
// JSON Lines (JSONL); metrics and alerts are derived on demand from the log.
package observability
