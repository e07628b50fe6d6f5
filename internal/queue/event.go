// Package queue defines message payloads exchanged over the message broker.
package queue

// RateLimitDeniedEvent is published whenever the limiter denies a request.
// It contains enough information for the audit consumer to log the denial
// for anomaly review without querying any other component.
type RateLimitDeniedEvent struct {
    ActorID  int64  `json:"actor_id"`
    DeniedAt string `json:"denied_at"`
}
