// Package config provides centralized timeout constants for the application.
//
// Every turn runs on in-memory data, so request budgets are small. The
// longer values cover catalog reloads, which read files or SQLite.
package config

import "time"

// HTTP server timeouts
const (
	// RequestProcessing bounds one API request, including a dialogue turn.
	RequestProcessing = 10 * time.Second

	// HTTPRead is the HTTP server read timeout. Chat payloads are small.
	HTTPRead = 10 * time.Second

	// HTTPWrite is the HTTP server write timeout.
	// Should accommodate RequestProcessing + response serialization.
	HTTPWrite = 15 * time.Second

	// HTTPIdle is the HTTP server idle timeout for keep-alive connections.
	HTTPIdle = 120 * time.Second
)

// Catalog timeouts
const (
	// CatalogLoad bounds one catalog load, at startup or through /admin/reload.
	CatalogLoad = 60 * time.Second
)

// Dialogue session lifetimes
const (
	// SessionTTL is how long a pending clarification waits for an answer.
	SessionTTL = 10 * time.Minute

	// SessionCleanupInterval is how often expired sessions are swept.
	SessionCleanupInterval = 5 * time.Minute

	// RateLimiterCleanup is how often idle chat rate-limit buckets are dropped.
	RateLimiterCleanup = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
