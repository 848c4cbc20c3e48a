// Package sentry reports errors to Better Stack through its Sentry-compatible
// ingest endpoint. Every function is a no-op until Initialize succeeds with a
// token.
package sentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry configuration for Better Stack integration.
type Config struct {
	// Token is the Better Stack Errors application token. Empty disables reporting.
	Token string

	// Host is the Better Stack Errors ingesting host (e.g., "errors.betterstack.com").
	Host string

	Environment string
	Release     string

	// SampleRate controls error sampling (0.0-1.0, default 1.0).
	SampleRate float64

	Debug bool
}

// ErrMissingHost is returned when a token is configured without a host.
var ErrMissingHost = errors.New("sentry host is required when token is provided")

// DSN builds the Better Stack DSN: https://TOKEN@HOST/1. The project ID is
// required by the SDK and ignored by Better Stack.
func (c Config) DSN() string {
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host)
}

// Initialize sets up the Sentry SDK. An empty Token leaves reporting off
// and returns nil.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return ErrMissingHost
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 || sampleRate > 1 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN(),
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
		BeforeSend:       scrubMessage,
	})
}

// scrubMessage drops the request body from events. Chat bodies hold the
// user's free text.
func scrubMessage(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		event.Request.Data = ""
	}
	return event
}

// Flush waits for buffered events to be sent.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether a client is installed.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

func hubFrom(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}
	}
	return sentry.CurrentHub()
}

// CaptureException reports err on the request's hub when ctx carries one.
func CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hubFrom(ctx).CaptureException(err)
}

// CaptureCatalogError reports a failed catalog load, tagged with the
// source that produced it.
func CaptureCatalogError(ctx context.Context, source string, err error) {
	if err == nil {
		return
	}
	hub := hubFrom(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "catalog")
		scope.SetTag("catalog_source", source)
		scope.SetLevel(sentry.LevelError)
		hub.CaptureException(err)
	})
}

// CaptureMessage reports a plain message.
func CaptureMessage(message string) {
	sentry.CaptureMessage(message)
}
