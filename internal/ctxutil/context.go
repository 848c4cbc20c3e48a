// Package ctxutil carries the chat session ID and HTTP request ID through
// contexts so logs and error reports can be correlated with a conversation.
package ctxutil

import (
	"context"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	requestIDKey
)

// WithSessionID tags ctx with the chat session being answered.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID returns the session ID, or "" when ctx has none.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithRequestID tags ctx with the HTTP request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID and whether ctx carries one.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// PreserveTracing returns a context that keeps ctx's session and request IDs
// but none of its deadline or cancellation. An admin reload runs under it so
// a disconnecting caller cannot abort the swap halfway.
func PreserveTracing(ctx context.Context) context.Context {
	out := context.Background()
	if id := GetSessionID(ctx); id != "" {
		out = WithSessionID(out, id)
	}
	if id, ok := GetRequestID(ctx); ok && id != "" {
		out = WithRequestID(out, id)
	}
	return out
}
