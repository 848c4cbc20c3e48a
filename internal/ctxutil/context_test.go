package ctxutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionID(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GetSessionID(context.Background()))

	ctx := WithSessionID(context.Background(), "sess-1")
	assert.Equal(t, "sess-1", GetSessionID(ctx))

	ctx = WithSessionID(ctx, "sess-2")
	assert.Equal(t, "sess-2", GetSessionID(ctx), "inner value wins")
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	_, ok := GetRequestID(context.Background())
	assert.False(t, ok)

	id, ok := GetRequestID(WithRequestID(context.Background(), "req-9"))
	assert.True(t, ok)
	assert.Equal(t, "req-9", id)
}

func TestKeysDoNotCollide(t *testing.T) {
	t.Parallel()
	ctx := WithRequestID(WithSessionID(context.Background(), "s"), "r")
	assert.Equal(t, "s", GetSessionID(ctx))
	id, _ := GetRequestID(ctx)
	assert.Equal(t, "r", id)
	assert.Nil(t, ctx.Value("ctxutil.sessionID"), "plain string keys cannot reach the values")
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithRequestID(WithSessionID(parent, "sess-1"), "req-1")
	cancel()
	require.Error(t, parent.Err())

	ctx := PreserveTracing(parent)
	assert.NoError(t, ctx.Err(), "detached from the parent's cancellation")
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
	assert.Equal(t, "sess-1", GetSessionID(ctx))
	id, ok := GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	bare := PreserveTracing(context.Background())
	_, ok = GetRequestID(bare)
	assert.False(t, ok)
}
