package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestTaskID(t *testing.T) {
	ctx := WithTaskID(context.Background(), 42)

	id, ok := GetTaskID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = GetTaskID(context.Background())
	assert.False(t, ok)
}
