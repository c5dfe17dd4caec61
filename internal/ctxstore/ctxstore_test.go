package ctxstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const _testKey = Key("traceId")

func TestRoundTrip(t *testing.T) {
	ctx := With(context.Background(), _testKey, "abc")

	value, ok := From[string](ctx, _testKey)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	_, ok = From[int](ctx, _testKey)
	assert.False(t, ok)
}

func TestMissing(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "-", FromOr(ctx, _testKey, "-"))
}
