package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Equal(t, Actor{}, ActorFromContext(ctx))

	ctx = WithRequestID(ctx, " req-1 ")
	ctx = WithActor(ctx, Actor{UserID: "42", Role: "admin"})
	ctx = WithClient(ctx, Client{IPAddress: "10.0.0.1", UserAgent: "curl"})

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "admin", ActorFromContext(ctx).Role)
	assert.Equal(t, "10.0.0.1", ClientFromContext(ctx).IPAddress)
}
