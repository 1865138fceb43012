package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledReturnsNoop(t *testing.T) {
	pub, err := New(Config{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, pub)

	assert.NoError(t, pub.Publish(context.Background(), map[string]string{"id": "x"}))
	pub.Close()
}

func TestNew_UnreachableServer(t *testing.T) {
	_, err := New(Config{URL: "nats://127.0.0.1:1", TimeoutSeconds: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connect to NATS")
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{URL: "nats://localhost:4222"}.Enabled())
}
