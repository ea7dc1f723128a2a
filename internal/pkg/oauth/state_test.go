package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) (*StateStore, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewStateStore(client), cleanup
}

func TestStateStore_GenerateAndValidate(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	state, err := store.GenerateState(context.Background(), "https://jangatub.sn/app")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes hex

	redirectURI, err := store.ValidateState(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "https://jangatub.sn/app", redirectURI)
}

func TestStateStore_Validate_Consumed(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	state, err := store.GenerateState(context.Background(), "/app")
	require.NoError(t, err)

	_, err = store.ValidateState(context.Background(), state)
	require.NoError(t, err)

	// Second validation must fail: states are single-use.
	_, err = store.ValidateState(context.Background(), state)
	assert.Error(t, err)
}

func TestStateStore_Validate_Unknown(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	_, err := store.ValidateState(context.Background(), "deadbeef")
	assert.Error(t, err)

	_, err = store.ValidateState(context.Background(), "")
	assert.Error(t, err)
}
