package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"spicymarket/auth"
	"spicymarket/config"
	"spicymarket/storage"
)

func TestOrderWorker_DrainsUntilClosed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	queue := make(chan int64, 2)
	queue <- 1717000000000
	queue <- 1717000000001
	close(queue)

	orderWorker(queue, zap.New(core))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, int64(1717000000001), logs.All()[1].ContextMap()["order_id"])
}

func TestSeedDemoUser_Idempotent(t *testing.T) {
	store, err := storage.NewStore(storage.NewMemoryKV(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, seedDemoUser(t.Context(), store))
	require.NoError(t, seedDemoUser(t.Context(), store))

	users, err := store.Users(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 1)

	p := &auth.LocalProvider{Users: store}
	principal, err := p.Authenticate(t.Context(), "1", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", principal.Username)
}

func TestSessionRegistry_RejectsUnknownStore(t *testing.T) {
	_, _, err := sessionRegistry(t.Context(), &config.Config{SessionStore: "etcd"})
	assert.Error(t, err)

	reg, closeFn, err := sessionRegistry(t.Context(), &config.Config{SessionStore: "memory"})
	require.NoError(t, err)
	defer closeFn()
	assert.NotNil(t, reg)
}
