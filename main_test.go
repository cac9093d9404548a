package main

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/config"
	"github.com/vladimiradmaev/glucose-diary/internal/events"
)

func TestNewStateManager_Memory(t *testing.T) {
	manager, closeFn, err := newStateManager(&config.Config{StateBackend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &state.Manager{}, manager)
	assert.NoError(t, closeFn())
}

func TestNewStateManager_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		StateBackend: config.BackendRedis,
		Redis:        config.RedisConfig{Host: mr.Host(), Port: mr.Port(), StateTTL: time.Hour},
	}

	manager, closeFn, err := newStateManager(cfg)
	require.NoError(t, err)
	assert.IsType(t, &state.RedisManager{}, manager)
	assert.NoError(t, closeFn())
}

func TestNewStateManager_RedisUnreachableReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	cfg := &config.Config{
		StateBackend: config.BackendRedis,
		Redis:        config.RedisConfig{Host: host, Port: port, StateTTL: time.Hour},
	}

	manager, closeFn, err := newStateManager(cfg)
	require.Error(t, err)
	assert.Nil(t, manager)
	assert.Nil(t, closeFn)
}

func TestNewPublisher_DisabledIsNoop(t *testing.T) {
	assert.Equal(t, events.Noop{}, newPublisher(config.AMQPConfig{}))
}

func TestCloseQuietly(t *testing.T) {
	called := false
	closeQuietly("test", func() error {
		called = true
		return errors.New("already closed")
	})
	assert.True(t, called)
}
