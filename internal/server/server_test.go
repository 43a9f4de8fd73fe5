package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-assistant/backend/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.ServerHost = "localhost"
	cfg.ServerPort = "9090"

	s := New(cfg, http.NotFoundHandler(), nil)
	assert.Equal(t, "localhost:9090", s.Addr())
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = "0"
	s := New(cfg, http.NotFoundHandler(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Second) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	cfg := config.Default()
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = "99999"
	s := New(cfg, http.NotFoundHandler(), nil)

	err := s.Run(context.Background(), time.Second)
	assert.Error(t, err)
}
