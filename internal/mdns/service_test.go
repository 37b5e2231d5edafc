package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "_crate._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
	assert.NotEmpty(t, ServerVersion)
}

func TestNewService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	service := NewService(logger)

	require.NotNil(t, service)
	assert.Nil(t, service.server, "server should be nil before Start")
}

func TestServiceStop(t *testing.T) {
	t.Run("stop when not started is safe", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		service := NewService(logger)

		service.Stop()
		assert.Nil(t, service.server)
	})

	t.Run("stop can be called multiple times", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		service := NewService(logger)

		service.Stop()
		service.Stop()
		service.Stop()
	})
}

func TestServiceStart(t *testing.T) {
	// Avahi needs a running daemon on the system bus; skip where absent
	// (Docker, CI).
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	service := NewService(logger)

	err := service.Start("server-test-123", "Test Server", 8080)
	if err != nil {
		t.Skipf("avahi not available in this environment: %v", err)
	}

	assert.NotNil(t, service.server)
	assert.Contains(t, buf.String(), "mDNS advertisement started")

	service.Stop()
	assert.Nil(t, service.server)
	assert.Contains(t, buf.String(), "mDNS advertisement stopped")
}
