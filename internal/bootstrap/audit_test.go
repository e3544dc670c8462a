package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := NewStdoutAuditLogger(zap.New(core))

	audit.Log(context.Background(), AuditLog{
		Action:  "server_start",
		Message: "HTTP server starting",
		Meta:    map[string]any{"addr": ":8080"},
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "server_start", fields["action"])
	assert.Equal(t, "HTTP server starting", fields["message"])
	assert.Equal(t, map[string]any{"addr": ":8080"}, fields["meta"])
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("9000")

	assert.Equal(t, "9000", cfg.Port)
	assert.Greater(t, cfg.ReadTimeout, time.Duration(0))
	assert.Greater(t, cfg.ShutdownTimeout, time.Duration(0))
}
