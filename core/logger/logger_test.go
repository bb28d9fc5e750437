package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sarpras/alatclient/core/logger"
)

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error attribute", func(t *testing.T) {
		t.Parallel()

		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, "boom", attr.Value.Any().(error).Error())
	})

	t.Run("nil error yields empty attr", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Attr{}, logger.Error(nil))
		assert.Equal(t, slog.Attr{}, logger.Key("k", nil))
		assert.Equal(t, slog.Attr{}, logger.ID("k", nil))
	})

	t.Run("typed attributes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Int64("user_id", 7), logger.UserID(7))
		assert.Equal(t, slog.String("method", "GET"), logger.Method("GET"))
		assert.Equal(t, slog.String("path", "/alat"), logger.Path("/alat"))
		assert.Equal(t, slog.Int("status_code", 401), logger.StatusCode(401))
		assert.Equal(t, slog.Duration("duration", time.Second), logger.Duration(time.Second))
	})
}

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOutput(&buf)

	log.Info("session saved", logger.UserID(7))
	out := buf.String()
	assert.Contains(t, out, "session saved")
	assert.Contains(t, out, "user_id=7")

	buf.Reset()
	log.Debug("hidden at default level")
	assert.Empty(t, buf.String())
}
