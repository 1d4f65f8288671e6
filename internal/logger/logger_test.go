package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"joingate/internal/logger"
	"joingate/internal/models"
)

func TestHandlerAddsContextAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, slog.LevelDebug).With("component", "test")

	ctx := logger.WithOwner(context.Background(), models.OwnerID{Community: "grammyjs", UserID: 7})
	ctx = logger.WithUpdateID(ctx, 100)
	ctx = logger.WithStage(ctx, "symbol")
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "test", rec["component"])
	require.Equal(t, "grammyjs", rec["community"])
	require.EqualValues(t, 7, rec["user_id"])
	require.EqualValues(t, 100, rec["update_id"])
	require.Equal(t, "symbol", rec["stage"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}
