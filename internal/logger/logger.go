package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"joingate/internal/models"
)

type ctxKey uint8

const (
	ctxKeyOwner ctxKey = iota
	ctxKeyUpdateID
	ctxKeyStage
)

// Handler дописывает в каждую запись владельца сессии и id апдейта из контекста.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(ctxKeyOwner).(models.OwnerID); ok {
		record.Add("community", v.Community, "user_id", v.UserID)
	}
	if v, ok := ctx.Value(ctxKeyUpdateID).(int); ok && v != 0 {
		record.Add("update_id", v)
	}
	if v, ok := ctx.Value(ctxKeyStage).(string); ok && v != "" {
		record.Add("stage", v)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&Handler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	})
}

// Discard is a logger for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func WithOwner(ctx context.Context, owner models.OwnerID) context.Context {
	return context.WithValue(ctx, ctxKeyOwner, owner)
}

func WithUpdateID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ctxKeyUpdateID, id)
}

func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage, stage)
}
