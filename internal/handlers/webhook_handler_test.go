package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"joingate/internal/logger"
)

type dispatchFunc func(ctx context.Context, u *tgbotapi.Update) error

func (f dispatchFunc) Dispatch(ctx context.Context, u *tgbotapi.Update) error { return f(ctx, u) }

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWebhook(t *testing.T, d Dispatcher, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/hook", NewWebhookHandler(d, logger.Discard()).Webhook)

	req := httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookDispatchesUpdate(t *testing.T) {
	t.Parallel()

	var got *tgbotapi.Update
	w := serveWebhook(t, dispatchFunc(func(_ context.Context, u *tgbotapi.Update) error {
		got = u
		return nil
	}), `{"update_id":42,"message":{"message_id":1,"date":0,"text":"BAR","from":{"id":1001,"is_bot":false,"first_name":"Ann"},"chat":{"id":1001,"type":"private"}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	require.Equal(t, 42, got.UpdateID)
	require.Equal(t, "BAR", got.Message.Text)
	require.Equal(t, int64(1001), got.Message.From.ID)
}

func TestWebhookBadJSONIsAcknowledged(t *testing.T) {
	t.Parallel()

	w := serveWebhook(t, dispatchFunc(func(context.Context, *tgbotapi.Update) error {
		t.Fatal("dispatch must not run")
		return nil
	}), `{not json`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookDispatchErrorAsksForRedelivery(t *testing.T) {
	t.Parallel()

	w := serveWebhook(t, dispatchFunc(func(context.Context, *tgbotapi.Update) error {
		return errors.New("store down")
	}), `{"update_id":1}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/healthz", Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
