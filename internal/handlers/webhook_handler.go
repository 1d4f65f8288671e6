package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher is what the webhook feeds updates into.
type Dispatcher interface {
	Dispatch(ctx context.Context, u *tgbotapi.Update) error
}

type WebhookHandler struct {
	Updates Dispatcher
	log     *slog.Logger
}

func NewWebhookHandler(updates Dispatcher, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{Updates: updates, log: log}
}

// Webhook принимает апдейт от Telegram. 500 заставляет Telegram повторить доставку,
// поэтому его отдаём только на ошибки обработки, не на мусорный JSON.
func (h *WebhookHandler) Webhook(c *gin.Context) {
	var up tgbotapi.Update
	if err := c.ShouldBindJSON(&up); err != nil {
		h.log.WarnContext(c.Request.Context(), "webhook: bind json", "error", err)
		c.Status(http.StatusOK)
		return
	}

	if err := h.Updates.Dispatch(c.Request.Context(), &up); err != nil {
		h.log.ErrorContext(c.Request.Context(), "webhook: dispatch", "update_id", up.UpdateID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
