package routes

import (
	"github.com/gin-gonic/gin"

	"joingate/internal/handlers"
	"joingate/internal/middleware"
)

const WebhookPath = "/telegram/webhook"

func SetupRoutes(
	r *gin.Engine,
	webhookHandler *handlers.WebhookHandler,
	secret string,
) *gin.Engine {
	// ---- public
	r.GET("/healthz", handlers.Health)

	// ---- telegram
	r.POST(WebhookPath, middleware.WebhookSecret(secret), webhookHandler.Webhook)

	return r
}
