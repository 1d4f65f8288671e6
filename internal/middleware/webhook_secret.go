package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecretTokenHeader carries the secret_token passed to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecret отклоняет запросы без правильного секрета. При пустом секрете проверка выключена.
func WebhookSecret(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := []byte(strings.TrimSpace(c.GetHeader(SecretTokenHeader)))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
			return
		}
		c.Next()
	}
}
