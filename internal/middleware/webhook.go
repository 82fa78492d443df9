package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebhookSecretHeader carries the shared secret of channel webhooks.
const WebhookSecretHeader = "X-Channel-Webhook-Secret"

// WebhookSecret rejects requests whose header or ?secret= value does not match
// secret. An empty configured secret rejects everything.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(WebhookSecretHeader)
		if given == "" {
			given = c.Query("secret")
		}
		if secret == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or missing webhook secret"},
			})
			return
		}
		c.Next()
	}
}
