package middleware

import (
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/statichead/rabbitears/internal/logger"
)

const (
	// APIKeyHeader carries the shared secret on mutating requests.
	APIKeyHeader = "X-API-Key"
	// APIKeyParam is the query fallback for clients that cannot set headers.
	APIKeyParam = "api_key"
)

// APIKeyAuth returns a Gin middleware that gates requests behind a shared
// API key. An empty secret disables the gate entirely: the server is meant
// to run on a private network and authentication is opt-in.
func APIKeyAuth(secret string) gin.HandlerFunc {
	var warnOnce sync.Once
	return func(c *gin.Context) {
		if secret == "" {
			warnOnce.Do(func() {
				logger.Log.Warn().Msg("no API key configured, mutating endpoints are unprotected")
			})
			c.Next()
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			provided = c.Query(APIKeyParam)
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			if provided != "" {
				logger.Log.Warn().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Msg("rejected request with bad API key")
			}
			c.Header("WWW-Authenticate", "ApiKey")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "a valid API key is required",
			})
			return
		}

		c.Next()
	}
}
