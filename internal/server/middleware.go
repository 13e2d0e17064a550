package server

import (
	"strings"
	"time"

	"github.com/fieldops/metas/internal/principalctx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrincipalMiddleware propagates the authenticated user into the request
// context. Session verification happens upstream (reverse proxy / auth
// gateway); this service only needs an attributable identity.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader("X-User-ID")); userID != "" {
			c.Request = c.Request.WithContext(
				principalctx.WithUserID(c.Request.Context(), userID),
			)
		}
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
