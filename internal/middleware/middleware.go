package middleware

import (
	"time"

	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request once it completes
func RequestLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("clientIP", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Int64("memberID", GetIdentity(c).MemberID).
			Msg("Request handled")
	}
}
