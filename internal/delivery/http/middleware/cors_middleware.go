package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware declares the single allowed origin on every response, error
// responses included, and answers preflight requests with 200 and no body.
//
// The contact endpoint is only ever called by the studio website, so there is
// no origin negotiation: browsers on any other origin are blocked.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
