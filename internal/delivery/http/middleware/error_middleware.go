package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"asperro-contact-backend/internal/delivery/http/response"
	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/apperror"
	"asperro-contact-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			requestID, _ := c.Get("RequestID")

			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if !appErr.CallerFixable() {
					logger.Log.Error("Request failed", "request_id", requestID, "kind", appErr.Kind, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message)
				return
			}

			// SECURITY: Never expose internal error details to clients.
			logger.Log.Error("Internal Server Error", "request_id", requestID, "error", err)
			response.Error(c, http.StatusInternalServerError, domain.MsgServerError)
		}
	}
}

// Recovery converts panics into the generic server error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID, _ := c.Get("RequestID")
		logger.Log.Error("Recovered from panic", "request_id", requestID, "panic", fmt.Sprint(recovered), "stack", string(debug.Stack()))
		response.Error(c, http.StatusInternalServerError, domain.MsgServerError)
		c.Abort()
	})
}
