package v1

import (
	"net/http"

	"asperro-contact-backend/internal/delivery/http/response"
	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	r.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Health check
// @Description  Reports whether the API and its configured dependencies are reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	if h.healthUC == nil {
		response.Success(c, http.StatusOK, "OK")
		return
	}

	status, healthy := h.healthUC.Check(c.Request.Context())
	if !healthy {
		// Dependency details stay in the logs
		logger.Log.Warn("Health check degraded", "request_id", c.GetString("RequestID"), "status", status)
		response.Error(c, http.StatusServiceUnavailable, domain.MsgUnavailable)
		return
	}
	response.Success(c, http.StatusOK, "OK")
}
