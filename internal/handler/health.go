package handler

import (
	"net/http"

	"handwriting/internal/pkg/response"
	"handwriting/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.healthStatus.IsReady() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Version 服務版本資訊
// @Summary 服務版本
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response{data=service.VersionInfo}
// @Router /version [get]
func (h *HealthHandler) Version(c *gin.Context) {
	response.Success(c, h.healthStatus.Version())
}
