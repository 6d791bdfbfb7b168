package handler

import (
	"net/http"

	"github.com/vbelide9/wayvue/internal/api/models"
	"github.com/vbelide9/wayvue/internal/api/response"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version  string
	registry *resilience.Registry
}

// NewOpsHandler creates a new ops handler.
func NewOpsHandler(version string, registry *resilience.Registry) *OpsHandler {
	if registry == nil {
		registry = resilience.GlobalRegistry
	}
	return &OpsHandler{version: version, registry: registry}
}

// HealthCheck handles GET /api/health. Always returns 200 while the
// process is serving.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// ReadinessCheck handles GET /api/ready. Reports per-upstream circuit
// breaker health; any open circuit degrades readiness to 503.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	upstreams := make(map[string]models.UpstreamStatus)
	ready := true

	for _, health := range h.registry.GetAllHealth() {
		healthy := !health.IsUnhealthy()
		if !healthy {
			ready = false
		}
		upstreams[health.Name] = models.UpstreamStatus{
			Healthy:   healthy,
			LastError: health.LastError,
		}
	}

	status := http.StatusOK
	body := models.ReadyResponse{Status: "ready", Upstreams: upstreams}
	if !ready {
		status = http.StatusServiceUnavailable
		body.Status = "degraded"
	}

	response.JSON(w, r, status, body)
}
