// Package handler provides HTTP handlers for the dashboard API.
package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nepal9768/polytianqi/internal/api/models"
	"github.com/nepal9768/polytianqi/internal/api/response"
	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers *resilience.Registry
	forecasts *forecast.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, providers *resilience.Registry, forecasts *forecast.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
		forecasts: forecasts,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Reports
// forecast cache and provider circuit health; an open circuit degrades the
// status but readiness stays 200 because the dashboard still serves its
// error-notice view.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	overall := models.HealthStatusOK
	providers := make([]models.ProviderStatus, 0, h.providers.ProviderCount())
	for _, ph := range h.providers.GetAllHealth() {
		ps := models.ProviderStatus{
			Provider: ph.Name,
			Status:   models.HealthStatusOK,
		}
		if !ph.IsHealthy() {
			ps.Status = models.HealthStatusDegraded
			overall = models.HealthStatusDegraded
		}
		if ph.LastSuccessAt != nil {
			ts := models.Timestamp(*ph.LastSuccessAt)
			ps.LastSuccessAt = &ts
		}
		if ph.LastFailureAt != nil {
			ts := models.Timestamp(*ph.LastFailureAt)
			ps.LastFailureAt = &ts
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		providers = append(providers, ps)
	}

	stats := h.forecasts.CacheStats()
	cacheDetail := fmt.Sprintf("%d entries, %d fresh", stats.Entries, stats.FreshEntries)

	status := models.SystemStatus{
		Status: overall,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "forecast-cache", Status: models.HealthStatusOK, Detail: &cacheDetail},
		},
		Providers: providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}
