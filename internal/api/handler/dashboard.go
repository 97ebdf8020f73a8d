package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nepal9768/polytianqi/internal/api/models"
	"github.com/nepal9768/polytianqi/internal/api/response"
	"github.com/nepal9768/polytianqi/internal/dashboard"
)

// DashboardHandler handles the temperature dashboard endpoint.
type DashboardHandler struct {
	renderer *dashboard.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(renderer *dashboard.Renderer) *DashboardHandler {
	return &DashboardHandler{renderer: renderer}
}

// GetDashboard handles GET /v1/dashboard - render the dashboard view model
// for one station, unit, and peak-time offset.
//
// Query parameters:
//   - station (required): registry key of the station
//   - unit: C or F, defaults to C
//   - offset_h, offset_m: signed integer offsets applied to the peak clock
//
// A provider outage is not an HTTP error: the renderer returns a view model
// carrying only the error notice, and the handler serves it with 200.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stationKey := q.Get("station")
	if stationKey == "" {
		response.BadRequest(w, r, "station is required", []models.FieldError{
			{Field: "station", Message: "required"},
		})
		return
	}

	unit, err := dashboard.ParseUnit(q.Get("unit"))
	if err != nil {
		response.BadRequest(w, r, "invalid unit, expected C or F", []models.FieldError{
			{Field: "unit", Message: "must be C or F"},
		})
		return
	}

	offsetH, fiErr := parseOffset(q.Get("offset_h"), "offset_h")
	if fiErr != nil {
		response.BadRequest(w, r, "invalid offset", []models.FieldError{*fiErr})
		return
	}
	offsetM, fiErr := parseOffset(q.Get("offset_m"), "offset_m")
	if fiErr != nil {
		response.BadRequest(w, r, "invalid offset", []models.FieldError{*fiErr})
		return
	}

	vm, err := h.renderer.Render(r.Context(), dashboard.State{
		StationKey:    stationKey,
		Unit:          unit,
		OffsetHours:   offsetH,
		OffsetMinutes: offsetM,
	})
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownStation) {
			response.NotFound(w, r, "station not found")
			return
		}
		response.InternalError(w, r, "unexpected failure")
		return
	}

	response.JSON(w, r, http.StatusOK, vm)
}

// parseOffset parses an optional signed integer query parameter.
func parseOffset(raw, field string) (int, *models.FieldError) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.FieldError{Field: field, Message: "must be an integer"}
	}
	return v, nil
}
