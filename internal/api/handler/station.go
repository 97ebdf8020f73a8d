package handler

import (
	"net/http"

	"github.com/nepal9768/polytianqi/internal/api/models"
	"github.com/nepal9768/polytianqi/internal/api/response"
	"github.com/nepal9768/polytianqi/internal/station"
)

// StationHandler handles station listing endpoints.
type StationHandler struct {
	stations *station.Registry
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stations *station.Registry) *StationHandler {
	return &StationHandler{stations: stations}
}

// ListStations handles GET /v1/stations - the selectable station set.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	keys := h.stations.Keys()
	items := make([]models.StationInfo, 0, len(keys))
	for _, key := range keys {
		st, ok := h.stations.Get(key)
		if !ok {
			continue
		}
		items = append(items, models.StationInfo{
			Key:      st.Key,
			Point:    models.Point{Lat: st.Lat, Lon: st.Lon},
			Timezone: st.Timezone,
		})
	}

	// The table is fixed at build time, so clients may cache it aggressively.
	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.StationList{Items: items})
}
