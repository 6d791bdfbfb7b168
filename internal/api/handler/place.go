package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/api/models"
	"github.com/vbelide9/wayvue/internal/api/response"
)

// ReverseGeocoder resolves coordinates to an address.
type ReverseGeocoder interface {
	ReverseResolve(ctx context.Context, lat, lon float64, full bool) (string, error)
}

// PlaceHandler handles place detail lookups.
type PlaceHandler struct {
	geocoder ReverseGeocoder
	logger   zerolog.Logger
}

// NewPlaceHandler creates a new place handler.
func NewPlaceHandler(geocoder ReverseGeocoder, logger zerolog.Logger) *PlaceHandler {
	return &PlaceHandler{geocoder: geocoder, logger: logger}
}

// PlaceDetails handles POST /api/place-details, returning the full
// reverse-geocoded address for a coordinate.
func (h *PlaceHandler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
			{Field: "lat", Message: "latitude must be in [-90, 90]", Code: "range"},
			{Field: "lon", Message: "longitude must be in [-180, 180]", Code: "range"},
		})
		return
	}

	address, err := h.geocoder.ReverseResolve(r.Context(), req.Lat, req.Lon, true)
	if err != nil {
		h.logger.Error().Err(err).
			Float64("lat", req.Lat).
			Float64("lon", req.Lon).
			Msg("reverse geocode failed")
		response.ServiceUnavailable(w, r, "address lookup is temporarily unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.PlaceDetailsResponse{Address: address})
}
