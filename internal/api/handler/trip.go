// Package handler implements the Wayvue API endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/api/models"
	"github.com/vbelide9/wayvue/internal/api/response"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/internal/trip"
)

// LegProcessor runs the trip enrichment pipeline for one leg.
type LegProcessor interface {
	ProcessLeg(ctx context.Context, input trip.LegInput) (*trip.Leg, error)
}

// TripHandler handles trip planning requests.
type TripHandler struct {
	processor LegProcessor
	logger    zerolog.Logger
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(processor LegProcessor, logger zerolog.Logger) *TripHandler {
	return &TripHandler{processor: processor, logger: logger}
}

// ComputeRoute handles POST /api/route. One-way requests return a single
// enriched leg; round trips return outbound and return legs.
func (h *TripHandler) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	var req models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	req.Start = strings.TrimSpace(req.Start)
	req.End = strings.TrimSpace(req.End)

	var fieldErrors []models.FieldError
	if req.Start == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "start", Message: "start location is required", Code: "required",
		})
	}
	if req.End == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "end", Message: "end location is required", Code: "required",
		})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "missing required fields", fieldErrors)
		return
	}

	outbound, ok := h.processLeg(w, r, legInput(req, false))
	if !ok {
		return
	}

	if !req.RoundTrip {
		response.JSON(w, r, http.StatusOK, outbound)
		return
	}

	returnLeg, ok := h.processLeg(w, r, legInput(req, true))
	if !ok {
		return
	}

	response.JSON(w, r, http.StatusOK, models.RoundTripResponse{
		RoundTrip: true,
		Outbound:  outbound,
		Return:    returnLeg,
	})
}

// processLeg runs one leg and writes the error response on failure. The
// boolean reports whether processing succeeded.
func (h *TripHandler) processLeg(w http.ResponseWriter, r *http.Request, input trip.LegInput) (*trip.Leg, bool) {
	leg, err := h.processor.ProcessLeg(r.Context(), input)
	if err == nil {
		return leg, true
	}

	h.logger.Error().Err(err).
		Str("start", input.Start).
		Str("end", input.End).
		Msg("leg processing failed")

	if errors.Is(err, trip.ErrEndpointNotResolved) {
		response.UnprocessableEntity(w, r, "one or more locations could not be resolved")
		return nil, false
	}

	response.InternalError(w, r, "failed to compute route")
	return nil, false
}

// legInput maps the API request onto a processor input. The return leg
// swaps endpoints and uses the return schedule.
func legInput(req models.RouteRequest, isReturn bool) trip.LegInput {
	input := trip.LegInput{
		Start:         req.Start,
		End:           req.End,
		StartCoords:   toCoordinate(req.StartCoords),
		EndCoords:     toCoordinate(req.EndCoords),
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		Scenic:        req.Preference == models.PreferenceScenic,
	}

	if isReturn {
		input.Start, input.End = input.End, input.Start
		input.StartCoords, input.EndCoords = input.EndCoords, input.StartCoords
		input.DepartureDate = req.ReturnDate
		input.DepartureTime = req.ReturnTime
	}

	return input
}

func toCoordinate(c *models.Coords) *routing.Coordinate {
	if c == nil {
		return nil
	}
	return &routing.Coordinate{Lat: c.Lat, Lon: c.Lon}
}
