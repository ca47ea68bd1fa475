package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ridebook/internal/domain"
	"ridebook/internal/middleware"
	"ridebook/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for requesting a ride.
type CreateRideRequest struct {
	PickupLocation      string `json:"pickup_location"`
	DestinationLocation string `json:"destination_location"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                  string  `json:"id"`
	RiderID             string  `json:"rider_id"`
	DriverID            string  `json:"driver_id,omitempty"`
	PickupLocation      string  `json:"pickup_location"`
	DestinationLocation string  `json:"destination_location"`
	DistanceKm          float64 `json:"distance_km"`
	DurationMinutes     float64 `json:"duration_minutes"`
	Fare                int64   `json:"fare"`
	Status              string  `json:"status"`
	RequestedAt         string  `json:"requested_at"`
	AcceptedAt          string  `json:"accepted_at,omitempty"`
	PickedUpAt          string  `json:"picked_up_at,omitempty"`
	TransitStartedAt    string  `json:"transit_started_at,omitempty"`
	CompletedAt         string  `json:"completed_at,omitempty"`
	CancelledAt         string  `json:"cancelled_at,omitempty"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Fare            int64   `json:"fare"`
	Estimated       bool    `json:"estimated"`
}

func toRideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:                  ride.ID,
		RiderID:             ride.RiderID,
		DriverID:            ride.DriverID,
		PickupLocation:      ride.PickupLocation,
		DestinationLocation: ride.DestinationLocation,
		DistanceKm:          ride.DistanceKm,
		DurationMinutes:     ride.DurationMinutes,
		Fare:                ride.Fare,
		Status:              string(ride.Status),
		RequestedAt:         ride.RequestedAt.Format(time.RFC3339),
	}
	if !ride.AcceptedAt.IsZero() {
		resp.AcceptedAt = ride.AcceptedAt.Format(time.RFC3339)
	}
	if !ride.PickedUpAt.IsZero() {
		resp.PickedUpAt = ride.PickedUpAt.Format(time.RFC3339)
	}
	if !ride.TransitStartedAt.IsZero() {
		resp.TransitStartedAt = ride.TransitStartedAt.Format(time.RFC3339)
	}
	if !ride.CompletedAt.IsZero() {
		resp.CompletedAt = ride.CompletedAt.Format(time.RFC3339)
	}
	if !ride.CancelledAt.IsZero() {
		resp.CancelledAt = ride.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	responses := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, toRideResponse(r))
	}
	return responses
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), actor, service.CreateRideRequest{
		PickupLocation:      req.PickupLocation,
		DestinationLocation: req.DestinationLocation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.Accept(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// PickupRide handles POST /v1/rides/:id/pickup
func (h *RideHandler) PickupRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.Pickup(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// StartTransit handles POST /v1/rides/:id/start
func (h *RideHandler) StartTransit(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.StartTransit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Complete(c.Request.Context(), actor, c.Param("id"), service.CompleteRideRequest{
		DistanceKm:      req.DistanceKm,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ReleaseRide handles POST /v1/rides/:id/release
func (h *RideHandler) ReleaseRide(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	ride, err := h.rideService.Release(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetAvailable handles GET /v1/rides/available
func (h *RideHandler) GetAvailable(c *gin.Context) {
	rides, err := h.rideService.GetAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	rides, err := h.rideService.GetAll(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetMyRides handles GET /v1/rides/me
func (h *RideHandler) GetMyRides(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	query := service.HistoryQuery{
		Status:   domain.RideStatus(c.Query("status")),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.DefaultQuery("sort_order", "desc") == "desc",
	}

	if v := c.Query("page"); v != "" {
		query.Page, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		query.Limit, _ = strconv.Atoi(v)
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from date"})
			return
		}
		query.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to date"})
			return
		}
		query.To = t
	}

	rides, err := h.rideService.History(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// EstimateFare handles GET /v1/rides/estimate
func (h *RideHandler) EstimateFare(c *gin.Context) {
	estimate, err := h.rideService.EstimateFare(c.Query("pickup"), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EstimateResponse{
		DistanceKm:      estimate.DistanceKm,
		DurationMinutes: estimate.DurationMinutes,
		Fare:            estimate.Fare,
		Estimated:       true,
	})
}
