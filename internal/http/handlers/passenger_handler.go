// README: Passenger handlers: request a ride, poll status, cancel.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ryde/internal/modules/dispatch"
	"ryde/internal/modules/trip"
	"ryde/internal/types"
)

type PassengerHandler struct {
	trips      *trip.Service
	dispatcher *dispatch.Coordinator
}

func NewPassengerHandler(trips *trip.Service, dispatcher *dispatch.Coordinator) *PassengerHandler {
	return &PassengerHandler{trips: trips, dispatcher: dispatcher}
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type requestRidePayload struct {
	RiderID     string       `json:"rider_id"`
	Origin      pointPayload `json:"origin"`
	Destination pointPayload `json:"destination"`
	Payment     string       `json:"payment"`
}

func (h *PassengerHandler) RequestRide(c *gin.Context) {
	var req requestRidePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		RiderID:     types.ID(req.RiderID),
		Origin:      types.Point{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination: types.Point{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		Payment:     trip.PaymentMethod(req.Payment),
	})
	if err != nil {
		writeTripError(c, err)
		return
	}

	// The round runs in the background; riders poll the trip status.
	h.dispatcher.DispatchAsync(id)

	writeJSON(c, http.StatusAccepted, gin.H{"trip_id": id, "status": trip.StatusRequested})
}

func (h *PassengerHandler) GetTrip(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	t, err := h.trips.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"trip_id":          t.ID,
		"status":           t.Status,
		"assigned_partner": t.AssignedPartner,
		"origin_zone":      t.OriginZone,
	})
}

func (h *PassengerHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	if err := h.trips.Cancel(c.Request.Context(), types.ID(id)); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": trip.StatusCancelled})
}
