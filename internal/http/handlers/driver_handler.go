// README: Driver handlers: accept/decline offers, availability, location.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/types"
)

type DriverHandler struct {
	trips    *trip.Service
	partners *partner.Service
}

func NewDriverHandler(trips *trip.Service, partners *partner.Service) *DriverHandler {
	return &DriverHandler{trips: trips, partners: partners}
}

func (h *DriverHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	partnerID := c.Query("partner_id")
	if id == "" || partnerID == "" {
		writeError(c, http.StatusBadRequest, "missing trip or partner id")
		return
	}
	err := h.trips.Accept(c.Request.Context(), types.ID(id), types.ID(partnerID))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": trip.StatusAssigned})
}

func (h *DriverHandler) Decline(c *gin.Context) {
	id := c.Param("id")
	partnerID := c.Query("partner_id")
	if id == "" || partnerID == "" {
		writeError(c, http.StatusBadRequest, "missing trip or partner id")
		return
	}
	if err := h.trips.Decline(c.Request.Context(), types.ID(id), types.ID(partnerID)); err != nil {
		writePartnerError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "declined"})
}

type availabilityPayload struct {
	Online bool `json:"online"`
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing partner id")
		return
	}
	var req availabilityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.partners.SetAvailability(c.Request.Context(), types.ID(id), req.Online); err != nil {
		writePartnerError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"online": req.Online})
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing partner id")
		return
	}
	var req pointPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	pos := types.Point{Lat: req.Lat, Lng: req.Lng}
	if err := h.partners.UpdateLocation(c.Request.Context(), types.ID(id), pos); err != nil {
		writePartnerError(c, err)
		return
	}
	p, err := h.partners.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writePartnerError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"zone": p.Zone})
}
