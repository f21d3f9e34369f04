// README: Zone supply snapshot for ops dashboards.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ryde/internal/modules/partner"
)

type ZoneHandler struct {
	partners *partner.Service
}

func NewZoneHandler(partners *partner.Service) *ZoneHandler {
	return &ZoneHandler{partners: partners}
}

func (h *ZoneHandler) Supply(c *gin.Context) {
	supply, err := h.partners.SupplyByZone(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"supply": supply})
}
