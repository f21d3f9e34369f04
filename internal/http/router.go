// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ryde/internal/http/handlers"
	"ryde/internal/http/middleware"
	"ryde/internal/modules/dispatch"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
)

func NewRouter(
	tripService *trip.Service,
	partnerService *partner.Service,
	dispatcher *dispatch.Coordinator,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), middleware.Auth())

	passengerHandler := handlers.NewPassengerHandler(tripService, dispatcher)
	r.POST("/api/trips", passengerHandler.RequestRide)
	r.GET("/api/trips/:id", passengerHandler.GetTrip)
	r.POST("/api/trips/:id/cancel", passengerHandler.Cancel)

	driverHandler := handlers.NewDriverHandler(tripService, partnerService)
	r.POST("/api/trips/:id/accept", driverHandler.Accept)
	r.POST("/api/trips/:id/decline", driverHandler.Decline)
	r.POST("/api/partners/:id/availability", driverHandler.SetAvailability)
	r.PUT("/api/partners/:id/location", driverHandler.UpdateLocation)

	zoneHandler := handlers.NewZoneHandler(partnerService)
	r.GET("/api/zones/supply", zoneHandler.Supply)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
