// README: Entry point; loads config, wires stores and the dispatcher, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ryde/internal/config"
	httptransport "ryde/internal/http"
	"ryde/internal/infra"
	"ryde/internal/maps"
	"ryde/internal/modules/dispatch"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	if cfg.Maps.APIKey == "" {
		log.Fatal("RYDE_MAPS_API_KEY is required")
	}
	router, err := maps.NewDistanceService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	var notifier dispatch.Notifier
	if cfg.Firebase.ProjectID != "" {
		fcm, err := notify.NewFCMService(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
		notifier = fcm
	}

	partnerStore := partner.NewStore(dbPool, redisClient)
	partnerSvc := partner.NewService(partnerStore)

	tripStore := trip.NewStore(dbPool, redisClient)
	tripSvc := trip.NewService(tripStore, partnerStore)

	pool := dispatch.NewPool(partnerStore, router)
	coordinator := dispatch.NewCoordinator(
		partnerStore, tripStore, pool, notifier, dispatch.SystemClock, cfg.Dispatch,
	)

	handler := httptransport.NewRouter(tripSvc, partnerSvc, coordinator)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
