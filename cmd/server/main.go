package main

import (
	"context"
	"log"
	"net/http"

	"fleetwatch/internal/config"
	"fleetwatch/internal/controllers"
	"fleetwatch/internal/geofence"
	"fleetwatch/internal/live"
	"fleetwatch/internal/logger"
	"fleetwatch/internal/middleware"
	"fleetwatch/internal/routes"
	"fleetwatch/internal/share"
	"fleetwatch/internal/store"
	"fleetwatch/internal/telematics"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	cfg := config.Load()

	// Connect to the database and migrate the occupancy schema
	config.InitDB()
	db := config.GetDB()

	// Durable stores
	memberships := store.NewMembershipStore(db)
	events := store.NewEventLog(db)
	leases := store.NewLeaseStore(db)
	shareStore := store.NewShareStore(db)

	// Telematics provider client
	api := telematics.NewClient(cfg.TelematicsURL, cfg.FetchTimeout)

	// Core engine + share gateway
	observer := geofence.NewObserver(cfg, api, memberships, events, leases)
	gateway := share.NewGateway(shareStore)

	// Read-side projection: occupancy hub + per-region pollers
	hub := live.NewHub()
	poller := live.NewPoller(cfg, api, hub)
	poller.Start(context.Background())

	controllers.Setup(cfg, observer, events, gateway, api, hub)

	r := routes.SetupRouter(cfg)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
