package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gorilla/sessions"

	"banking-web-prototype/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "web.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	// Gorilla cookie store for per-browser session management.
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))

	client := core.NewBackendClient(cfg)

	// Telemetry is optional: without Redis the client runs the same, it
	// just records nothing.
	var metrics *core.MetricsService
	var heartbeat *core.HeartbeatState
	observers := []core.OperationObserver{}
	if cfg.RedisURL != "" {
		redisClient, err := core.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer redisClient.Close()

		metrics = core.NewMetricsService(redisClient)
		heartbeat = core.NewHeartbeatState(core.NewInstanceID())
		observers = append(observers, metrics, heartbeat)
		go heartbeat.Start(ctx, redisClient)
	}

	api := core.NewBankingAPI(client, observers...)

	if probe := api.TestConnection(ctx); probe.OK {
		log.Printf("backend reachable at %s", cfg.BackendURL)
	} else {
		// Not fatal: the backend may come up later and every request
		// degrades to a normalized failure Result anyway.
		log.Printf("backend not reachable at %s: %s", cfg.BackendURL, probe.Err)
	}

	router := core.NewRouter(cfg, store, api, metrics)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting banking web client on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
