package main

import (
	"log"
	"net/http"

	"github.com/kweiss/dealcast/internal/config"
	"github.com/kweiss/dealcast/internal/engine"
	"github.com/kweiss/dealcast/internal/handlers"
	"github.com/kweiss/dealcast/internal/logger"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	// Initialize proper logging with config level and file path
	if err := logger.InitWithConfig(cfg.Logging.LogLevel, cfg.Logging.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger.Always.Printf("🎯 Dealcast simulation client starting - Port: %s", cfg.Port)

	if cfg.Engine.Endpoint == "" {
		log.Fatal("Engine endpoint is required (set engine.endpoint in config.yaml or DEALCAST_ENGINE_ENDPOINT)")
	}
	logger.Info.Printf("🎲 Remote engine: %s (timeout %v)", cfg.Engine.Endpoint, cfg.EngineTimeout())

	runner := engine.NewClient(cfg.Engine.Endpoint, cfg.EngineTimeout())
	simHandler := handlers.NewSimulationHandler(runner, cfg)

	r := mux.NewRouter()

	// Web interface
	r.HandleFunc("/", simHandler.HomeHandler).Methods("GET")
	r.HandleFunc("/simulate", simHandler.SimulateHandler).Methods("POST")
	r.HandleFunc("/charts/irr", simHandler.IRRChartHandler).Methods("GET")
	r.HandleFunc("/charts/moic", simHandler.MOICChartHandler).Methods("GET")

	// JSON API
	r.HandleFunc("/api/simulate", simHandler.APISimulateHandler).Methods("POST")
	r.HandleFunc("/healthz", simHandler.HealthHandler).Methods("GET")

	addr := ":" + cfg.Port
	log.Printf("🌐 Dealcast listening on %s", addr)
	logger.Always.Printf("🌐 Listening on %s", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
