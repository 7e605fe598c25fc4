package main

import (
	"flag"
	"net/http"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Configuration error: %v", err)
	}
	defer service.Close()

	mux := http.NewServeMux()
	mux.Handle("/", handlers.NewRouter(service))
	mux.Handle("GET /metrics", promhttp.Handler())

	logger.Info.Printf("Starting quizdash on %s", service.Config.Server.Port)
	logger.Debug.Printf("Reading %s from %s backend", service.Config.Backend.Table, service.Source.Name())
	logger.Debug.Printf("Snapshot TTL: %s, timezone: %s", service.Config.CacheTTL(), service.Config.Display.Timezone)
	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("Quizdash server failed: %v", err)
	}
}
