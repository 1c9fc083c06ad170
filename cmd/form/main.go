package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"weather-forecaster/cmd"
	"weather-forecaster/internal/config"
	"weather-forecaster/internal/form"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	log.Println("Starting client form...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadFormConfig()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	closeLog, err := cmd.SetupLogFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("error setting up log file: %v", err)
	}
	defer closeLog()

	slog.Info("starting form", "backend_url", cfg.BackendURL, "port", cfg.FormPort)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	form.NewFormServer(form.NewClient(cfg.BackendURL)).AddRoutes(r)

	cmd.RunServer(&http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.FormPort),
		Handler: r,
	}, "Form server")
}
