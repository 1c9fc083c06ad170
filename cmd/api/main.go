package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"weather-forecaster/cmd"
	"weather-forecaster/internal/api"
	"weather-forecaster/internal/config"
	"weather-forecaster/internal/core"
	"weather-forecaster/internal/database"
	"weather-forecaster/internal/registry"
	"weather-forecaster/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

const modelLoadTimeout = 10 * time.Minute

func createArtifactStore(cfg config.ServiceConfig, client *registry.Client) *storage.ArtifactStore {
	store := storage.NewArtifactStore().
		Register(storage.SchemeFile, storage.NewLocalProvider("")).
		Register(storage.SchemeMlflowArtifacts, client.Artifacts())

	s3p, err := storage.NewS3Provider(&storage.S3ProviderConfig{
		S3EndpointURL:     cfg.S3EndpointURL,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		S3Region:          cfg.S3Region,
	})
	if err != nil {
		slog.Warn("s3 artifact store unavailable, s3:// artifact uris will fail to load", "error", err)
	} else {
		store.Register(storage.SchemeS3, s3p)
	}

	return store
}

func createDatabase(url string) *gorm.DB {
	if url == "" {
		slog.Info("DATABASE_URL not set, prediction log disabled")
		return nil
	}

	db, err := database.NewDatabase(url)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func createServer(lifecycle *core.Lifecycle, db *gorm.DB, port int) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	apiHandler := api.NewBackendService(lifecycle, db)
	apiHandler.AddRoutes(r)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	log.Println("Starting prediction service...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadServiceConfig()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	closeLog, err := cmd.SetupLogFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("error setting up log file: %v", err)
	}
	defer closeLog()

	slog.Info("starting backend", "tracking_uri", cfg.TrackingURI, "model", cfg.ModelName, "stage", cfg.ModelStage, "port", cfg.APIPort)

	onnxEnabled, destroyOnnx := initOnnx(cfg.OnnxRuntimeDylib)
	defer destroyOnnx()

	db := createDatabase(cfg.DatabaseURL)

	client := registry.NewClient(cfg.TrackingURI, cfg.TrackingToken)

	loaders := core.NewModelLoaders(core.LoaderOptions{
		OnnxEnabled: onnxEnabled,
		ScoringURL:  cfg.PyfuncScoringURL,
	})

	resolver := core.NewResolver(
		core.ResolverConfig{ModelName: cfg.ModelName, Stage: cfg.ModelStage, CacheDir: cfg.ModelCacheDir},
		client,
		createArtifactStore(cfg, client),
		loaders,
	)

	lifecycle := core.NewLifecycle()
	defer lifecycle.Close()

	// The server only starts once a model is ready; a failed load stops the process.
	ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
	err = lifecycle.Load(ctx, resolver)
	cancel()
	if err != nil {
		log.Fatalf("could not load model %s (stage %s) from %s: %v", cfg.ModelName, cfg.ModelStage, cfg.TrackingURI, err)
	}

	cmd.RunServer(createServer(lifecycle, db, cfg.APIPort), "API server")
}
