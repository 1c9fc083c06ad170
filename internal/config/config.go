package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type ServiceConfig struct {
	TrackingURI   string `env:"MLFLOW_TRACKING_URI" envDefault:"http://mlflow:5000"`
	TrackingToken string `env:"MLFLOW_TRACKING_TOKEN"`
	ModelName     string `env:"MODEL_NAME" envDefault:"weather-forecaster"`
	ModelStage    string `env:"MODEL_STAGE" envDefault:"None"`
	ModelCacheDir string `env:"MODEL_CACHE_DIR" envDefault:"./models"`
	APIPort       int    `env:"API_PORT" envDefault:"8000"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	OnnxRuntimeDylib string `env:"ONNX_RUNTIME_DYLIB"`
	PyfuncScoringURL string `env:"PYFUNC_SCORING_URL"`
	DatabaseURL      string `env:"DATABASE_URL"`
	LogFile          string `env:"LOG_FILE"`
}

type FormConfig struct {
	BackendURL string `env:"BACKEND_URL" envDefault:"http://backend:8000"`
	FormPort   int    `env:"FORM_PORT" envDefault:"8501"`
	LogFile    string `env:"LOG_FILE"`
}

func LoadServiceConfig() (ServiceConfig, error) {
	cfg, err := env.ParseAs[ServiceConfig]()
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("error parsing service config: %w", err)
	}

	if cfg.ModelName == "" {
		return ServiceConfig{}, fmt.Errorf("MODEL_NAME must not be empty")
	}
	if cfg.TrackingURI == "" {
		return ServiceConfig{}, fmt.Errorf("MLFLOW_TRACKING_URI must not be empty")
	}
	cfg.TrackingURI = strings.TrimRight(cfg.TrackingURI, "/")

	if cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}

	return cfg, nil
}

func LoadFormConfig() (FormConfig, error) {
	cfg, err := env.ParseAs[FormConfig]()
	if err != nil {
		return FormConfig{}, fmt.Errorf("error parsing form config: %w", err)
	}

	if cfg.BackendURL == "" {
		return FormConfig{}, fmt.Errorf("BACKEND_URL must not be empty")
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	return cfg, nil
}
