package config_test

import (
	"testing"

	"weather-forecaster/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceConfigDefaults(t *testing.T) {
	cfg, err := config.LoadServiceConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://mlflow:5000", cfg.TrackingURI)
	assert.Equal(t, "weather-forecaster", cfg.ModelName)
	assert.Equal(t, "None", cfg.ModelStage)
	assert.Equal(t, "./models", cfg.ModelCacheDir)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.OnnxRuntimeDylib)
}

func TestServiceConfigFromEnv(t *testing.T) {
	t.Setenv("MLFLOW_TRACKING_URI", "http://localhost:5001/")
	t.Setenv("MODEL_NAME", "forecaster-v2")
	t.Setenv("MODEL_STAGE", "Production")
	t.Setenv("API_PORT", "9000")
	t.Setenv("DATABASE_URL", "/tmp/predictions.db")

	cfg, err := config.LoadServiceConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5001", cfg.TrackingURI)
	assert.Equal(t, "forecaster-v2", cfg.ModelName)
	assert.Equal(t, "Production", cfg.ModelStage)
	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "/tmp/predictions.db", cfg.DatabaseURL)
}

func TestServiceConfigInvalid(t *testing.T) {
	t.Setenv("API_PORT", "not-a-port")
	_, err := config.LoadServiceConfig()
	assert.Error(t, err)
}

func TestFormConfig(t *testing.T) {
	cfg, err := config.LoadFormConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.BackendURL)
	assert.Equal(t, 8501, cfg.FormPort)

	t.Setenv("BACKEND_URL", "http://localhost:8000/")
	t.Setenv("FORM_PORT", "8080")
	cfg, err = config.LoadFormConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 8080, cfg.FormPort)
}
