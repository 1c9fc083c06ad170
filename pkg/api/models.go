package api

import (
	"time"

	"github.com/google/uuid"
)

type PredictionRequest struct {
	TodayTemp float64 `json:"today_temp" schema:"today_temp"`
	Humidity  float64 `json:"humidity" schema:"humidity"`
	WindSpeed float64 `json:"wind_speed" schema:"wind_speed"`
}

type PredictionResponse struct {
	Prediction []float64 `json:"prediction"`
}

const (
	StatusOk            = "ok"
	StatusModelNotReady = "model_not_ready"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type ErrorResponse struct {
	Error   string             `json:"error"`
	Details []ValidationDetail `json:"details,omitempty"`
}

type ModelInfo struct {
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	Uri      string    `json:"uri"`
	Source   string    `json:"source"`
	Flavor   string    `json:"flavor"`
	Status   string    `json:"status"`
	LoadedAt time.Time `json:"loaded_at"`
}

type Prediction struct {
	Id           uuid.UUID         `json:"id"`
	ModelName    string            `json:"model_name"`
	ModelVersion string            `json:"model_version"`
	Inputs       PredictionRequest `json:"inputs"`
	Prediction   float64           `json:"prediction"`
	CreationTime time.Time         `json:"creation_time"`
}

type ListPredictionsParams struct {
	Limit int `schema:"limit"`
}
