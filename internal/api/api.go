package api

import (
	"log/slog"
	"net/http"

	"weather-forecaster/internal/core"
	"weather-forecaster/internal/database"
	"weather-forecaster/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const (
	defaultPredictionsLimit = 20
	maxPredictionsLimit     = 1000
)

type BackendService struct {
	lifecycle *core.Lifecycle
	db        *gorm.DB
}

// NewBackendService serves the model tracked by lifecycle. db may be nil, in
// which case predictions are not logged.
func NewBackendService(lifecycle *core.Lifecycle, db *gorm.DB) *BackendService {
	return &BackendService{lifecycle: lifecycle, db: db}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Post("/predict", RestHandler(s.Predict))
	r.Get("/model", RestHandler(s.GetModel))
	r.Get("/predictions", RestHandler(s.ListPredictions))
}

func (s *BackendService) Health(w http.ResponseWriter, r *http.Request) {
	if s.lifecycle.State() != core.Ready {
		WriteJsonResponse(w, http.StatusServiceUnavailable, api.HealthResponse{Status: api.StatusModelNotReady})
		return
	}
	WriteJsonResponse(w, http.StatusOK, api.HealthResponse{Status: api.StatusOk})
}

func (s *BackendService) Predict(r *http.Request) (any, error) {
	req, err := ParsePredictionRequest(r)
	if err != nil {
		return nil, err
	}

	handle, err := s.lifecycle.Handle()
	if err != nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "Model is not loaded yet")
	}

	frame, err := core.NewFrame(PredictionColumns, []float64{req.TodayTemp, req.Humidity, req.WindSpeed})
	if err != nil {
		return nil, err
	}

	preds, err := handle.Predict(r.Context(), frame)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		info := handle.Info()
		inputs := database.PredictionInputs{TodayTemp: req.TodayTemp, Humidity: req.Humidity, WindSpeed: req.WindSpeed}
		if _, err := database.SavePrediction(r.Context(), s.db, info.Name, info.Version, string(info.Flavor), inputs, preds[0]); err != nil {
			slog.Warn("prediction was served but could not be logged", "error", err)
		}
	}

	return api.PredictionResponse{Prediction: []float64{preds[0]}}, nil
}

func (s *BackendService) GetModel(r *http.Request) (any, error) {
	handle, err := s.lifecycle.Handle()
	if err != nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "model is not ready: state is %s", s.lifecycle.State())
	}

	info := handle.Info()
	return api.ModelInfo{
		Name:     info.Name,
		Version:  info.Version,
		Uri:      handle.URI().String(),
		Source:   info.Source,
		Flavor:   string(info.Flavor),
		Status:   string(s.lifecycle.State()),
		LoadedAt: handle.LoadedAt(),
	}, nil
}

func (s *BackendService) ListPredictions(r *http.Request) (any, error) {
	if s.db == nil {
		return nil, CodedErrorf(http.StatusNotFound, "prediction log is not enabled")
	}

	params, err := ParseRequestQueryParams[api.ListPredictionsParams](r)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultPredictionsLimit
	}
	if limit < 0 || limit > maxPredictionsLimit {
		return nil, CodedErrorf(http.StatusBadRequest, "limit must be between 1 and %d", maxPredictionsLimit)
	}

	records, err := database.ListPredictions(r.Context(), s.db, limit)
	if err != nil {
		slog.Error("error listing predictions", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving prediction records")
	}

	predictions := make([]api.Prediction, 0, len(records))
	for _, record := range records {
		inputs, err := record.DecodeInputs()
		if err != nil {
			slog.Error("error decoding prediction inputs", "id", record.Id, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "error decoding prediction record")
		}
		predictions = append(predictions, api.Prediction{
			Id:           record.Id,
			ModelName:    record.ModelName,
			ModelVersion: record.ModelVersion,
			Inputs:       api.PredictionRequest{TodayTemp: inputs.TodayTemp, Humidity: inputs.Humidity, WindSpeed: inputs.WindSpeed},
			Prediction:   record.Prediction,
			CreationTime: record.CreationTime,
		})
	}

	return predictions, nil
}
