package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PredictionInputs struct {
	TodayTemp float64 `json:"today_temp"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
}

func SavePrediction(ctx context.Context, db *gorm.DB, modelName, modelVersion, flavor string, inputs PredictionInputs, prediction float64) (PredictionRecord, error) {
	data, err := json.Marshal(inputs)
	if err != nil {
		return PredictionRecord{}, fmt.Errorf("could not marshal prediction inputs: %w", err)
	}

	record := PredictionRecord{
		Id:           uuid.New(),
		ModelName:    modelName,
		ModelVersion: modelVersion,
		ModelFlavor:  flavor,
		Inputs:       data,
		Prediction:   prediction,
		CreationTime: time.Now().UTC(),
	}

	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("error saving prediction record", "model", modelName, "version", modelVersion, "error", err)
		return PredictionRecord{}, err
	}
	return record, nil
}

// ListPredictions returns the most recent predictions first.
func ListPredictions(ctx context.Context, db *gorm.DB, limit int) ([]PredictionRecord, error) {
	var records []PredictionRecord
	if err := db.WithContext(ctx).Order("creation_time DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not list predictions: %w", err)
	}
	return records, nil
}

func (r PredictionRecord) DecodeInputs() (PredictionInputs, error) {
	var inputs PredictionInputs
	if err := json.Unmarshal(r.Inputs, &inputs); err != nil {
		return PredictionInputs{}, fmt.Errorf("could not unmarshal prediction inputs: %w", err)
	}
	return inputs, nil
}
