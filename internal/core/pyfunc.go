package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// PyfuncModel forwards inference to an MLflow scoring server
// (mlflow models serve) hosting a python_function model.
type PyfuncModel struct {
	client *resty.Client
}

func NewPyfuncModel(scoringURL string) *PyfuncModel {
	return &PyfuncModel{
		client: resty.New().SetBaseURL(scoringURL),
	}
}

type dataframeSplit struct {
	Columns []string    `json:"columns"`
	Data    [][]float64 `json:"data"`
}

type invocationsRequest struct {
	DataframeSplit dataframeSplit `json:"dataframe_split"`
}

func (m *PyfuncModel) Predict(ctx context.Context, frame Frame) ([]float64, error) {
	res, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(invocationsRequest{DataframeSplit: dataframeSplit{Columns: frame.Columns, Data: frame.Rows}}).
		Post("/invocations")
	if err != nil {
		return nil, fmt.Errorf("error calling scoring server: %w", err)
	}

	if !res.IsSuccess() {
		slog.Error("scoring server returned error", "status_code", res.StatusCode(), "body", res.String())
		return nil, fmt.Errorf("scoring server returned status %d", res.StatusCode())
	}

	return parsePredictions(res.Body())
}

// parsePredictions accepts both {"predictions": [...]} and a bare list, with
// each prediction either a scalar or a single-element list.
func parsePredictions(body []byte) ([]float64, error) {
	var raw json.RawMessage = body
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Predictions json.RawMessage `json:"predictions"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("error parsing scoring response: %w", err)
		}
		raw = wrapped.Predictions
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("error parsing scoring response: %w", err)
	}

	preds := make([]float64, len(items))
	for i, item := range items {
		var v float64
		if err := json.Unmarshal(item, &v); err == nil {
			preds[i] = v
			continue
		}

		var nested []float64
		if err := json.Unmarshal(item, &nested); err != nil || len(nested) != 1 {
			return nil, fmt.Errorf("unexpected prediction value %s", string(item))
		}
		preds[i] = nested[0]
	}
	return preds, nil
}

func (m *PyfuncModel) Release() {}
