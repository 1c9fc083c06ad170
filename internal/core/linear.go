package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LinearModel is a linear regression exported as plain coefficients, for
// models that do not need a runtime to evaluate.
type LinearModel struct {
	Columns      []string  `json:"columns"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func LoadLinearModel(modelDir string, desc Descriptor) (*LinearModel, error) {
	path := filepath.Join(modelDir, desc.Flavors[GoLinear].String("data", "model.json"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading linear model: %w", err)
	}

	var model LinearModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing linear model %s: %w", path, err)
	}

	if len(model.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model %s has no coefficients", path)
	}
	if len(model.Columns) > 0 && len(model.Columns) != len(model.Coefficients) {
		return nil, fmt.Errorf("linear model %s has %d columns but %d coefficients", path, len(model.Columns), len(model.Coefficients))
	}

	return &model, nil
}

func (m *LinearModel) Predict(ctx context.Context, frame Frame) ([]float64, error) {
	if len(m.Columns) > 0 {
		var err error
		if frame, err = frame.Select(m.Columns); err != nil {
			return nil, err
		}
	}

	if frame.NumCols() != len(m.Coefficients) {
		return nil, fmt.Errorf("linear model expects %d features, got %d", len(m.Coefficients), frame.NumCols())
	}

	preds := make([]float64, frame.NumRows())
	for i, row := range frame.Rows {
		y := m.Intercept
		for j, x := range row {
			y += m.Coefficients[j] * x
		}
		preds[i] = y
	}
	return preds, nil
}

func (m *LinearModel) Release() {}
