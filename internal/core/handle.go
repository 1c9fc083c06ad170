package core

import (
	"context"
	"fmt"
	"time"

	"weather-forecaster/internal/registry"
)

type HandleInfo struct {
	Name    string
	Version string
	// Source is the artifact uri the model was downloaded from.
	Source       string
	Flavor       Flavor
	InputColumns []string
}

// Handle is a loaded model version. It is immutable once created and safe
// for concurrent use by request handlers.
type Handle struct {
	info     HandleInfo
	model    Model
	loadedAt time.Time
}

func NewHandle(info HandleInfo, model Model) *Handle {
	return &Handle{info: info, model: model, loadedAt: time.Now().UTC()}
}

func (h *Handle) Info() HandleInfo {
	return h.info
}

func (h *Handle) URI() registry.ModelURI {
	return registry.ModelURI{Name: h.info.Name, Version: h.info.Version}
}

func (h *Handle) LoadedAt() time.Time {
	return h.loadedAt
}

// Predict reorders the frame to the model's input signature, if it has one,
// and returns one prediction per row.
func (h *Handle) Predict(ctx context.Context, frame Frame) ([]float64, error) {
	if len(h.info.InputColumns) > 0 {
		var err error
		if frame, err = frame.Select(h.info.InputColumns); err != nil {
			return nil, err
		}
	}

	preds, err := h.model.Predict(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("error running inference with %s: %w", h.URI(), err)
	}

	if len(preds) != frame.NumRows() {
		return nil, fmt.Errorf("model %s returned %d predictions for %d rows", h.URI(), len(preds), frame.NumRows())
	}

	return preds, nil
}

func (h *Handle) Release() {
	h.model.Release()
}
