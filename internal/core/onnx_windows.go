//go:build windows

package core

import (
	"context"
	"errors"
)

var ErrOnnxNotSupportedOnWindows = errors.New("ONNX models are not supported on Windows")

type OnnxModel struct{}

func LoadOnnxModel(modelDir string, desc Descriptor) (Model, error) {
	return nil, ErrOnnxNotSupportedOnWindows
}

func (m *OnnxModel) Predict(ctx context.Context, frame Frame) ([]float64, error) {
	return nil, ErrOnnxNotSupportedOnWindows
}

func (m *OnnxModel) Release() {
	// no-op
}
