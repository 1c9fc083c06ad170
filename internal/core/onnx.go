//go:build !windows

package core

import (
	"context"
	"fmt"
	"path/filepath"

	ort "github.com/yalue/onnxruntime_go"
)

// OnnxModel evaluates a regressor exported to ONNX (e.g. with skl2onnx). The
// graph must take a single float tensor of shape [rows, features] and produce
// one value per row as its first output.
type OnnxModel struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

func LoadOnnxModel(modelDir string, desc Descriptor) (Model, error) {
	path := filepath.Join(modelDir, desc.Flavors[Onnx].String("data", "model.onnx"))

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("error reading onnx model info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) == 0 {
		return nil, fmt.Errorf("onnx model %s must have exactly 1 input and at least 1 output, found %d inputs and %d outputs", path, len(inputs), len(outputs))
	}

	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create onnx session: %w", err)
	}

	return &OnnxModel{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
	}, nil
}

func (m *OnnxModel) Predict(ctx context.Context, frame Frame) ([]float64, error) {
	rows, cols := int64(frame.NumRows()), int64(frame.NumCols())

	inT, err := ort.NewTensor(ort.NewShape(rows, cols), frame.Float32())
	if err != nil {
		return nil, err
	}
	defer inT.Destroy()

	outT, err := ort.NewEmptyTensor[float32](ort.NewShape(rows, 1))
	if err != nil {
		return nil, err
	}
	defer outT.Destroy()

	if err := m.session.Run([]ort.Value{inT}, []ort.Value{outT}); err != nil {
		return nil, fmt.Errorf("session run error: %w", err)
	}

	flat := outT.GetData()
	preds := make([]float64, len(flat))
	for i, v := range flat {
		preds[i] = float64(v)
	}
	return preds, nil
}

func (m *OnnxModel) Release() {
	m.session.Destroy()
}
