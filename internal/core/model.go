package core

import (
	"context"
	"errors"
	"fmt"
)

// Flavor names the on-disk format a model artifact is stored in, matching the
// keys of the flavors section of an MLmodel descriptor.
type Flavor string

const (
	Onnx           Flavor = "onnx"
	GoLinear       Flavor = "go_linear"
	PythonFunction Flavor = "python_function"
)

// Flavors are tried in this order when an artifact declares more than one.
var flavorPreference = []Flavor{Onnx, GoLinear, PythonFunction}

var ErrUnsupportedFlavor = errors.New("no supported model flavor")

type Model interface {
	// Predict returns one value per row of the frame.
	Predict(ctx context.Context, frame Frame) ([]float64, error)

	Release()
}

type ModelLoader func(modelDir string, desc Descriptor) (Model, error)

type LoaderOptions struct {
	// OnnxEnabled must only be set once the onnxruntime environment is initialized.
	OnnxEnabled bool

	// ScoringURL is the address of a model server hosting python_function models.
	ScoringURL string
}

func NewModelLoaders(opts LoaderOptions) map[Flavor]ModelLoader {
	loaders := map[Flavor]ModelLoader{
		GoLinear: func(modelDir string, desc Descriptor) (Model, error) {
			return LoadLinearModel(modelDir, desc)
		},
	}

	if opts.OnnxEnabled {
		loaders[Onnx] = func(modelDir string, desc Descriptor) (Model, error) {
			return LoadOnnxModel(modelDir, desc)
		}
	}

	if opts.ScoringURL != "" {
		loaders[PythonFunction] = func(_ string, desc Descriptor) (Model, error) {
			return NewPyfuncModel(opts.ScoringURL), nil
		}
	}

	return loaders
}

// SelectFlavor picks the preferred flavor declared by desc that has a loader.
func SelectFlavor(desc Descriptor, loaders map[Flavor]ModelLoader) (Flavor, error) {
	for _, flavor := range flavorPreference {
		if _, declared := desc.Flavors[flavor]; !declared {
			continue
		}
		if _, ok := loaders[flavor]; ok {
			return flavor, nil
		}
	}

	declared := make([]Flavor, 0, len(desc.Flavors))
	for flavor := range desc.Flavors {
		declared = append(declared, flavor)
	}
	return "", fmt.Errorf("%w: artifact declares %v", ErrUnsupportedFlavor, declared)
}
