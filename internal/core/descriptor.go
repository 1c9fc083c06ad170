package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const descriptorFile = "MLmodel"

type FlavorConfig map[string]interface{}

// String returns the value of a string option, or fallback when unset.
func (c FlavorConfig) String(key, fallback string) string {
	if v, ok := c[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

type ColumnSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Descriptor is the parsed MLmodel file at the root of a model artifact.
type Descriptor struct {
	ArtifactPath string                  `yaml:"artifact_path"`
	RunId        string                  `yaml:"run_id"`
	Flavors      map[Flavor]FlavorConfig `yaml:"flavors"`
	Signature    struct {
		Inputs  string `yaml:"inputs"`
		Outputs string `yaml:"outputs"`
	} `yaml:"signature"`
}

func ReadDescriptor(modelDir string) (Descriptor, error) {
	path := filepath.Join(modelDir, descriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("error reading model descriptor: %w", err)
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("error parsing model descriptor %s: %w", path, err)
	}

	if len(desc.Flavors) == 0 {
		return Descriptor{}, fmt.Errorf("model descriptor %s declares no flavors", path)
	}

	return desc, nil
}

// InputColumns returns the column names of the input signature in order, or
// nil if the model was logged without a column-based signature.
func (d Descriptor) InputColumns() ([]string, error) {
	if d.Signature.Inputs == "" {
		return nil, nil
	}

	var specs []ColumnSpec
	if err := json.Unmarshal([]byte(d.Signature.Inputs), &specs); err != nil {
		return nil, fmt.Errorf("error parsing input signature: %w", err)
	}

	var columns []string
	for _, spec := range specs {
		if spec.Name == "" {
			// tensor based signature
			return nil, nil
		}
		columns = append(columns, spec.Name)
	}
	return columns, nil
}
