package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weatherColumns = []string{"today_temp", "humidity", "wind_speed"}

const linearDescriptor = `artifact_path: model
run_id: 0a1b2c
flavors:
  go_linear:
    data: model.json
  python_function:
    loader_module: mlflow.sklearn
signature:
  inputs: '[{"type": "double", "name": "today_temp"}, {"type": "double", "name": "humidity"}, {"type": "double", "name": "wind_speed"}]'
  outputs: '[{"type": "tensor", "tensor-spec": {"dtype": "float64", "shape": [-1]}}]'
`

func writeLinearModel(t *testing.T, dir string, model LinearModel) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MLmodel"), []byte(linearDescriptor), 0644))

	data, err := json.Marshal(model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), data, 0644))
}

func TestFrameSelect(t *testing.T) {
	frame, err := NewFrame(weatherColumns, []float64{20, 60, 10}, []float64{1, 2, 3})
	require.NoError(t, err)

	selected, err := frame.Select([]string{"wind_speed", "today_temp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wind_speed", "today_temp"}, selected.Columns)
	assert.Equal(t, [][]float64{{10, 20}, {3, 1}}, selected.Rows)

	_, err = frame.Select([]string{"pressure"})
	assert.ErrorContains(t, err, "pressure")

	_, err = NewFrame(weatherColumns, []float64{1, 2})
	assert.Error(t, err)

	assert.Equal(t, []float32{20, 60, 10, 1, 2, 3}, frame.Float32())
}

func TestReadDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeLinearModel(t, dir, LinearModel{Coefficients: []float64{1, 1, 1}})

	desc, err := ReadDescriptor(dir)
	require.NoError(t, err)
	assert.Equal(t, "model", desc.ArtifactPath)
	assert.Contains(t, desc.Flavors, GoLinear)
	assert.Contains(t, desc.Flavors, PythonFunction)
	assert.Equal(t, "mlflow.sklearn", desc.Flavors[PythonFunction].String("loader_module", ""))
	assert.Equal(t, "fallback", desc.Flavors[GoLinear].String("missing", "fallback"))

	columns, err := desc.InputColumns()
	require.NoError(t, err)
	assert.Equal(t, weatherColumns, columns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "MLmodel"), []byte("artifact_path: model\n"), 0644))
	_, err = ReadDescriptor(dir)
	assert.ErrorContains(t, err, "declares no flavors")

	_, err = ReadDescriptor(t.TempDir())
	assert.Error(t, err)
}

func TestSelectFlavor(t *testing.T) {
	desc := Descriptor{Flavors: map[Flavor]FlavorConfig{
		Onnx:           {},
		GoLinear:       {},
		PythonFunction: {},
	}}

	flavor, err := SelectFlavor(desc, NewModelLoaders(LoaderOptions{OnnxEnabled: true}))
	require.NoError(t, err)
	assert.Equal(t, Onnx, flavor)

	flavor, err = SelectFlavor(desc, NewModelLoaders(LoaderOptions{}))
	require.NoError(t, err)
	assert.Equal(t, GoLinear, flavor)

	pyOnly := Descriptor{Flavors: map[Flavor]FlavorConfig{PythonFunction: {}}}
	_, err = SelectFlavor(pyOnly, NewModelLoaders(LoaderOptions{}))
	assert.ErrorIs(t, err, ErrUnsupportedFlavor)

	flavor, err = SelectFlavor(pyOnly, NewModelLoaders(LoaderOptions{ScoringURL: "http://scoring:5001"}))
	require.NoError(t, err)
	assert.Equal(t, PythonFunction, flavor)
}

func TestLinearModel(t *testing.T) {
	dir := t.TempDir()
	writeLinearModel(t, dir, LinearModel{
		Columns:      []string{"humidity", "today_temp", "wind_speed"},
		Coefficients: []float64{-0.01, 1.0, -0.1},
		Intercept:    2.0,
	})

	desc, err := ReadDescriptor(dir)
	require.NoError(t, err)

	model, err := LoadLinearModel(dir, desc)
	require.NoError(t, err)

	frame, err := NewFrame(weatherColumns, []float64{20, 60, 10})
	require.NoError(t, err)

	preds, err := model.Predict(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.InDelta(t, 2.0+20-0.6-1.0, preds[0], 1e-9)
}

func TestLinearModelInvalid(t *testing.T) {
	dir := t.TempDir()
	writeLinearModel(t, dir, LinearModel{Columns: []string{"a"}, Coefficients: []float64{1, 2}})
	desc, err := ReadDescriptor(dir)
	require.NoError(t, err)

	_, err = LoadLinearModel(dir, desc)
	assert.Error(t, err)

	writeLinearModel(t, dir, LinearModel{})
	_, err = LoadLinearModel(dir, desc)
	assert.ErrorContains(t, err, "no coefficients")
}

func TestPyfuncModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invocations", r.URL.Path)

		var req invocationsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, weatherColumns, req.DataframeSplit.Columns)
		assert.Equal(t, [][]float64{{20, 60, 10}}, req.DataframeSplit.Data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictions": [21.5]}`)) //nolint:errcheck
	}))
	defer server.Close()

	frame, err := NewFrame(weatherColumns, []float64{20, 60, 10})
	require.NoError(t, err)

	preds, err := NewPyfuncModel(server.URL).Predict(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, []float64{21.5}, preds)
}

func TestPyfuncModelServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	frame, err := NewFrame(weatherColumns, []float64{20, 60, 10})
	require.NoError(t, err)

	_, err = NewPyfuncModel(server.URL).Predict(context.Background(), frame)
	assert.ErrorContains(t, err, "400")
}

func TestParsePredictions(t *testing.T) {
	cases := map[string][]float64{
		`{"predictions": [21.5, 3]}`:  {21.5, 3},
		`[21.5]`:                      {21.5},
		`{"predictions": [[21.5]]}`:   {21.5},
		` [[1.0], [2.0]] `:            {1, 2},
	}
	for body, expected := range cases {
		preds, err := parsePredictions([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, expected, preds, body)
	}

	for _, body := range []string{`{"predictions": "x"}`, `[[1, 2]]`, `["a"]`, `not json`} {
		_, err := parsePredictions([]byte(body))
		assert.Error(t, err, body)
	}
}
