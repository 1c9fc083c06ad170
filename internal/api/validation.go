package api

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"weather-forecaster/pkg/api"
)

const maxRequestBytes = 1 << 20

// PredictionColumns is the column order of the frame passed to the model.
var PredictionColumns = []string{"today_temp", "humidity", "wind_speed"}

// ParsePredictionRequest requires every prediction field to be present and
// either a JSON number or a string holding a finite number. Unknown fields are
// ignored.
func ParsePredictionRequest(r *http.Request) (api.PredictionRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return api.PredictionRequest{}, CodedErrorf(http.StatusBadRequest, "unable to read request body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return api.PredictionRequest{}, ValidationError([]api.ValidationDetail{{
			Loc:  []string{"body"},
			Msg:  fmt.Sprintf("request body must be a JSON object: %v", err),
			Type: "json_invalid",
		}})
	}

	values := make([]float64, len(PredictionColumns))
	var details []api.ValidationDetail
	for i, column := range PredictionColumns {
		raw, ok := fields[column]
		if !ok {
			details = append(details, api.ValidationDetail{Loc: []string{"body", column}, Msg: "field required", Type: "missing"})
			continue
		}

		value, ok := parseNumber(raw)
		if !ok {
			details = append(details, api.ValidationDetail{Loc: []string{"body", column}, Msg: "value is not a valid number", Type: "float_type"})
			continue
		}
		values[i] = value
	}

	if len(details) > 0 {
		return api.PredictionRequest{}, ValidationError(details)
	}

	return api.PredictionRequest{TodayTemp: values[0], Humidity: values[1], WindSpeed: values[2]}, nil
}

// parseNumber accepts a JSON number or a numeric string such as "20.0".
// null, booleans and non-numeric strings are rejected.
func parseNumber(raw json.RawMessage) (float64, bool) {
	var value *float64
	if err := json.Unmarshal(raw, &value); err == nil {
		if value == nil {
			return 0, false
		}
		return *value, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
