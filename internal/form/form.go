package form

import (
	"context"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"weather-forecaster/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

const (
	defaultTodayTemp = 20.0
	defaultHumidity  = 60.0
	defaultWindSpeed = 10.0
)

type Predictor interface {
	Predict(ctx context.Context, req api.PredictionRequest) (api.PredictionResponse, error)
}

type field struct {
	Name  string
	Label string
	Value string
	Error string
}

type page struct {
	Fields        []field
	HasPrediction bool
	Prediction    float64
	Error         string
}

var pageTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Weather Forecaster</title>
</head>
<body>
<h1>Weather Forecaster</h1>
<p>Enter today's weather conditions to predict tomorrow's temperature.</p>
<form method="post" action="/">
{{- range .Fields}}
<p>
<label for="{{.Name}}">{{.Label}}</label>
<input type="number" step="any" id="{{.Name}}" name="{{.Name}}" value="{{.Value}}">
{{- if .Error}} <span class="error">{{.Error}}</span>{{end}}
</p>
{{- end}}
<button type="submit">Predict Tomorrow's Temperature</button>
</form>
{{- if .HasPrediction}}
<h2>Prediction</h2>
<p>Tomorrow's predicted temperature is: <strong>{{printf "%.2f" .Prediction}}°C</strong></p>
{{- end}}
{{- if .Error}}
<p class="error">Error connecting to backend: {{.Error}}</p>
{{- end}}
</body>
</html>
`))

// FormServer renders the weather input form and forwards submissions to the
// prediction service.
type FormServer struct {
	predictor Predictor
	decoder   *schema.Decoder
}

func NewFormServer(predictor Predictor) *FormServer {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &FormServer{predictor: predictor, decoder: decoder}
}

func (s *FormServer) AddRoutes(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/", s.Submit)
}

func newFields(todayTemp, humidity, windSpeed string) []field {
	return []field{
		{Name: "today_temp", Label: "Today's Temperature (°C)", Value: todayTemp},
		{Name: "humidity", Label: "Humidity (%)", Value: humidity},
		{Name: "wind_speed", Label: "Wind Speed (km/h)", Value: windSpeed},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *FormServer) Index(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, page{
		Fields: newFields(formatFloat(defaultTodayTemp), formatFloat(defaultHumidity), formatFloat(defaultWindSpeed)),
	})
}

func (s *FormServer) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	fields := newFields(r.PostForm.Get("today_temp"), r.PostForm.Get("humidity"), r.PostForm.Get("wind_speed"))

	invalid := false
	for i := range fields {
		if fields[i].Value == "" {
			fields[i].Error = "a value is required"
			invalid = true
		} else if v, err := strconv.ParseFloat(fields[i].Value, 64); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			fields[i].Error = "must be a number"
			invalid = true
		}
	}
	if invalid {
		s.render(w, http.StatusUnprocessableEntity, page{Fields: fields})
		return
	}

	var req api.PredictionRequest
	if err := s.decoder.Decode(&req, r.PostForm); err != nil {
		slog.Error("error decoding form", "error", err)
		s.render(w, http.StatusUnprocessableEntity, page{Fields: fields, Error: err.Error()})
		return
	}

	res, err := s.predictor.Predict(r.Context(), req)
	if err != nil {
		slog.Error("prediction request failed", "error", err)
		s.render(w, http.StatusOK, page{Fields: fields, Error: err.Error()})
		return
	}

	if len(res.Prediction) == 0 {
		s.render(w, http.StatusOK, page{Fields: fields, Error: ErrEmptyPrediction.Error()})
		return
	}

	s.render(w, http.StatusOK, page{Fields: fields, HasPrediction: true, Prediction: res.Prediction[0]})
}

func (s *FormServer) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, p); err != nil {
		slog.Error("error rendering form", "error", err)
	}
}
