package form_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"weather-forecaster/internal/form"
	"weather-forecaster/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	status   int
	body     string
	requests []api.PredictionRequest
}

func (b *fakeBackend) start(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var req api.PredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b.requests = append(b.requests, req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.status)
		w.Write([]byte(b.body)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)
	return server
}

func newRouter(backendURL string) chi.Router {
	router := chi.NewRouter()
	form.NewFormServer(form.NewClient(backendURL)).AddRoutes(router)
	return router
}

func submit(router http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func defaultValues() url.Values {
	return url.Values{"today_temp": {"20"}, "humidity": {"60"}, "wind_speed": {"10"}}
}

func TestIndexDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	newRouter("http://localhost:1").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="today_temp" value="20"`)
	assert.Contains(t, body, `name="humidity" value="60"`)
	assert.Contains(t, body, `name="wind_speed" value="10"`)
	assert.NotContains(t, body, "predicted temperature is")
}

func TestSubmitPrediction(t *testing.T) {
	backend := &fakeBackend{status: http.StatusOK, body: `{"prediction":[21.5]}`}
	server := backend.start(t)

	rec := submit(newRouter(server.URL), defaultValues())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tomorrow's predicted temperature is: <strong>21.50°C</strong>")

	require.Len(t, backend.requests, 1)
	assert.Equal(t, api.PredictionRequest{TodayTemp: 20, Humidity: 60, WindSpeed: 10}, backend.requests[0])
}

func TestSubmitBackendError(t *testing.T) {
	backend := &fakeBackend{status: http.StatusServiceUnavailable, body: `{"error":"Model is not loaded yet"}`}
	server := backend.start(t)

	rec := submit(newRouter(server.URL), defaultValues())

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error connecting to backend: 503 Server Error")
	assert.NotContains(t, body, "predicted temperature is")
}

func TestSubmitBackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	backendURL := server.URL
	server.Close()

	rec := submit(newRouter(backendURL), defaultValues())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error connecting to backend:")
}

func TestSubmitInvalidInput(t *testing.T) {
	backend := &fakeBackend{status: http.StatusOK, body: `{"prediction":[21.5]}`}
	server := backend.start(t)

	values := defaultValues()
	values.Set("humidity", "humid")
	values.Del("wind_speed")

	rec := submit(newRouter(server.URL), values)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "must be a number")
	assert.Contains(t, body, "a value is required")
	assert.Empty(t, backend.requests)
}

func TestClientPredict(t *testing.T) {
	backend := &fakeBackend{status: http.StatusOK, body: `{"prediction":[18.25]}`}
	server := backend.start(t)

	res, err := form.NewClient(server.URL).Predict(context.Background(), api.PredictionRequest{TodayTemp: 1, Humidity: 2, WindSpeed: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{18.25}, res.Prediction)
}

func TestClientPredictErrors(t *testing.T) {
	t.Run("ClientError", func(t *testing.T) {
		backend := &fakeBackend{status: http.StatusUnprocessableEntity, body: `{"error":"invalid request body"}`}
		server := backend.start(t)

		_, err := form.NewClient(server.URL).Predict(context.Background(), api.PredictionRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422 Client Error")
		assert.Contains(t, err.Error(), server.URL+"/predict")
	})

	t.Run("EmptyPrediction", func(t *testing.T) {
		backend := &fakeBackend{status: http.StatusOK, body: `{"prediction":[]}`}
		server := backend.start(t)

		_, err := form.NewClient(server.URL).Predict(context.Background(), api.PredictionRequest{})
		assert.ErrorIs(t, err, form.ErrEmptyPrediction)
	})
}

func TestClientPredictCanceledByContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := form.NewClient(server.URL).Predict(ctx, api.PredictionRequest{TodayTemp: 20, Humidity: 60, WindSpeed: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
