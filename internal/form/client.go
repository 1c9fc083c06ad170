package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"weather-forecaster/pkg/api"

	"github.com/go-resty/resty/v2"
)

var ErrEmptyPrediction = errors.New("backend returned no prediction")

// Client calls the prediction service. It sets no timeout of its own; requests
// end with the caller's context.
type Client struct {
	client *resty.Client
}

func NewClient(backendURL string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(backendURL).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) Predict(ctx context.Context, req api.PredictionRequest) (api.PredictionResponse, error) {
	var result api.PredictionResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/predict")
	if err != nil {
		return api.PredictionResponse{}, fmt.Errorf("error calling %s/predict: %w", c.client.BaseURL, err)
	}

	if !res.IsSuccess() {
		return api.PredictionResponse{}, statusError(res)
	}

	if len(result.Prediction) == 0 {
		return api.PredictionResponse{}, fmt.Errorf("%w: %s", ErrEmptyPrediction, res.String())
	}

	return result, nil
}

func statusError(res *resty.Response) error {
	kind := "Server Error"
	if res.StatusCode() < 500 {
		kind = "Client Error"
	}
	return fmt.Errorf("%d %s: %s for url: %s", res.StatusCode(), kind, http.StatusText(res.StatusCode()), res.Request.URL)
}
