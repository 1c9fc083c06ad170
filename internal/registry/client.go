package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrModelNotFound     = errors.New("registered model not found")
	ErrNoVersionForStage = errors.New("no model version found for stage")
)

const requestTimeout = 30 * time.Second

type ModelVersion struct {
	Name                 string `json:"name"`
	Version              string `json:"version"`
	CurrentStage         string `json:"current_stage"`
	Source               string `json:"source"`
	RunId                string `json:"run_id"`
	Status               string `json:"status"`
	CreationTimestamp    int64  `json:"creation_timestamp"`
	LastUpdatedTimestamp int64  `json:"last_updated_timestamp"`
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type Client struct {
	client *resty.Client
}

func NewClient(trackingURI, token string) *Client {
	client := resty.New().
		SetBaseURL(trackingURI).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Client{client: client}
}

func (c *Client) TrackingURI() string {
	return c.client.BaseURL
}

type latestVersionsRequest struct {
	Name   string   `json:"name"`
	Stages []string `json:"stages,omitempty"`
}

type latestVersionsResponse struct {
	ModelVersions []ModelVersion `json:"model_versions"`
}

func (c *Client) GetLatestVersions(ctx context.Context, name string, stages []string) ([]ModelVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result latestVersionsResponse
	var apiErr apiError
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(latestVersionsRequest{Name: name, Stages: stages}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/2.0/mlflow/registered-models/get-latest-versions")
	if err != nil {
		return nil, fmt.Errorf("error querying latest versions of model %s: %w", name, err)
	}

	if err := checkResponse(res, &apiErr); err != nil {
		return nil, fmt.Errorf("error querying latest versions of model %s: %w", name, err)
	}

	return result.ModelVersions, nil
}

// LatestVersion returns the highest version of the model whose current stage is stage.
func (c *Client) LatestVersion(ctx context.Context, name, stage string) (ModelVersion, error) {
	versions, err := c.GetLatestVersions(ctx, name, []string{stage})
	if err != nil {
		return ModelVersion{}, err
	}

	latest, ok := selectLatest(versions, stage)
	if !ok {
		return ModelVersion{}, fmt.Errorf("%w: model=%s stage=%s", ErrNoVersionForStage, name, stage)
	}

	slog.Info("resolved latest model version", "model", name, "stage", stage, "version", latest.Version)
	return latest, nil
}

func selectLatest(versions []ModelVersion, stage string) (ModelVersion, bool) {
	var best ModelVersion
	found := false
	for _, v := range versions {
		if v.CurrentStage != stage {
			continue
		}
		if !found || versionLess(best.Version, v.Version) {
			best = v
			found = true
		}
	}
	return best, found
}

func versionLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

type downloadURIResponse struct {
	ArtifactURI string `json:"artifact_uri"`
}

func (c *Client) GetDownloadURI(ctx context.Context, name, version string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result downloadURIResponse
	var apiErr apiError
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"name": name, "version": version}).
		SetResult(&result).
		SetError(&apiErr).
		Get("/api/2.0/mlflow/model-versions/get-download-uri")
	if err != nil {
		return "", fmt.Errorf("error getting download uri for %s: %w", ModelURI{Name: name, Version: version}, err)
	}

	if err := checkResponse(res, &apiErr); err != nil {
		return "", fmt.Errorf("error getting download uri for %s: %w", ModelURI{Name: name, Version: version}, err)
	}

	if result.ArtifactURI == "" {
		return "", fmt.Errorf("registry returned empty artifact uri for %s", ModelURI{Name: name, Version: version})
	}

	return result.ArtifactURI, nil
}

func checkResponse(res *resty.Response, apiErr *apiError) error {
	if res.IsSuccess() {
		return nil
	}

	if apiErr.ErrorCode == "RESOURCE_DOES_NOT_EXIST" || res.StatusCode() == 404 {
		return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Message)
	}

	slog.Error("model registry returned error", "status_code", res.StatusCode(), "body", res.String())
	if apiErr.Message != "" {
		return fmt.Errorf("registry returned status %d: %s: %s", res.StatusCode(), apiErr.ErrorCode, apiErr.Message)
	}
	return fmt.Errorf("registry returned status %d: %s", res.StatusCode(), res.String())
}
