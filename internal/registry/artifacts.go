package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"weather-forecaster/internal/storage"

	"github.com/go-resty/resty/v2"
)

const artifactsEndpoint = "/api/2.0/mlflow-artifacts/artifacts"

// ArtifactRepository reads mlflow-artifacts:/ uris through the tracking
// server's artifact proxy. The bucket argument of the storage.Provider
// methods is ignored.
type ArtifactRepository struct {
	client *resty.Client
}

var _ storage.Provider = (*ArtifactRepository)(nil)

func (c *Client) Artifacts() *ArtifactRepository {
	return &ArtifactRepository{client: c.client}
}

type fileInfo struct {
	Path     string      `json:"path"`
	IsDir    bool        `json:"is_dir"`
	FileSize json.Number `json:"file_size"`
}

type listArtifactsResponse struct {
	Files []fileInfo `json:"files"`
}

func (r *ArtifactRepository) ListObjects(ctx context.Context, _ string, prefix string) ([]storage.Object, error) {
	dir := strings.Trim(prefix, "/")

	var result listArtifactsResponse
	var apiErr apiError
	res, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("path", dir).
		SetResult(&result).
		SetError(&apiErr).
		Get(artifactsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("error listing artifacts under '%s': %w", dir, err)
	}
	if err := checkResponse(res, &apiErr); err != nil {
		return nil, fmt.Errorf("error listing artifacts under '%s': %w", dir, err)
	}

	var objects []storage.Object
	for _, f := range result.Files {
		name := path.Join(dir, path.Base(f.Path))
		if f.IsDir {
			children, err := r.ListObjects(ctx, "", name+"/")
			if err != nil {
				return nil, err
			}
			objects = append(objects, children...)
			continue
		}

		var size int64
		if f.FileSize != "" {
			var err error
			if size, err = f.FileSize.Int64(); err != nil {
				slog.Warn("ignoring unparsable artifact size", "path", name, "file_size", f.FileSize.String(), "error", err)
				size = 0
			}
		}
		objects = append(objects, storage.Object{Name: name, Size: size})
	}

	return objects, nil
}

func (r *ArtifactRepository) DownloadObject(ctx context.Context, _ string, key, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for download %s: %w", filepath.Dir(filename), err)
	}

	escaped := make([]string, 0)
	for _, part := range strings.Split(strings.Trim(key, "/"), "/") {
		escaped = append(escaped, url.PathEscape(part))
	}

	res, err := r.client.R().
		SetContext(ctx).
		SetOutput(filename).
		Get(artifactsEndpoint + "/" + strings.Join(escaped, "/"))
	if err != nil {
		return fmt.Errorf("error downloading artifact '%s': %w", key, err)
	}

	if !res.IsSuccess() {
		os.Remove(filename) //nolint:errcheck
		return fmt.Errorf("error downloading artifact '%s': registry returned status %d", key, res.StatusCode())
	}

	return nil
}
