package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
)

type Object struct {
	Name string
	Size int64
}

type Provider interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)

	DownloadObject(ctx context.Context, bucket, key, filename string) error
}

// DownloadDir copies every object under prefix into dest, keeping the object
// layout relative to prefix. A prefix naming a single object is downloaded
// into dest under its base name.
func DownloadDir(ctx context.Context, p Provider, bucket, prefix, dest string) error {
	dirPrefix := strings.TrimSuffix(prefix, "/")
	if dirPrefix != "" {
		dirPrefix += "/"
	}

	objects, err := p.ListObjects(ctx, bucket, dirPrefix)
	if err != nil {
		return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}

	single := false
	if len(objects) == 0 && dirPrefix != "" {
		objects, err = listExact(ctx, p, bucket, strings.TrimSuffix(prefix, "/"))
		if err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		single = true
	}

	if len(objects) == 0 {
		return fmt.Errorf("no objects found under %s", prefix)
	}

	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Name, dirPrefix)
		if single || rel == "" {
			rel = path.Base(obj.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := p.DownloadObject(ctx, bucket, obj.Name, target); err != nil {
			return fmt.Errorf("failed to download object %s: %w", obj.Name, err)
		}
	}

	slog.Info("downloaded objects", "bucket", bucket, "prefix", prefix, "dest", dest, "count", len(objects))
	return nil
}

func listExact(ctx context.Context, p Provider, bucket, key string) ([]Object, error) {
	objects, err := p.ListObjects(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	var exact []Object
	for _, obj := range objects {
		if obj.Name == key {
			exact = append(exact, obj)
		}
	}
	return exact, nil
}
