package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ArtifactStore materializes artifact URIs on local disk using the Provider
// registered for the URI scheme.
type ArtifactStore struct {
	providers map[string]Provider
}

func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{providers: make(map[string]Provider)}
}

func (s *ArtifactStore) Register(scheme string, p Provider) *ArtifactStore {
	s.providers[scheme] = p
	return s
}

func (s *ArtifactStore) Fetch(ctx context.Context, uri, dest string) error {
	loc, err := ParseArtifactURI(uri)
	if err != nil {
		return err
	}

	provider, ok := s.providers[loc.Scheme]
	if !ok {
		return fmt.Errorf("no storage provider configured for scheme '%s' (uri %s)", loc.Scheme, uri)
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to clear destination %s: %w", dest, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dest, err)
	}

	slog.Info("fetching artifacts", "uri", uri, "dest", dest)
	if err := DownloadDir(ctx, provider, loc.Bucket, loc.Path, dest); err != nil {
		return fmt.Errorf("error fetching artifacts from %s: %w", uri, err)
	}

	return nil
}
