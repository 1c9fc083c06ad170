package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"weather-forecaster/internal/registry"
)

type ModelRegistry interface {
	LatestVersion(ctx context.Context, name, stage string) (registry.ModelVersion, error)

	GetDownloadURI(ctx context.Context, name, version string) (string, error)
}

type ArtifactFetcher interface {
	Fetch(ctx context.Context, uri, dest string) error
}

type ResolverConfig struct {
	ModelName string
	Stage     string
	CacheDir  string
}

// Resolver turns a model name and stage into a loaded Handle: it looks up the
// latest version in the registry, downloads the artifact and loads it with the
// loader for its preferred flavor.
type Resolver struct {
	cfg       ResolverConfig
	registry  ModelRegistry
	artifacts ArtifactFetcher
	loaders   map[Flavor]ModelLoader
}

func NewResolver(cfg ResolverConfig, registry ModelRegistry, artifacts ArtifactFetcher, loaders map[Flavor]ModelLoader) *Resolver {
	return &Resolver{cfg: cfg, registry: registry, artifacts: artifacts, loaders: loaders}
}

func (r *Resolver) Resolve(ctx context.Context) (*Handle, error) {
	version, err := r.registry.LatestVersion(ctx, r.cfg.ModelName, r.cfg.Stage)
	if err != nil {
		return nil, fmt.Errorf("error resolving latest version of %s: %w", r.cfg.ModelName, err)
	}

	uri := registry.ModelURI{Name: r.cfg.ModelName, Version: version.Version}

	source, err := r.registry.GetDownloadURI(ctx, uri.Name, uri.Version)
	if err != nil {
		return nil, err
	}

	modelDir := filepath.Join(r.cfg.CacheDir, uri.Name, uri.Version)
	if err := r.artifacts.Fetch(ctx, source, modelDir); err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", uri, err)
	}

	desc, err := ReadDescriptor(modelDir)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", uri, err)
	}

	columns, err := desc.InputColumns()
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", uri, err)
	}

	flavor, err := SelectFlavor(desc, r.loaders)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", uri, err)
	}

	model, err := r.loaders[flavor](modelDir, desc)
	if err != nil {
		return nil, fmt.Errorf("error loading %s with flavor %s: %w", uri, flavor, err)
	}

	slog.Info("model loaded", "uri", uri.String(), "source", source, "flavor", flavor, "input_columns", columns)

	return NewHandle(HandleInfo{
		Name:         uri.Name,
		Version:      uri.Version,
		Source:       source,
		Flavor:       flavor,
		InputColumns: columns,
	}, model), nil
}
