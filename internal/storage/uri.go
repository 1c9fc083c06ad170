package storage

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	SchemeS3              = "s3"
	SchemeFile            = "file"
	SchemeMlflowArtifacts = "mlflow-artifacts"
)

// Location is an artifact URI split into the parts a Provider understands.
type Location struct {
	Scheme string
	Bucket string
	Path   string
}

func ParseArtifactURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("empty artifact uri")
	}

	if strings.HasPrefix(uri, "/") {
		return Location{Scheme: SchemeFile, Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("invalid artifact uri '%s': %w", uri, err)
	}

	switch u.Scheme {
	case SchemeS3:
		if u.Host == "" {
			return Location{}, fmt.Errorf("invalid artifact uri '%s': missing bucket", uri)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Path: strings.TrimPrefix(u.Path, "/")}, nil
	case SchemeFile:
		return Location{Scheme: SchemeFile, Path: u.Path}, nil
	case SchemeMlflowArtifacts:
		// The host part, if any, names a tracking server; artifacts are always
		// fetched through the configured one.
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		return Location{Scheme: SchemeMlflowArtifacts, Path: strings.Trim(p, "/")}, nil
	default:
		return Location{}, fmt.Errorf("unsupported artifact uri scheme '%s' in '%s'", u.Scheme, uri)
	}
}
