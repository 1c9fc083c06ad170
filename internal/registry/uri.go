package registry

import (
	"fmt"
	"strings"
)

const modelsScheme = "models:/"

// ModelURI identifies a registered model version, e.g. models:/weather-forecaster/3.
type ModelURI struct {
	Name    string
	Version string
}

func (u ModelURI) String() string {
	return fmt.Sprintf("%s%s/%s", modelsScheme, u.Name, u.Version)
}

func ParseModelURI(uri string) (ModelURI, error) {
	rest, ok := strings.CutPrefix(uri, modelsScheme)
	if !ok {
		return ModelURI{}, fmt.Errorf("invalid model uri '%s': must start with %s", uri, modelsScheme)
	}

	name, version, ok := strings.Cut(strings.Trim(rest, "/"), "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return ModelURI{}, fmt.Errorf("invalid model uri '%s': expected %s<name>/<version>", uri, modelsScheme)
	}

	return ModelURI{Name: name, Version: version}, nil
}
