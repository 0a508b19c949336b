package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vkuptcov/spamguard"
)

// loadParams overlays the YAML file at path, if any, onto the defaults.
func loadParams(path string) (spamguard.Params, error) {
	params := spamguard.DefaultParams()
	if path == "" {
		return params, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return params, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(content, &params); err != nil {
		return params, errors.Wrapf(err, "parsing config %s", path)
	}
	return params, errors.Wrap(params.Validate(), "validating config")
}
