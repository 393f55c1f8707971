package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// LoadFixturesFromFile loads workflows and runs from a YAML file
func LoadFixturesFromFile(path string) (*model.Fixtures, error) {
	if path == "" {
		return nil, goerr.New("fixtures file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "fixtures file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read fixtures file",
			goerr.V("path", path))
	}

	var fixtures model.Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML fixtures",
			goerr.V("path", path))
	}

	if err := fixtures.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid fixtures",
			goerr.V("path", path))
	}

	return &fixtures, nil
}
