package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries default analyze settings, so recurring mode/weights
// choices don't have to be repeated on every invocation.
type Config struct {
	Mode    string    `yaml:"mode"`
	Weights []float64 `yaml:"weights"`
	Limits  []string  `yaml:"limits"`
}

const configEnv = "PARETOCTL_CONFIG"

// loadConfig reads the YAML config from the explicit path, the
// PARETOCTL_CONFIG environment variable, or the default location.
// A missing file yields a zero config.
func loadConfig(explicit string) (Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(home, ".config", "paretoctl", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
