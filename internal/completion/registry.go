package completion

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// ModelDefaults holds per-provider request defaults loaded from the embedded
// YAML file. Model and BaseURL may be overridden by environment configuration.
type ModelDefaults struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type defaultsFile struct {
	Providers map[string]ModelDefaults `yaml:"providers"`
}

// LoadDefaults returns the embedded request defaults for a provider.
func LoadDefaults(provider string) (*ModelDefaults, error) {
	data, err := configFiles.ReadFile("config/providers.yaml")
	if err != nil {
		return nil, fmt.Errorf("read provider defaults: %w", err)
	}

	var file defaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal provider defaults: %w", err)
	}

	defaults, ok := file.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("no defaults for provider %q", provider)
	}

	return &defaults, nil
}
