package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

// Preset is a named parameter set.
type Preset struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Params      models.Params `yaml:"params"`
}

// BuiltinPresets returns the parameter sets shipped with the tool.
func BuiltinPresets() []Preset {
	defaults := models.DefaultParams()

	strong := defaults
	strong.Beta = 0.6

	weak := defaults
	weak.Beta = 0.4

	platform := defaults
	platform.Gamma = 0.5

	return []Preset{
		{
			Name:        "paper-defaults",
			Description: "Parameter values from the worked examples of the paper",
			Params:      defaults,
		},
		{
			Name:        "strong-entrant",
			Description: "Entrant holds most of the bargaining power (beta = 0.6)",
			Params:      strong,
		},
		{
			Name:        "weak-entrant",
			Description: "Incumbent holds most of the bargaining power (beta = 0.4)",
			Params:      weak,
		},
		{
			Name:        "platform",
			Description: "Strong network externality for the two-sided market model (gamma = 0.5)",
			Params:      platform,
		},
	}
}

// LoadPresetsFile reads additional presets from a YAML file and appends them
// to the built-in set. File presets shadow built-ins with the same name.
func LoadPresetsFile(path string) ([]Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var file struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %w", err)
	}

	merged := BuiltinPresets()
	for _, preset := range file.Presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("preset without a name in %s", path)
		}
		if err := preset.Params.Validate(); err != nil {
			return nil, fmt.Errorf("preset '%s': %w", preset.Name, err)
		}
		replaced := false
		for i := range merged {
			if merged[i].Name == preset.Name {
				merged[i] = preset
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, preset)
		}
	}

	return merged, nil
}

// FindPreset looks up a preset by name.
func FindPreset(presets []Preset, name string) (Preset, error) {
	for _, preset := range presets {
		if preset.Name == name {
			return preset, nil
		}
	}
	names := make([]string, len(presets))
	for i, preset := range presets {
		names[i] = preset.Name
	}
	return Preset{}, fmt.Errorf("preset '%s' not found (available: %v)", name, names)
}
