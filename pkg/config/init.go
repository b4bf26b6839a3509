package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sampleHeader is prepended to generated configuration files.
const sampleHeader = `# bookerd Configuration File
#
# Generated by 'bookerd init'. Every value below is the default; edit what
# you need and delete the rest. Environment variables with the BOOKERD_
# prefix override file values (e.g. BOOKERD_LOGGING_LEVEL=DEBUG).
#
# The catalog can also be loaded from a JSON document:
#   catalog:
#     file: /etc/bookerd/catalog.json

`

// InitConfig writes a commented sample configuration file at the default
// location and returns its path. With force false an existing file is left
// untouched and an error returned.
func InitConfig(force bool) (string, error) {
	configPath := GetDefaultConfigPath()
	return configPath, InitConfigToPath(configPath, force)
}

// InitConfigToPath writes the sample configuration file at an explicit path.
func InitConfigToPath(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configPath, append([]byte(sampleHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
