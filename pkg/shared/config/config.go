package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// ValidateConfigPath checks that the given path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file at configPath. A missing file is not
// an error; defaults and environment overrides are applied during validation.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if err := LoadYAML(configPath, config); err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	return config, nil
}
