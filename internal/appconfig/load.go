package appconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Broker.Host == "" {
		return nil, fmt.Errorf("config %s: broker.host is required", path)
	}
	if cfg.Broker.Topic == "" {
		return nil, fmt.Errorf("config %s: broker.topic is required", path)
	}
	if cfg.Broker.Port == 0 {
		cfg.Broker.Port = 1883
	}
	if cfg.Credentials.ClientID == "" {
		cfg.Credentials.ClientID = "acprocessor"
	}

	return &cfg, nil
}
