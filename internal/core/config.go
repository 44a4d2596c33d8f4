package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Store struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type ServiceConfig struct {
	Port           int    `yaml:"port"`
	ImageDir       string `yaml:"imageDir"`
	DisplayWidth   int    `yaml:"displayWidth"`
	ThumbnailWidth int    `yaml:"thumbnailWidth"`
	DefaultDotSize int    `yaml:"defaultDotSize"`
	MinDotSize     int    `yaml:"minDotSize"`
	MaxDotSize     int    `yaml:"maxDotSize"`
	Store          Store  `yaml:"store"`
}

// DefaultConfig mirrors the behavior of the original tool: scan the working
// directory for a body outline, preview at 350px, dot size slider 2..30
// defaulting to 6, entries held in memory.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:           8080,
		ImageDir:       ".",
		DisplayWidth:   350,
		ThumbnailWidth: 200,
		DefaultDotSize: 6,
		MinDotSize:     2,
		MaxDotSize:     30,
		Store:          Store{Type: "memory"},
	}
}

// LoadConfig loads configuration from the specified YAML file, falling back to
// defaults when the file does not exist. A .env file in the working directory
// is loaded first so environment overrides (PORT, IMAGE_DIR) can live there.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func applyEnvOverrides(config *ServiceConfig) {
	if port := os.Getenv("PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			config.Port = parsed
		}
	}
	if dir := os.Getenv("IMAGE_DIR"); dir != "" {
		config.ImageDir = dir
	}
}

func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}
	if config.DisplayWidth <= 0 {
		return fmt.Errorf("displayWidth must be positive, got %d", config.DisplayWidth)
	}
	if config.MinDotSize <= 0 || config.MaxDotSize < config.MinDotSize {
		return fmt.Errorf("invalid dot size range: %d..%d", config.MinDotSize, config.MaxDotSize)
	}
	if config.DefaultDotSize < config.MinDotSize || config.DefaultDotSize > config.MaxDotSize {
		return fmt.Errorf("defaultDotSize %d outside range %d..%d",
			config.DefaultDotSize, config.MinDotSize, config.MaxDotSize)
	}
	return nil
}
