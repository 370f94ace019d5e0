package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for releaseforge.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
}

// RegistryConfig describes where the releases registry lives and how its
// local clone is cached.
type RegistryConfig struct {
	RepoURL       string `yaml:"repo_url"`       // Inline or ${ENV_VAR}
	Branch        string `yaml:"branch"`         // Registry branch to track
	CacheDir      string `yaml:"cache_dir"`      // Local clone location
	ComponentsDir string `yaml:"components_dir"` // Subdirectory holding component documents
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default returns the built-in configuration used when no config file is
// present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file, expanding environment
// variables and filling unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Registry.RepoURL = expandEnv(cfg.Registry.RepoURL)
	cfg.Registry.CacheDir = expandEnv(cfg.Registry.CacheDir)
	applyDefaults(&cfg)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".releaseforge.yaml",
		".releaseforge.yml",
		"releaseforge.yaml",
		"releaseforge.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// DefaultCacheDir returns the per-user registry clone location.
func DefaultCacheDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warnf("Cannot determine home directory: %v", err)
		return filepath.Join(".releaseforge", "releases")
	}
	return filepath.Join(homeDir, ".releaseforge", "releases")
}

// expandEnv replaces ${VAR} references with their environment values.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Registry.Branch == "" {
		cfg.Registry.Branch = "master"
	}
	if cfg.Registry.CacheDir == "" {
		cfg.Registry.CacheDir = DefaultCacheDir()
	}
	if cfg.Registry.ComponentsDir == "" {
		cfg.Registry.ComponentsDir = "components"
	}
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if filepath.IsAbs(cfg.Registry.ComponentsDir) {
		return fmt.Errorf(
			"registry.components_dir must be relative to the registry root, got %q",
			cfg.Registry.ComponentsDir,
		)
	}
	return nil
}
