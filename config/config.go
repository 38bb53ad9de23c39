package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for depcore.
type Config struct {
	Ecosystems map[string]EcosystemConfig `yaml:"ecosystems"`
	Registries []RegistryConfig           `yaml:"registries"`
	Policy     PolicyConfig               `yaml:"policy"`
}

// EcosystemConfig holds per-ecosystem settings.
type EcosystemConfig struct {
	// Enabled defaults to true when omitted, so setting only Coordination
	// does not silently disable the ecosystem.
	Enabled *bool `yaml:"enabled"`

	// Coordination overrides the ecosystem's default policy for the shared
	// property hazard: "full" (coordinated rewrite) or "veto" (guard only).
	Coordination string `yaml:"coordination"`
}

// RegistryConfig describes one version catalog source.
type RegistryConfig struct {
	Type  string `yaml:"type"`  // "git", "maven", or "static"
	URL   string `yaml:"url"`   // Base URL for "maven" registries
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path

	// Versions declares the listing for "static" registries:
	// dependency name -> known versions.
	Versions map[string][]string `yaml:"versions"`
}

// PolicyConfig holds engine-wide policy switches.
type PolicyConfig struct {
	// StrictLookups rejects a group when a member's catalog lookup fails,
	// instead of treating the failure as "no information".
	StrictLookups bool `yaml:"strict_lookups"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

var coordinationModes = map[string]bool{
	"":     true,
	"full": true,
	"veto": true,
}

var registryTypes = map[string]bool{
	"git":    true,
	"maven":  true,
	"static": true,
}

// Default returns the configuration used when no file is present: every
// ecosystem enabled with its built-in coordination mode and no registries.
func Default() *Config {
	return &Config{
		Ecosystems: map[string]EcosystemConfig{},
	}
}

// Load reads and parses a configuration file, expanding environment variables
// and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	if cfg.Ecosystems == nil {
		cfg.Ecosystems = map[string]EcosystemConfig{}
	}

	// Resolve tokens (env vars and file paths)
	for i := range cfg.Registries {
		cfg.Registries[i].Token = resolveToken(cfg.Registries[i].Token)
	}

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
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depcore.yaml",
		".depcore.yml",
		"depcore.yaml",
		"depcore.yml",
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

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks field values; an empty config is valid and falls back to
// ecosystem defaults.
func validate(cfg *Config) error {
	for name, eco := range cfg.Ecosystems {
		if !coordinationModes[eco.Coordination] {
			return fmt.Errorf(
				"ecosystems[%s].coordination must be \"full\" or \"veto\", got %q",
				name, eco.Coordination,
			)
		}
	}

	for i, reg := range cfg.Registries {
		if !registryTypes[reg.Type] {
			return fmt.Errorf(
				"registries[%d].type must be one of git, maven, static; got %q",
				i, reg.Type,
			)
		}
		if reg.Type == "maven" && reg.URL == "" {
			return fmt.Errorf("registries[%d].url is required for maven registries", i)
		}
		if reg.Type == "static" && len(reg.Versions) == 0 {
			return fmt.Errorf("registries[%d].versions is required for static registries", i)
		}
	}

	return nil
}
