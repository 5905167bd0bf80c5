package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConcurrency     = 8
	DefaultRegistryTimeout = 30 * time.Second
	DefaultRetries         = 3
	DefaultRetryDelay      = time.Second
	DefaultCacheTTL        = time.Hour
)

// SelectionSettings is the per-run version selection policy.
type SelectionSettings struct {
	// KeepMajor compares against the latest version of the current major.
	KeepMajor bool `yaml:"minor" toml:"minor"`
	// RequestedMajor pins the target to this major; 0 means none.
	RequestedMajor int `yaml:"major" toml:"major"`
	// IncludePreRelease makes pre-release channels eligible.
	IncludePreRelease bool `yaml:"pre_release" toml:"pre_release"`
}

// RegistrySettings tunes the registry HTTP client.
type RegistrySettings struct {
	Timeout    time.Duration `yaml:"timeout" toml:"timeout"`
	Retries    int           `yaml:"retries" toml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay" toml:"retry_delay"`
}

// CacheSettings selects where registry responses are cached.
type CacheSettings struct {
	Disabled bool          `yaml:"disabled" toml:"disabled"`
	Dir      string        `yaml:"dir" toml:"dir"`
	TTL      time.Duration `yaml:"ttl" toml:"ttl"`
	RedisURL string        `yaml:"redis_url" toml:"redis_url"`
}

// Settings holds everything a list or update run needs.
type Settings struct {
	SelectionSettings `yaml:",inline"`

	Path         string           `yaml:"path" toml:"path"`
	Sources      []string         `yaml:"sources" toml:"sources"`
	Include      []string         `yaml:"include" toml:"include"`
	Ignore       []string         `yaml:"ignore" toml:"ignore"`
	Debug        bool             `yaml:"debug" toml:"debug"`
	DryRun       bool             `yaml:"dry_run" toml:"dry_run"`
	Concurrency  int              `yaml:"concurrency" toml:"concurrency"`
	CompatMarker *string          `yaml:"compat_marker" toml:"compat_marker"`
	Audit        bool             `yaml:"audit" toml:"audit"`
	ShowURLs     bool             `yaml:"show_urls" toml:"show_urls"`
	Registry     RegistrySettings `yaml:"registry" toml:"registry"`
	Cache        CacheSettings    `yaml:"cache" toml:"cache"`
}

// NewDefaultSettings returns the settings used when no config file exists.
func NewDefaultSettings() *Settings {
	settings := &Settings{Path: "."}
	settings.applyDefaults()
	return settings
}

// NewSettings reads a YAML or TOML config file (chosen by extension), expands
// ${ENV} references and validates the result.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := &Settings{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, settings)
	default:
		err = yaml.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings.Path = expandEnv(settings.Path)
	settings.Cache.Dir = expandEnv(settings.Cache.Dir)
	settings.Cache.RedisURL = expandEnv(settings.Cache.RedisURL)
	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
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
		".depwatch.yaml",
		".depwatch.yml",
		".depwatch.toml",
		"depwatch.yaml",
		"depwatch.yml",
		"depwatch.toml",
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

// CompatPolicy returns the compatibility-branch policy for this run.
func (it *Settings) CompatPolicy() CompatChannelPolicy {
	if it.CompatMarker == nil {
		return NewCompatChannelPolicy(DefaultCompatMarker)
	}
	return NewCompatChannelPolicy(*it.CompatMarker)
}

// SourceEnabled reports whether source is selected; all are when Sources is empty.
func (it *Settings) SourceEnabled(source Source) bool {
	if len(it.Sources) == 0 {
		return true
	}
	for _, name := range it.Sources {
		if ParseSource(name) == source {
			return true
		}
	}
	return false
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func (it *Settings) applyDefaults() {
	if it.Path == "" {
		it.Path = "."
	}
	if it.Concurrency == 0 {
		it.Concurrency = DefaultConcurrency
	}
	if it.Registry.Timeout == 0 {
		it.Registry.Timeout = DefaultRegistryTimeout
	}
	if it.Registry.Retries == 0 {
		it.Registry.Retries = DefaultRetries
	}
	if it.Registry.RetryDelay == 0 {
		it.Registry.RetryDelay = DefaultRetryDelay
	}
	if it.Cache.TTL == 0 {
		it.Cache.TTL = DefaultCacheTTL
	}
}

func (it *Settings) validate() error {
	if it.RequestedMajor < 0 {
		return fmt.Errorf("major must be positive, got %d", it.RequestedMajor)
	}
	if it.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", it.Concurrency)
	}
	if it.Registry.Retries < 1 {
		return fmt.Errorf("registry.retries must be at least 1, got %d", it.Registry.Retries)
	}
	for _, name := range it.Sources {
		if ParseSource(name) == SourceUnknown {
			return fmt.Errorf("unknown source %q (expected npm or nuget)", name)
		}
	}
	return nil
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

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
