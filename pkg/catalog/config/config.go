package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	// Output selects the default rendering mode: "plain" or "json".
	Output string `mapstructure:"output"`

	// IncludeHidden scans dot-prefixed entries when true.
	IncludeHidden bool `mapstructure:"include_hidden"`

	// OneFilesystem refuses to cross device boundaries when true.
	// Individual runs may override it.
	OneFilesystem bool `mapstructure:"one_filesystem"`

	// Roots is the ordered list of directories to index.
	Roots []string `mapstructure:"roots"`

	// Excludes holds exclusion rules: gitignore-style relative patterns,
	// or absolute / home-relative path prefixes.
	Excludes []string `mapstructure:"excludes"`
}

// Default returns a configuration with default values and no roots.
func Default() *Config {
	return &Config{
		Output:        DefaultOutput,
		IncludeHidden: DefaultIncludeHidden,
		OneFilesystem: DefaultOneFilesystem,
		Excludes:      append([]string(nil), DefaultExcludes...),
	}
}

// Paths holds the resolved locations of the config file and the store.
type Paths struct {
	ConfigPath string
	StorePath  string
}

// ResolvePaths determines the config and store locations. Explicit
// overrides win, then CATALOG_CONFIG / CATALOG_STORE environment
// variables, then the XDG defaults.
func ResolvePaths(configOverride, storeOverride string) (Paths, error) {
	configPath := configOverride
	if configPath == "" {
		configPath = os.Getenv("CATALOG_CONFIG")
	}
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	storePath := storeOverride
	if storePath == "" {
		storePath = os.Getenv("CATALOG_STORE")
	}
	if storePath == "" {
		storePath = DefaultStorePath()
	}

	configPath, err := NormalizePathAllowMissing(configPath)
	if err != nil {
		return Paths{}, err
	}
	storePath, err = NormalizePathAllowMissing(storePath)
	if err != nil {
		return Paths{}, err
	}

	return Paths{ConfigPath: configPath, StorePath: storePath}, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/catalog/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "catalog", "config.yaml")
}

// DefaultStorePath returns $XDG_DATA_HOME/catalog/index, the directory
// holding the Badger-backed inventory.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, "catalog", "index")
}

// Load reads a configuration file. A missing file yields the defaults;
// a malformed file is an error. Environment variables prefixed with
// CATALOG_ override individual keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", DefaultOutput)
	v.SetDefault("include_hidden", DefaultIncludeHidden)
	v.SetDefault("one_filesystem", DefaultOneFilesystem)
	v.SetDefault("roots", []string{})
	v.SetDefault("excludes", DefaultExcludes)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config is acceptable; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("output", cfg.Output)
	v.Set("include_hidden", cfg.IncludeHidden)
	v.Set("one_filesystem", cfg.OneFilesystem)
	v.Set("roots", cfg.Roots)
	v.Set("excludes", cfg.Excludes)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ErrUnknownPreset is returned for an unrecognized preset name.
var ErrUnknownPreset = errors.New("unknown preset")

// ApplyPreset replaces the configured roots with the preset's entries
// that exist on this machine, and resets excludes to the defaults.
func ApplyPreset(cfg *Config, name string) error {
	roots, ok := presetRoots[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}

	var normalized []string
	for _, root := range roots {
		expanded := ExpandPath(root)
		if _, err := os.Stat(expanded); err != nil {
			continue
		}
		canonical, err := NormalizePath(expanded)
		if err != nil {
			continue
		}
		normalized = append(normalized, canonical)
	}

	cfg.Roots = normalized
	cfg.Excludes = append([]string(nil), DefaultExcludes...)
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory. Paths
// without a tilde are returned unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// NormalizePath expands, absolutizes, and canonicalizes a path. The path
// must exist.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", abs)
	}
	return canonical, nil
}

// NormalizePathAllowMissing behaves like NormalizePath but passes missing
// paths through after absolutization.
func NormalizePathAllowMissing(path string) (string, error) {
	abs, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	if _, statErr := os.Lstat(abs); statErr != nil {
		return abs, nil
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return canonical, nil
}
