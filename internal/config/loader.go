package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable the loader reads
const EnvPrefix = "CORD_"

// envAliases maps extra environment variable names onto config paths
var envAliases = map[string]string{
	"CORD_CONFIG_PATH": "credentials_path",
}

// Loader layers configuration sources, lowest precedence first:
// built-in defaults, settings file, CORD_* environment variables, flags.
type Loader struct {
	k            *koanf.Koanf
	settingsPath string
}

// NewLoader loads configuration without command-line flags
func NewLoader(settingsPath string) (*Loader, error) {
	return NewLoaderWithFlags(settingsPath, nil)
}

// NewLoaderWithFlags loads configuration from the settings file (optional),
// environment and the changed flags in flagSet (optional)
func NewLoaderWithFlags(settingsPath string, flagSet *pflag.FlagSet) (*Loader, error) {
	l := &Loader{
		k:            koanf.New("."),
		settingsPath: settingsPath,
	}

	if settingsPath != "" {
		parser, err := parserFor(settingsPath)
		if err != nil {
			return nil, err
		}
		if err := l.k.Load(file.Provider(settingsPath), parser); err != nil {
			return nil, fmt.Errorf("failed to load settings file %s: %w", settingsPath, err)
		}
	}

	envMapping := GetEnvMapping()
	if err := l.k.Load(env.Provider(EnvPrefix, ".", func(name string) string {
		return envMapping[name]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flagSet != nil {
		flagMapping := GetFlagMapping()
		if err := l.k.Load(posflag.ProviderWithFlag(flagSet, ".", l.k, func(f *pflag.Flag) (string, interface{}) {
			path, ok := flagMapping[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return path, posflag.FlagVal(flagSet, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	return l, nil
}

// Get returns the merged, validated configuration
func (l *Loader) Get() (*Config, error) {
	cfg := Default()
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SettingsPath returns the settings file the loader read, if any
func (l *Loader) SettingsPath() string {
	return l.settingsPath
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported settings file format %q (use .yaml, .json or .toml)", filepath.Ext(path))
	}
}
