package config

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// setting is one leaf of Config, addressable as a flag, an env var and a koanf path
type setting struct {
	configPath string       // e.g., "server.addr"
	flagName   string       // e.g., "server-addr"
	envName    string       // e.g., "CORD_SERVER_ADDR"
	usage      string       // e.g., "token server listen address"
	kind       reflect.Kind // reflect.String or reflect.Bool
}

// allSettings lists every leaf of Config in declaration order
func allSettings() []setting {
	var out []setting
	collectSettings(reflect.TypeOf(Config{}), "", &out)
	return out
}

// collectSettings descends into nested structs and records string and bool
// fields by their koanf tag. Untagged fields are not settings.
func collectSettings(t reflect.Type, parentPath string, out *[]setting) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}

		configPath := tag
		if parentPath != "" {
			configPath = parentPath + "." + tag
		}

		switch kind := field.Type.Kind(); kind {
		case reflect.Struct:
			collectSettings(field.Type, configPath, out)
		case reflect.String, reflect.Bool:
			*out = append(*out, setting{
				configPath: configPath,
				flagName:   configPathToFlagName(configPath),
				envName:    configPathToEnvName(configPath),
				usage:      field.Tag.Get("usage"),
				kind:       kind,
			})
		}
	}
}

// configPathToFlagName converts a config path to a flag name
// Examples:
//   - "server.addr" -> "server-addr"
//   - "credentials_path" -> "credentials-path"
func configPathToFlagName(configPath string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(configPath)
}

// configPathToEnvName converts a config path to an environment variable name
// Examples:
//   - "server.addr" -> "CORD_SERVER_ADDR"
//   - "tls.insecure_skip_verify" -> "CORD_TLS_INSECURE_SKIP_VERIFY"
func configPathToEnvName(configPath string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(configPath, ".", "_"))
}

// RegisterFlags registers a flag for every setting not already on flagSet.
// Flags have zero defaults so only changed ones override lower layers.
func RegisterFlags(flagSet *pflag.FlagSet) {
	for _, s := range allSettings() {
		if flagSet.Lookup(s.flagName) != nil {
			continue
		}
		if s.kind == reflect.Bool {
			flagSet.Bool(s.flagName, false, s.usage)
		} else {
			flagSet.String(s.flagName, "", s.usage)
		}
	}
}

// GetFlagMapping returns the mapping from flag names to config paths
func GetFlagMapping() map[string]string {
	mapping := map[string]string{}
	for _, s := range allSettings() {
		mapping[s.flagName] = s.configPath
	}
	return mapping
}

// GetEnvMapping returns the mapping from environment variable names to config paths,
// including legacy aliases
func GetEnvMapping() map[string]string {
	mapping := map[string]string{}
	for _, s := range allSettings() {
		mapping[s.envName] = s.configPath
	}
	for alias, path := range envAliases {
		mapping[alias] = path
	}
	return mapping
}
