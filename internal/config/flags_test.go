package config

import (
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func TestGetFlagMapping(t *testing.T) {
	mapping := GetFlagMapping()

	// Test some expected mappings
	tests := []struct {
		flagName   string
		configPath string
	}{
		{"credentials-path", "credentials_path"},
		{"api-url", "api_url"},
		{"no-version-check", "no_version_check"},
		{"server-addr", "server.addr"},
		{"token-ttl", "token.ttl"},
		{"log-level", "log.level"},
		{"log-format", "log.format"},
		{"tls-insecure-skip-verify", "tls.insecure_skip_verify"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			got, ok := mapping[tt.flagName]
			if !ok {
				t.Errorf("flag %q not found in mapping", tt.flagName)
				return
			}
			if got != tt.configPath {
				t.Errorf("mapping[%q] = %q, want %q", tt.flagName, got, tt.configPath)
			}
		})
	}

	if got := len(allSettings()); got != len(mapping) {
		t.Errorf("got %d settings but %d mappings", got, len(mapping))
	}
}

func TestConfigPathToFlagName(t *testing.T) {
	tests := []struct {
		configPath string
		want       string
	}{
		{"server.addr", "server-addr"},
		{"credentials_path", "credentials-path"},
		{"log.level", "log-level"},
		{"tls.insecure_skip_verify", "tls-insecure-skip-verify"},
	}

	for _, tt := range tests {
		t.Run(tt.configPath, func(t *testing.T) {
			got := configPathToFlagName(tt.configPath)
			if got != tt.want {
				t.Errorf("configPathToFlagName(%q) = %q, want %q", tt.configPath, got, tt.want)
			}
		})
	}
}

func TestConfigPathToEnvName(t *testing.T) {
	tests := []struct {
		configPath string
		want       string
	}{
		{"server.addr", "CORD_SERVER_ADDR"},
		{"api_url", "CORD_API_URL"},
		{"tls.insecure_skip_verify", "CORD_TLS_INSECURE_SKIP_VERIFY"},
	}

	for _, tt := range tests {
		t.Run(tt.configPath, func(t *testing.T) {
			got := configPathToEnvName(tt.configPath)
			if got != tt.want {
				t.Errorf("configPathToEnvName(%q) = %q, want %q", tt.configPath, got, tt.want)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	// Register all flags
	RegisterFlags(flagSet)

	// Verify some expected flags exist with usage strings
	expectedFlags := []struct {
		name  string
		usage string
	}{
		{"credentials-path", "credential file path (default: ~/.cord)"},
		{"server-addr", "token server listen address"},
		{"token-ttl", "lifetime of minted tokens"},
		{"log-level", "log level: debug, info, warn, error"},
		{"no-version-check", "skip the daily check for a newer CLI"},
	}

	for _, tt := range expectedFlags {
		t.Run(tt.name, func(t *testing.T) {
			flag := flagSet.Lookup(tt.name)
			if flag == nil {
				t.Errorf("flag %q not registered", tt.name)
				return
			}
			if flag.Usage != tt.usage {
				t.Errorf("flag %q usage = %q, want %q", tt.name, flag.Usage, tt.usage)
			}
		})
	}

	if flag := flagSet.Lookup("no-version-check"); flag != nil && flag.Value.Type() != "bool" {
		t.Errorf("no-version-check has type %q, want bool", flag.Value.Type())
	}
}

func TestRegisterFlags_SkipsExisting(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.String("log-level", "info", "custom")

	RegisterFlags(flagSet)

	if got := flagSet.Lookup("log-level").Usage; got != "custom" {
		t.Errorf("existing flag was replaced, usage = %q", got)
	}
}

func TestSettings_SkipsUntaggedFields(t *testing.T) {
	type nested struct {
		Name   string `koanf:"name" usage:"a name"`
		Hidden string
		Skip   string `koanf:"-"`
	}
	type sample struct {
		Enabled bool   `koanf:"enabled"`
		Inner   nested `koanf:"inner"`
		Count   int    `koanf:"count"`
		private string `koanf:"private"`
	}

	var got []setting
	collectSettings(reflect.TypeOf(sample{}), "", &got)

	want := []setting{
		{configPath: "enabled", flagName: "enabled", envName: "CORD_ENABLED", kind: reflect.Bool},
		{configPath: "inner.name", flagName: "inner-name", envName: "CORD_INNER_NAME", usage: "a name", kind: reflect.String},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectSettings() = %+v, want %+v", got, want)
	}
}

func TestGetEnvMapping(t *testing.T) {
	mapping := GetEnvMapping()

	if got := mapping["CORD_SERVER_ADDR"]; got != "server.addr" {
		t.Errorf("CORD_SERVER_ADDR maps to %q", got)
	}
	if got := mapping["CORD_CONFIG_PATH"]; got != "credentials_path" {
		t.Errorf("CORD_CONFIG_PATH maps to %q", got)
	}
	if _, ok := mapping["CORD_SETTINGS"]; ok {
		t.Error("CORD_SETTINGS selects the settings file and is not a config key")
	}
}
