package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. An empty path
// skips the file source; a missing file at an explicitly provided path is an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(yamlFileProvider{path: path}, nil); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: transformEnvVar,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return unmarshalAndValidate(k)
}

// yamlFileProvider adapts a goccy/go-yaml parsed file to koanf's Provider
// interface.
type yamlFileProvider struct {
	path string
}

func (p yamlFileProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("yaml file provider does not support raw bytes")
}

func (p yamlFileProvider) Read() (map[string]any, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return out, nil
}

// transformEnvVar maps environment variable names declared via `env` struct
// tags onto koanf paths. Unmapped variables are dropped so unrelated process
// environment never leaks into the configuration tree.
func transformEnvVar(key, value string) (string, any) {
	if path, ok := envMappings()[key]; ok {
		return path, value
	}
	return "", nil
}

var cachedEnvMappings map[string]string

// envMappings walks the Config struct tags once and caches the
// ENV_VAR -> koanf.path table.
func envMappings() map[string]string {
	if cachedEnvMappings != nil {
		return cachedEnvMappings
	}
	mappings := make(map[string]string)
	collectEnvMappings(reflect.TypeOf(Config{}), "", mappings)
	cachedEnvMappings = mappings
	return mappings
}

func collectEnvMappings(t reflect.Type, prefix string, out map[string]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		koanfTag := strings.Split(field.Tag.Get("koanf"), ",")[0]
		if koanfTag == "" {
			continue
		}
		path := koanfTag
		if prefix != "" {
			path = prefix + "." + koanfTag
		}
		if envTag := field.Tag.Get("env"); envTag != "" {
			out[envTag] = path
		}
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.PkgPath() == t.PkgPath() {
			collectEnvMappings(ft, path, out)
		}
	}
}

func sensitiveStringDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(SensitiveString("")) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return SensitiveString(v), nil
	case []byte:
		return SensitiveString(v), nil
	default:
		return data, nil
	}
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				sensitiveStringDecodeHook,
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
