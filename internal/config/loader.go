package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
)

// EnvPrefix marks environment variables read as settings.
const EnvPrefix = "MEIBO_"

const maxConfigFileSize = 1024 * 1024

const defaultsYAML = `
lookup:
  column: DuringWar
compile:
  row_tolerance: 10
  analyzer: kagome
  parallelism: 4
output:
  bom: true
log:
  level: info
  format: json
`

// Load reads settings from defaults, then the YAML file at path (if
// non-empty), then environment variables.
//
// Environment variables carry the MEIBO_ prefix and split on the first
// underscore after it:
//
//	MEIBO_LOOKUP_CROSSWALK      -> lookup.crosswalk
//	MEIBO_COMPILE_START_PAGE    -> compile.start_page
//	MEIBO_LOG_LEVEL             -> log.level
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaultsYAML)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: failed to load config file %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", internalerr.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: config file: %v", internalerr.ErrInvalidConfig, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: config path %s is a directory", internalerr.ErrInvalidConfig, path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: config file %s exceeds %d bytes", internalerr.ErrInvalidConfig, path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps MEIBO_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
