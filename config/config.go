package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zoepiqian/bufferplan/infra/metrics"
)

// Config is the full service configuration.
type Config struct {
	HTTP     HTTPConfig     `json:"http"`
	Planning PlanningConfig `json:"planning"`
	Metrics  metrics.Config `json:"metrics"`
}

// Load reads the configuration file (YAML or JSON by extension), applies
// BP_ environment overrides (BP_HTTP__ADDR → http.addr) and validates the
// result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("BP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Planning.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.HTTP.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Planning.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
