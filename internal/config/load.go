package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// ResolvePath returns the config file location, honoring the environment override.
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config file at path and fills defaults.
// A missing file is not an error: the built-in defaults are returned.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(path, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML or JSON (chosen by extension), rejects unknown fields,
// fills defaults and validates the result.
func Parse(path string, data []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every path is absolute and the target name is sane.
func (c *Config) Validate() error {
	paths := map[string]string{
		"sources.crontab":       c.Sources.Crontab,
		"sources.anacrontab":    c.Sources.Anacrontab,
		"sources.cron_d":        c.Sources.CronD,
		"sources.spool":         c.Sources.Spool,
		"sources.reboot_marker": c.Sources.RebootMarker,
		"units.boot_delay":      c.Units.BootDelay,
		"units.systemctl":       c.Units.Systemctl,
		"units.shell":           c.Units.Shell,
	}
	for _, period := range Periods {
		paths["sources.parts."+period] = c.Sources.Parts[period]
	}
	for i, d := range c.Units.Dirs {
		paths[fmt.Sprintf("units.dirs[%d]", i)] = d
	}
	for k, v := range paths {
		if !filepath.IsAbs(v) {
			return fmt.Errorf("%s: path must be absolute, got %q", k, v)
		}
	}
	for k := range c.Sources.Parts {
		if !isPeriod(k) {
			return fmt.Errorf("sources.parts: unknown period %q", k)
		}
	}
	if !strings.HasSuffix(c.Units.Target, ".target") {
		return fmt.Errorf("units.target: %q is not a target unit", c.Units.Target)
	}
	return nil
}

func isPeriod(s string) bool {
	for _, p := range Periods {
		if p == s {
			return true
		}
	}
	return false
}

// coerceToJSONBytes converts YAML config to JSON bytes so we can re-use the strict
// JSON decoder (DisallowUnknownFields) for both formats.
//
// Returns (jsonBytes, format, err) where format is "json" or "yaml".
func coerceToJSONBytes(path string, data []byte) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return data, "json", nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, "yaml", fmt.Errorf("yaml unmarshal: %w", err)
	}
	if v == nil {
		// empty document
		return []byte("{}"), "yaml", nil
	}

	j, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, "yaml", fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, "yaml", nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = normalizeYAML(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
