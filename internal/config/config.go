// Package config loads the generator settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config says where the corpus lives, where payloads are copied and how the
// generated file is spelled.
type Config struct {
	CorpusRoot        string `yaml:"corpus"`
	DataRoot          string `yaml:"data"`
	DataRef           string `yaml:"data_ref"`
	Package           string `yaml:"package"`
	ConformanceImport string `yaml:"conformance_import"`
	SSZImport         string `yaml:"ssz_import"`
}

// Default returns the layout used when the generator runs from the module root.
func Default() Config {
	return Config{
		CorpusRoot:        "consensus-spec-tests/tests/general/phase0/ssz_generic",
		DataRoot:          "internal/conformance/testdata",
		DataRef:           "testdata",
		Package:           "conformance_test",
		ConformanceImport: "alma.local/sszgen/internal/conformance",
		SSZImport:         "alma.local/sszgen/internal/sszref",
	}
}

// Load parses the YAML config at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Merge(file)
	return cfg, cfg.Validate()
}

// Merge copies the non-empty fields of o into c.
func (c *Config) Merge(o Config) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&c.CorpusRoot, o.CorpusRoot)
	set(&c.DataRoot, o.DataRoot)
	set(&c.DataRef, o.DataRef)
	set(&c.Package, o.Package)
	set(&c.ConformanceImport, o.ConformanceImport)
	set(&c.SSZImport, o.SSZImport)
}

// Validate reports every missing field.
func (c Config) Validate() error {
	var errs []error
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("config: %s is empty", name))
		}
	}
	check("corpus", c.CorpusRoot)
	check("data", c.DataRoot)
	check("data_ref", c.DataRef)
	check("package", c.Package)
	check("conformance_import", c.ConformanceImport)
	check("ssz_import", c.SSZImport)
	if strings.ContainsAny(c.Package, " ./-") {
		errs = append(errs, fmt.Errorf("config: package %q is not an identifier", c.Package))
	}
	return errors.Join(errs...)
}
