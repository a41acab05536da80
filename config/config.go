// Package config loads the YAML configuration of the cssparse tool.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/benbjohnson/go-css/parser"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ParserConfig struct {
		IEValues   bool   `yaml:"ie_values"`
		StarHack   bool   `yaml:"star_hack"`
		MaxNesting int    `yaml:"max_nesting" validate:"min=1,max=4096"`
		Charset    string `yaml:"charset"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Parser  ParserConfig  `yaml:"parser"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Flags returns the parser flags selected by the configuration.
func (conf *ParserConfig) Flags() parser.Flags {
	var f parser.Flags
	if conf.IEValues {
		f |= parser.IEValues
	}
	if conf.StarHack {
		f |= parser.StarHack
	}
	return f
}

// Options converts the configuration to parser options.
func (conf *ParserConfig) Options() []parser.Option {
	return []parser.Option{
		parser.WithFlags(conf.Flags()),
		parser.WithMaxNesting(conf.MaxNesting),
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Unknown keys are errors, so yaml.Unmarshal cannot be used directly.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template and
// validates the result. An empty path loads the defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates the default configuration file from the template.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump serializes cfg back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
