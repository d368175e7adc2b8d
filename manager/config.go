package manager

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kbukum/bytepipe/config"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/observability"
	"github.com/kbukum/bytepipe/validation"
)

// ServiceName names the application in config lookup, logs and telemetry.
const ServiceName = "bytepipe"

// Legacy manager file keys.
const (
	KeyInputFile  = "input_file"
	KeyOutputFile = "output_file"
	KeyPipeline   = "pipeline"
)

// Pipeline string delimiters: "stage, config; stage, config".
const (
	stageDelimiter = ";"
	fieldDelimiter = ","
)

// StageSpec names one stage of the chain and its parameter file.
type StageSpec struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Config string `yaml:"config" mapstructure:"config"`
}

// Config is the run configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	InputFile     string               `yaml:"input_file" mapstructure:"input_file"`
	OutputFile    string               `yaml:"output_file" mapstructure:"output_file"`
	Stages        []StageSpec          `yaml:"stages" mapstructure:"stages"`
	Pipeline      string               `yaml:"pipeline" mapstructure:"pipeline"`
	RunID         string               `yaml:"run_id" mapstructure:"run_id"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate resolves the pipeline string into stages and checks every field.
// Failures are CONFIG_SEMANTIC_ERROR.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.ConfigSemantic("service", err.Error()).WithCause(err)
	}
	if err := c.Observability.Validate(); err != nil {
		return errors.ConfigSemantic("observability", err.Error()).WithCause(err)
	}

	if c.Pipeline != "" {
		if len(c.Stages) > 0 {
			return errors.ConfigSemantic(KeyPipeline, "cannot be combined with stages")
		}
		specs, err := ParsePipeline(c.Pipeline)
		if err != nil {
			return err
		}
		c.Stages = specs
		c.Pipeline = ""
	}

	v := validation.New().
		FileExists(KeyInputFile, c.InputFile).
		Required(KeyOutputFile, c.OutputFile).
		OptionalUUID("run_id", c.RunID).
		Custom(len(c.Stages) >= 2, "stages", "a pipeline needs at least a reader and a writer")
	for i, s := range c.Stages {
		field := fmt.Sprintf("stages[%d]", i)
		v.Required(field+".name", s.Name).FileExists(field+".config", s.Config)
	}
	return v.Error()
}

// ParsePipeline parses "stage, config_file; stage, config_file; ...".
// Blank elements are skipped.
func ParsePipeline(s string) ([]StageSpec, error) {
	var specs []StageSpec
	for i, elem := range strings.Split(s, stageDelimiter) {
		if strings.TrimSpace(elem) == "" {
			continue
		}
		fields := strings.Split(elem, fieldDelimiter)
		if len(fields) != 2 {
			return nil, errors.ConfigSemantic(KeyPipeline, "each element must be \"stage, config_file\"").
				WithDetails(map[string]any{"element": i, "text": strings.TrimSpace(elem)})
		}
		spec := StageSpec{Name: strings.TrimSpace(fields[0]), Config: strings.TrimSpace(fields[1])}
		if spec.Name == "" || spec.Config == "" {
			return nil, errors.ConfigSemantic(KeyPipeline, "stage and config_file must not be empty").
				WithDetail("element", i)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Load reads a run configuration. Files ending in .yml or .yaml are YAML
// with BYTEPIPE_* environment overrides; anything else is the legacy
// key/value manager file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	default:
		if err := loadLegacy(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	if !config.IsFile(path) {
		return errors.New(errors.ErrCodeIORead, "cannot open config file").WithDetail("file", path)
	}
	if err := config.LoadConfig(ServiceName, cfg, config.WithConfigFile(path)); err != nil {
		return errors.ConfigGrammar(path, 0, "invalid YAML configuration").WithCause(err)
	}
	return nil
}

var legacyGrammar = config.NewGrammar(KeyInputFile, KeyOutputFile, KeyPipeline)

func loadLegacy(path string, cfg *Config) error {
	values, err := config.ReadMap(path, legacyGrammar)
	if err != nil {
		return err
	}
	cfg.InputFile = values.Default(KeyInputFile, "")
	cfg.OutputFile = values.Default(KeyOutputFile, "")
	cfg.Pipeline = values.Default(KeyPipeline, "")
	return nil
}
