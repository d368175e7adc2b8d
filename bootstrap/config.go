package bootstrap

import (
	"github.com/kbukum/bytepipe/config"
)

// Config is the constraint for application configuration types.
// Any struct that embeds config.ServiceConfig and defines its own
// ApplyDefaults and Validate satisfies it.
//
//	type RunConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    InputFile string `yaml:"input_file" mapstructure:"input_file"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
