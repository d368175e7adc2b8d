// Package config provides configuration loading for bytepipe.
//
// Two formats are supported. The application config is YAML loaded with
// Viper, with values overridable from the environment (BYTEPIPE_ prefix)
// and an optional .env file:
//
//	var cfg manager.Config
//	err := config.LoadConfig("bytepipe", &cfg, config.WithConfigFile("bytepipe.yml"))
//
// Stage parameter files, legacy manager files and substitution tables use
// a line-oriented key/value grammar, one pair per line:
//
//	buffer_size = 4096
//
// ReadMap parses such a file against a Grammar that fixes the delimiter
// and, optionally, the set of allowed keys. A line that does not split
// into exactly one key and one value, an unknown key, or a key seen twice
// is a CONFIG_GRAMMAR_ERROR.
package config
