package config

import "slices"

// DefaultDelimiter separates keys from values in stage parameter files.
const DefaultDelimiter = "="

// Grammar describes a key/value file: its delimiter and the keys it allows.
type Grammar struct {
	// Delimiter separates key and value. Empty means DefaultDelimiter.
	Delimiter string
	// Tokens lists the allowed keys. Empty allows any key.
	Tokens []string
}

// NewGrammar creates a grammar using DefaultDelimiter and the given keys.
func NewGrammar(tokens ...string) Grammar {
	return Grammar{Delimiter: DefaultDelimiter, Tokens: tokens}
}

// delimiter returns the effective delimiter.
func (g Grammar) delimiter() string {
	if g.Delimiter == "" {
		return DefaultDelimiter
	}
	return g.Delimiter
}

// Allows reports whether key is permitted by the grammar.
func (g Grammar) Allows(key string) bool {
	return len(g.Tokens) == 0 || slices.Contains(g.Tokens, key)
}
