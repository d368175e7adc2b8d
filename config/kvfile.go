package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/bytepipe/errors"
)

// Grammar error reasons, reported in the "reason" detail of the AppError.
const (
	ReasonMalformed  = "malformed line"
	ReasonUnknownKey = "unknown key"
	ReasonDuplicate  = "duplicate key"
)

// Values holds the key/value pairs read from a file, in file order.
type Values struct {
	source string
	keys   []string
	pairs  map[string]string
}

// ReadMap reads and parses the key/value file at path.
func ReadMap(path string, g Grammar) (*Values, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeIORead, "cannot open config file").
			WithDetail("file", path).WithCause(err)
	}
	defer f.Close()
	return ParseMap(f, g, path)
}

// ParseMap parses key/value lines from r. source names the input in errors.
// Blank lines and lines starting with '#' are skipped.
func ParseMap(r io.Reader, g Grammar, source string) (*Values, error) {
	v := &Values{source: source, pairs: make(map[string]string)}
	delim := g.delimiter()

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, delim)
		if len(parts) != 2 {
			return nil, errors.ConfigGrammar(source, lineNo, ReasonMalformed).WithDetail("text", line)
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, errors.ConfigGrammar(source, lineNo, ReasonMalformed).WithDetail("text", line)
		}
		if !g.Allows(key) {
			return nil, errors.ConfigGrammar(source, lineNo, ReasonUnknownKey).WithDetail("key", key)
		}
		if _, dup := v.pairs[key]; dup {
			return nil, errors.ConfigGrammar(source, lineNo, ReasonDuplicate).WithDetail("key", key)
		}
		v.pairs[key] = val
		v.keys = append(v.keys, key)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.New(errors.ErrCodeIORead, "cannot read config file").
			WithDetail("file", source).WithCause(err)
	}
	return v, nil
}

// Source returns the name of the parsed input.
func (v *Values) Source() string {
	return v.source
}

// Keys returns the keys in file order.
func (v *Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Len returns the number of pairs.
func (v *Values) Len() int {
	return len(v.keys)
}

// String returns the value for key.
func (v *Values) String(key string) (string, bool) {
	s, ok := v.pairs[key]
	return s, ok
}

// Require returns the value for key or a CONFIG_SEMANTIC_ERROR if it is missing.
func (v *Values) Require(key string) (string, error) {
	s, ok := v.pairs[key]
	if !ok || s == "" {
		return "", errors.ConfigSemantic(key, "is required").WithDetail("file", v.source)
	}
	return s, nil
}

// Int returns the value for key parsed as a decimal integer.
func (v *Values) Int(key string) (int, error) {
	s, err := v.Require(key)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil {
		return 0, errors.ConfigSemantic(key, "must be an integer").
			WithDetails(map[string]any{"file": v.source, "value": s}).WithCause(convErr)
	}
	return n, nil
}

// PositiveInt returns the value for key parsed as an integer greater than zero.
func (v *Values) PositiveInt(key string) (int, error) {
	s, err := v.Require(key)
	if err != nil {
		return 0, err
	}
	if !IsPositiveInt(s) {
		return 0, errors.ConfigSemantic(key, "must be a positive integer").
			WithDetails(map[string]any{"file": v.source, "value": s})
	}
	n, _ := strconv.Atoi(s)
	return n, nil
}

// Default returns the value for key, or def when the key is absent.
func (v *Values) Default(key, def string) string {
	if s, ok := v.pairs[key]; ok && s != "" {
		return s
	}
	return def
}

// IsPositiveInt reports whether s is a decimal integer greater than zero.
func IsPositiveInt(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
