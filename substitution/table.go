package substitution

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/bytepipe/config"
	"github.com/kbukum/bytepipe/errors"
)

// Delimiter separates source and target bytes in a table file.
const Delimiter = "->"

// Table maps every byte value to a replacement.
type Table struct {
	m [256]byte
}

// Identity returns a table mapping every byte to itself.
func Identity() *Table {
	t := &Table{}
	for i := range t.m {
		t.m[i] = byte(i)
	}
	return t
}

// Set maps from to to.
func (t *Table) Set(from, to byte) {
	t.m[from] = to
}

// Substitute returns the replacement for b.
func (t *Table) Substitute(b byte) byte {
	return t.m[b]
}

// Apply replaces every byte of p in place and returns p.
func (t *Table) Apply(p []byte) []byte {
	for i, b := range p {
		p[i] = t.m[b]
	}
	return p
}

// Changed returns the number of entries that do not map to themselves.
func (t *Table) Changed() int {
	n := 0
	for i, b := range t.m {
		if byte(i) != b {
			n++
		}
	}
	return n
}

// Load reads a table file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeIORead, "cannot open substitution table").
			WithDetail("file", path).WithCause(err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads mappings from r. Literals must be exactly "0x" followed by two
// hex digits. A malformed line or literal is a CONFIG_SEMANTIC_ERROR; a source
// byte mapped twice is a CONFIG_GRAMMAR_ERROR.
func Parse(r io.Reader, source string) (*Table, error) {
	values, err := config.ParseMap(r, config.Grammar{Delimiter: Delimiter}, source)
	if err != nil {
		appErr, ok := errors.AsAppError(err)
		if ok && appErr.Code == errors.ErrCodeConfigGrammar && appErr.Details["reason"] == config.ReasonMalformed {
			return nil, errors.ConfigSemantic("mapping", "expected 0xNN->0xNN").
				WithDetails(appErr.Details).WithCause(err)
		}
		return nil, err
	}

	t := Identity()
	for _, key := range values.Keys() {
		from, err := parseByte(key)
		if err != nil {
			return nil, err.WithDetail("file", source)
		}
		val, _ := values.String(key)
		to, err := parseByte(val)
		if err != nil {
			return nil, err.WithDetail("file", source)
		}
		t.Set(from, to)
	}
	return t, nil
}

// parseByte parses a literal of the form 0xNN.
func parseByte(s string) (byte, *errors.AppError) {
	if len(s) != 4 || !strings.HasPrefix(s, "0x") {
		return 0, errors.ConfigSemantic("mapping", "byte literal must look like 0xNN").
			WithDetail("value", s)
	}
	n, err := strconv.ParseUint(s[2:], 16, 8)
	if err != nil {
		return 0, errors.ConfigSemantic("mapping", "byte literal is not hexadecimal").
			WithDetail("value", s).WithCause(err)
	}
	return byte(n), nil
}
