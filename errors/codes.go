package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument and stream errors
const (
	// ErrCodeInvalidArgument indicates a missing or nil required input.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidStream indicates a source or sink has no stream bound at execute time.
	ErrCodeInvalidStream ErrorCode = "INVALID_STREAM"
)

// Configuration errors
const (
	// ErrCodeConfigGrammar indicates a configuration file that does not follow its key/value grammar.
	ErrCodeConfigGrammar ErrorCode = "CONFIG_GRAMMAR_ERROR"
	// ErrCodeConfigSemantic indicates a malformed or contradictory configuration value.
	ErrCodeConfigSemantic ErrorCode = "CONFIG_SEMANTIC_ERROR"
	// ErrCodeStageNotFound indicates a stage name with no registered factory.
	ErrCodeStageNotFound ErrorCode = "STAGE_NOT_FOUND"
)

// Construction errors
const (
	// ErrCodePipelineConstruction indicates a chain that cannot be wired.
	ErrCodePipelineConstruction ErrorCode = "PIPELINE_CONSTRUCTION_ERROR"
)

// I/O errors
const (
	// ErrCodeIORead indicates the byte source failed.
	ErrCodeIORead ErrorCode = "IO_READ_ERROR"
	// ErrCodeIOWrite indicates the byte sink failed.
	ErrCodeIOWrite ErrorCode = "IO_WRITE_ERROR"
)

// Execution errors
const (
	// ErrCodeCanceled indicates the run was interrupted between source reads.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var exitCodes = map[ErrorCode]int{
	ErrCodeInvalidArgument:      1,
	ErrCodeConfigGrammar:        2,
	ErrCodeConfigSemantic:       2,
	ErrCodeStageNotFound:        2,
	ErrCodePipelineConstruction: 3,
	ErrCodeIORead:               4,
	ErrCodeIOWrite:              4,
	ErrCodeInvalidStream:        5,
	ErrCodeCanceled:             130,
	ErrCodeInternal:             1,
}

// ExitCodeFor returns the process exit code the driver uses for code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return 1
}

// IsConfigCode returns true if the code describes a configuration failure.
func IsConfigCode(code ErrorCode) bool {
	switch code {
	case ErrCodeConfigGrammar, ErrCodeConfigSemantic, ErrCodeStageNotFound:
		return true
	}
	return false
}
