// Package errors provides the structured error taxonomy shared by every
// pipeline component. Each failure carries a machine-readable code, a
// human-readable message and the process exit code the driver reports.
package errors
