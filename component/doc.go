// Package component defines lifecycle-managed resources and the registry
// that starts them in order and stops them in reverse.
//
// A run registers its input and output files (and telemetry exporters)
// as components so they are opened before the chain is built and always
// released afterwards, even when the run fails.
//
// # Interfaces
//
//   - Component: lifecycle interface (Start/Stop/Health)
//   - Describable: self-description for the run summary
package component
