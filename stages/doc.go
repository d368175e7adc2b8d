// Package stages implements the concrete pipeline stages:
//
//   - FileReader, a source that reads its bound stream in buffer_size chunks
//   - Substitutor, a transform that replaces every byte through a table
//   - FileWriter, a sink that writes to its bound stream in buffer_size chunks
//
// Each stage is configured from its own key/value parameter file and logs
// with its stage name as the component. All three advertise every element
// type, byte first.
package stages
