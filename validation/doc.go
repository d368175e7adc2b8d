// Package validation checks stage parameters and run configuration.
//
// Struct tag validation covers typed stage parameters:
//
//	type readerParams struct {
//	    BufferSize  int    `cfg:"buffer_size" validate:"gt=0"`
//	    Compression string `cfg:"compression" validate:"oneof=none gzip zstd lz4"`
//	}
//	err := validation.Validate(params)
//
// Programmatic validation collects errors across fields:
//
//	v := validation.New()
//	v.Required("input_file", cfg.InputFile).FileExists("table_file", path)
//	err := v.Error()
//
// Both report failures as CONFIG_SEMANTIC_ERROR with a "fields" detail.
package validation
