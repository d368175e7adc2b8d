package stages

import (
	"github.com/kbukum/bytepipe/config"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/fileio"
	"github.com/kbukum/bytepipe/validation"
)

// Parameter file keys.
const (
	KeyBufferSize  = "buffer_size"
	KeyCompression = "compression"
	KeyTableFile   = "table_file"
)

// ChunkParams configures the reader and the writer.
type ChunkParams struct {
	BufferSize  int    `cfg:"buffer_size" validate:"gt=0"`
	Compression string `cfg:"compression" validate:"omitempty,oneof=none gzip zstd lz4"`
}

// chunkGrammar is the parameter grammar of the reader and the writer.
var chunkGrammar = config.NewGrammar(KeyBufferSize, KeyCompression)

// LoadChunkParams reads and validates a reader or writer parameter file.
func LoadChunkParams(path string) (ChunkParams, error) {
	values, err := config.ReadMap(path, chunkGrammar)
	if err != nil {
		return ChunkParams{}, err
	}
	return chunkParamsFrom(values)
}

func chunkParamsFrom(values *config.Values) (ChunkParams, error) {
	size, err := values.Int(KeyBufferSize)
	if err != nil {
		return ChunkParams{}, err
	}

	p := ChunkParams{
		BufferSize:  size,
		Compression: values.Default(KeyCompression, string(fileio.CodecNone)),
	}
	if err := validation.Validate(p); err != nil {
		return ChunkParams{}, errors.Wrap(err).WithDetail("file", values.Source())
	}
	return p, nil
}

// codec returns the parsed compression codec.
func (p ChunkParams) codec() fileio.Codec {
	c, err := fileio.ParseCodec(p.Compression)
	if err != nil {
		return fileio.CodecNone
	}
	return c
}

// TableParams configures the substitutor.
type TableParams struct {
	TableFile string `cfg:"table_file" validate:"required,file"`
}

var tableGrammar = config.NewGrammar(KeyTableFile)

// LoadTableParams reads and validates a substitutor parameter file.
func LoadTableParams(path string) (TableParams, error) {
	values, err := config.ReadMap(path, tableGrammar)
	if err != nil {
		return TableParams{}, err
	}
	p := TableParams{TableFile: values.Default(KeyTableFile, "")}
	if err := validation.Validate(p); err != nil {
		return TableParams{}, errors.Wrap(err).WithDetail("file", values.Source())
	}
	return p, nil
}
