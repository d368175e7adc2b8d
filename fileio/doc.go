// Package fileio provides the input and output file components a run binds
// to its source and sink stages, and the stream codecs stages can wrap
// around them.
//
// Files are lifecycle components: the component registry opens them in
// registration order and closes them in reverse, so output is flushed and
// the files are released whether the run succeeds or fails.
//
//	in := fileio.NewInputFile("in.bin", log)
//	out := fileio.NewOutputFile("out.bin", log)
//	reg.Register(in); reg.Register(out)
//	reg.StartAll(ctx)
//	defer reg.StopAll(ctx)
//	chain, err := pipeline.Build(stages, in.Reader(), out.Writer())
//
// The output component hashes everything written with BLAKE3; Digest
// returns the hex digest once the file is closed.
package fileio
