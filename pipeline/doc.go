// Package pipeline implements the stage protocol of a linear byte pipeline:
// element-type negotiation between neighbours, mediators that expose a
// producer's staged bytes in the negotiated representation, and the chain
// builder that wires an ordered list of stages together.
//
// # Element types
//
// Every stage stores raw bytes. What differs is the unit a consumer reads
// them in: Byte (1 byte), Char (1 byte widened to a rune) or Short (2 bytes,
// big-endian). Each producer advertises the types it can hand out in
// priority order and each consumer advertises the types it accepts. For
// every edge the first producer type also accepted by the consumer wins:
//
//	t, err := pipeline.Negotiate([]ElementType{Short, Byte}, []ElementType{Byte, Char})
//	// t == Byte
//
// # Execution
//
// Running a chain calls Execute on the source. The source reads a chunk,
// stages it in its Outlet and calls Execute on its consumer until the outlet
// is empty; every transform does the same with its own consumer. Control is
// a plain call stack whose depth is the number of stages, so bytes leave the
// sink in the order they were read. Once a producer is exhausted its
// mediator returns a Result with EndOfStream set, which is distinct from an
// empty batch that simply means nothing is staged yet.
//
// # Usage
//
//	chain, err := pipeline.Build([]pipeline.Stage{reader, substitutor, writer}, in, out,
//	    pipeline.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	return chain.Run(ctx)
package pipeline
