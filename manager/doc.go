// Package manager assembles and runs a pipeline from configuration.
//
// A Registry maps stage names to factories; it replaces any lookup by type
// name. The Manager resolves each configured stage through the registry,
// configures it from its parameter file, opens the input and output files
// as lifecycle components, builds the chain and runs it.
//
//	reg := manager.DefaultRegistry()
//	m := manager.New(reg, manager.WithLogger(log))
//	res, err := m.Run(ctx, cfg)
package manager
