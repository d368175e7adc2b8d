// Package logger provides structured logging for bytepipe using zerolog.
//
// There is no process-wide logger. The driver builds one from Config and
// hands it to the manager, which passes component-scoped children to the
// registry factories and through them to every stage.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "bytepipe")
//	stageLog := log.WithComponent("reader")
//	stageLog.Info("chunk read", logger.Fields("bytes", n))
package logger
