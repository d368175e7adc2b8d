// Package bootstrap drives the lifecycle of a bytepipe process.
//
// It applies configuration defaults, validates the configuration, creates
// the logger, starts registered components, runs a finite task with
// SIGINT/SIGTERM cancellation and stops every component afterwards.
//
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := mgr.Run(ctx, cfg)
//	    return err
//	})
package bootstrap
