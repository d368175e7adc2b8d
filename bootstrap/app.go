package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/logger"
)

// App is a process with uniform lifecycle management.
// The type parameter C is the config type.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(func(ctx context.Context) error { ... })
//	err = app.RunTask(ctx, task)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration

	onStart []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config.
// It applies defaults, validates the config and creates the logger.
// A validation error is returned unchanged.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&base.Logging, base.Name)
	}

	app.Components = component.NewRegistry(app.Logger)
	app.Summary = NewSummary(base.Name, base.Version, o.summaryOutput)
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// RunTask starts all components, runs the task and stops every component.
// SIGINT and SIGTERM cancel the task's context. The task's error takes
// precedence over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		// Components started before the failure still need stopping.
		_ = a.stop()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	start := time.Now()
	taskErr := task(taskCtx)
	a.Summary.SetTaskDuration(time.Since(start))

	stopErr := a.stop()
	a.DisplaySummary(taskErr)
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// startup starts all registered components and runs the OnStart hooks.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	a.Summary.captureComponents(ctx, a.Components)

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	return nil
}

// DisplaySummary prints the run summary. taskErr marks the run as failed.
func (a *App[C]) DisplaySummary(taskErr error) {
	a.Summary.Display(taskErr)
}

// Shutdown stops all components. Use when managing your own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// stop runs the OnStop hooks and stops all components within the graceful
// timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop_hook", err))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_components", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Debug("Application shutdown complete")
	return shutdownErr
}
