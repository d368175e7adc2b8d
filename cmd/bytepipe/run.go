package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/bytepipe/bootstrap"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/manager"
	"github.com/kbukum/bytepipe/observability"
	"github.com/kbukum/bytepipe/version"
)

// runOptions are command-line overrides applied on top of the config file.
type runOptions struct {
	runID     string
	logLevel  string
	logFormat string
	endpoint  string
	quiet     bool
	jsonOut   bool
}

func (o *runOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.StringVar(&o.runID, "run-id", "", "run identifier (UUID); generated when empty")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: json, console, text")
	fs.StringVar(&o.endpoint, "telemetry-endpoint", "", "enable OTLP export to host:port")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not print the run summary")
	fs.BoolVar(&o.jsonOut, "json", false, "print the run result as JSON on stdout")
	return fs
}

func (o *runOptions) apply(cfg *manager.Config) {
	if o.runID != "" {
		cfg.RunID = o.runID
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if o.endpoint != "" {
		cfg.Observability.Enabled = true
		cfg.Observability.Endpoint = o.endpoint
	}
	if cfg.Version == "" {
		cfg.Version = version.Version
	}
}

// configArg accepts exactly one config path, or none when optional.
func configArg(optional bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 || (optional && len(args) == 0) {
			return nil
		}
		return errors.InvalidArgument("config").
			WithDetail("usage", cmd.UseLine()).
			WithDetail("args", len(args))
	}
}

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Run the pipeline described by a config file",
		Long: `Run the pipeline described by a config file.

Example:
  bytepipe run manager.cfg
  bytepipe run bytepipe.yml --run-id 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
		Args: configArg(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0], opts, stdout, stderr)
		},
	}
	cmd.Flags().AddFlagSet(opts.flagSet())
	return cmd
}

func runPipeline(cmd *cobra.Command, path string, opts *runOptions, stdout, stderr io.Writer) error {
	cfg, err := manager.Load(path)
	if err != nil {
		return err
	}
	opts.apply(cfg)

	summaryOut := stderr
	if opts.quiet {
		summaryOut = io.Discard
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(summaryOut))
	if err != nil {
		return err
	}

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment, app.Logger)
	if err := app.RegisterComponent(telemetry); err != nil {
		return errors.Wrap(err)
	}

	var mgr *manager.Manager
	app.OnStart(func(ctx context.Context) error {
		metrics, err := observability.NewMetrics(observability.Meter(manager.ServiceName))
		if err != nil {
			return err
		}
		mgr = manager.New(manager.DefaultRegistry(),
			manager.WithLogger(app.Logger),
			manager.WithMetrics(metrics),
		)
		return nil
	})

	var result *manager.Result
	err = app.RunTask(cmd.Context(), func(ctx context.Context) error {
		res, err := mgr.Run(ctx, app.Cfg)
		result = res
		trackResult(app.Summary, res)
		return err
	})
	if err != nil {
		return err
	}

	if opts.jsonOut && result != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return nil
}

func trackResult(s *bootstrap.Summary, res *manager.Result) {
	if res == nil {
		return
	}
	s.TrackResult("run_id", res.RunID)
	for _, e := range res.Edges {
		s.TrackResult("edge", fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Type))
	}
	s.TrackResult("bytes_in", fmt.Sprint(res.BytesIn))
	s.TrackResult("bytes_out", fmt.Sprint(res.BytesOut))
	if res.Digest != "" {
		s.TrackResult("blake3", res.Digest)
	}
}
