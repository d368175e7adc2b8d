package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &runOptions{}
	root := &cobra.Command{
		Use:   "bytepipe [config]",
		Short: "bytepipe - byte substitution pipelines",
		Long: `bytepipe reads an input file, passes its bytes through a chain of
stages and writes the result to an output file.

A run is described by a YAML file (.yml/.yaml) or a legacy key/value
file with input_file, output_file and pipeline keys. Calling bytepipe
with a single config argument is the same as "bytepipe run <config>".`,
		Args:          configArg(true),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runPipeline(cmd, args[0], opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().AddFlagSet(opts.flagSet())

	root.AddCommand(newRunCmd(stdout, stderr))
	root.AddCommand(newStagesCmd(stdout))
	root.AddCommand(newVersionCmd(stdout))
	return root
}
