package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/bytepipe/manager"
)

func newStagesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stage types a pipeline can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := manager.DefaultRegistry()
			w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tALIASES")
			for _, e := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Kind, strings.Join(reg.AliasesOf(e.Name), ","))
			}
			return w.Flush()
		},
	}
}
