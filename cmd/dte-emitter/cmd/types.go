package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/model"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported document types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tVERSION")
	fmt.Fprintln(w, "----\t----\t-------")
	for _, t := range newClient().Types() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", t, t.Name(), t.Version())
	}
	fmt.Fprintf(w, "%s\t%s\t%d\n", model.TypeInvalidation, model.TypeInvalidation.Name(), model.TypeInvalidation.Version())
	return w.Flush()
}
