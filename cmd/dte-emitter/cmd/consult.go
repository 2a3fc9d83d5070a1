package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/model"
)

var consultCmd = &cobra.Command{
	Use:   "consult <type> <generation-code>",
	Short: "Query the status of a document",
	Long: `Ask the authority for the status of a document by generation code.
The query is sent once.

Examples:
  dte-emitter consult 03 0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0 --nit 0614-010190-101-3`,
	Args: cobra.ExactArgs(2),
	RunE: runConsult,
}

func init() {
	rootCmd.AddCommand(consultCmd)
}

func runConsult(cmd *cobra.Command, args []string) error {
	typeCode, err := model.ParseTypeCode(args[0])
	if err != nil {
		return err
	}
	nit, err := issuerNIT()
	if err != nil {
		return err
	}

	result := newClient().ConsultStatus(cmd.Context(), cfg.Environment, nit, typeCode, args[1])
	if err := writeJSON(result); err != nil {
		return err
	}
	return result.Err()
}
