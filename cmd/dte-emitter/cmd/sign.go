package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign <document.json>",
	Short: "Sign a built document",
	Long: `Send a built document to the signing service and print the result.
The compact JWS is in the "signed" field.

Examples:
  dte-emitter build 03 params.json --document-only | dte-emitter sign - --nit 0614-010190-101-3`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	nit, err := issuerNIT()
	if err != nil {
		return err
	}

	var document json.RawMessage
	if err := readJSON(args[0], &document); err != nil {
		return err
	}

	result := newClient().Sign(cmd.Context(), nit, document)
	if err := writeJSON(result); err != nil {
		return err
	}
	return result.Err()
}
