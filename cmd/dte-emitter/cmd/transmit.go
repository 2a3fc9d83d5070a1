package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/model"
)

var transmitCmd = &cobra.Command{
	Use:   "transmit <type> <params.json>",
	Short: "Build, sign and transmit a document",
	Long: `Build a DTE, sign it and submit it to the authority. Transient failures
are retried; a rejection is reported as is.

Examples:
  dte-emitter transmit 03 params.json
  dte-emitter transmit 01 params.json --env production -o result.json`,
	Args: cobra.ExactArgs(2),
	RunE: runTransmit,
}

func init() {
	rootCmd.AddCommand(transmitCmd)
}

func runTransmit(cmd *cobra.Command, args []string) error {
	typeCode, err := model.ParseTypeCode(args[0])
	if err != nil {
		return err
	}

	var params model.Params
	if err := readJSON(args[1], &params); err != nil {
		return err
	}
	if params.Environment == "" {
		params.Environment = cfg.Environment
	}

	issued, issueErr := newClient().Issue(cmd.Context(), typeCode, &params)
	if issued != nil {
		if err := writeJSON(issued); err != nil {
			return err
		}
	}
	return issueErr
}
