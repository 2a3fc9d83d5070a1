package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/model"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate <params.json>",
	Short: "Invalidate a transmitted document",
	Long: `Build an invalidation event for a previously accepted document, sign it
and submit it to the authority.

Examples:
  dte-emitter invalidate invalidation.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInvalidate,
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	var params model.InvalidationParams
	if err := readJSON(args[0], &params); err != nil {
		return err
	}
	if params.Environment == "" {
		params.Environment = cfg.Environment
	}

	issued, issueErr := newClient().Invalidate(cmd.Context(), &params)
	if issued != nil {
		if err := writeJSON(issued); err != nil {
			return err
		}
	}
	return issueErr
}
