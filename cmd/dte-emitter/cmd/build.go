package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/model"
)

var documentOnly bool

var buildCmd = &cobra.Command{
	Use:   "build <type> <params.json>",
	Short: "Build an unsigned document",
	Long: `Build an unsigned DTE from normalized parameters and print it with its
reconciled totals. Nothing is signed or sent.

Use "-" to read the parameters from stdin.

Examples:
  dte-emitter build 03 params.json
  dte-emitter build 01 - --document-only < params.json`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&documentOnly, "document-only", false, "Print only the document body")
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	result, err := newClient().BuildDocument(typeCode, &params)
	if err != nil {
		return err
	}

	printVerbose("Built %s %s (total %s)\n", typeCode.Name(), result.GenerationCode, result.Totals.TotalPayable.StringFixed(2))
	if documentOnly {
		return writeJSON(result.Document)
	}
	return writeJSON(result)
}
