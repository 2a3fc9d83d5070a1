package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the authority is reachable",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	url := cfg.Authority.BaseURL(cfg.Environment)
	if err := newClient().Probe(cmd.Context(), cfg.Environment); err != nil {
		return fmt.Errorf("%s unreachable: %w", url, err)
	}
	fmt.Printf("%s reachable (%s)\n", url, cfg.Environment)
	return nil
}
