package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	money "github.com/rezonia/dte-emitter/internal/decimal"
)

var wordsCmd = &cobra.Command{
	Use:   "words <amount>",
	Short: "Print an amount as totalLetras",
	Long: `Render an amount the way documents carry it in totalLetras.

Examples:
  dte-emitter words 1021.50
  # MIL VEINTIUN DOLARES CON 50/100`,
	Args: cobra.ExactArgs(1),
	RunE: runWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
}

func runWords(cmd *cobra.Command, args []string) error {
	amount, err := money.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	fmt.Println(money.ToWords(amount))
	return nil
}
