package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/config"
	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/pkg/dtelib"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFile   string
	environment  string
	signerURL    string
	authorityNIT string
	envFile      string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dte-emitter",
	Short: "Build, sign and transmit El Salvador electronic tax documents",
	Long: `dte-emitter issues DTE documents against the Ministerio de Hacienda API.

Supports:
  - Factura (01), Credito Fiscal (03), Notas de Credito/Debito (05/06)
  - Factura de Exportacion (11), Sujeto Excluido (14)
  - Invalidation events, status consults and a local sandbox

Configuration comes from DTE_* environment variables (and a .env file),
overridden by flags.

Examples:
  # Build a credit fiscal document without sending it
  dte-emitter build 03 params.json

  # Build, sign and transmit
  dte-emitter transmit 03 params.json

  # Query the status of a document
  dte-emitter consult 03 0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0

  # Run a local signer and authority
  dte-emitter sandbox`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&environment, "env", "e", "", "Environment: test or production (env: DTE_ENVIRONMENT)")
	rootCmd.PersistentFlags().StringVar(&signerURL, "signer-url", "", "Signing service URL (env: DTE_SIGNER_URL)")
	rootCmd.PersistentFlags().StringVar(&authorityNIT, "nit", "", "Issuer NIT used for login (env: DTE_AUTHORITY_NIT)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
}

// loadConfig reads the environment and overlays the global flags
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}

	if environment != "" {
		env, err := model.ParseEnvironment(environment)
		if err != nil {
			return err
		}
		loaded.Environment = env
	}
	if signerURL != "" {
		loaded.Signer.URL = signerURL
	}
	if authorityNIT != "" {
		loaded.Authority.NIT = model.CleanTaxID(authorityNIT)
	}
	if verbose {
		loaded.Log.Level = "debug"
	}

	cfg = loaded
	return nil
}

func newClient() *dtelib.Client {
	return dtelib.NewClient(dtelib.OptionsFromConfig(cfg))
}

func issuerNIT() (string, error) {
	if cfg.Authority.NIT == "" {
		return "", fmt.Errorf("issuer NIT is required (--nit or DTE_AUTHORITY_NIT)")
	}
	return cfg.Authority.NIT, nil
}

// readJSON decodes a JSON file into v; "-" reads stdin
func readJSON(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v indented to the output file or stdout
func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	printVerbose("Output written to %s\n", outputFile)
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
