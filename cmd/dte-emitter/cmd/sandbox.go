package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/dte-emitter/internal/logger"
	"github.com/rezonia/dte-emitter/internal/sandbox"
)

var (
	sandboxAddr  string
	sandboxDebug bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local signer and authority",
	Long: `Start a local server that fakes the signing service and the MH API.

Endpoints:
  - POST /firmardocumento/              - Sign a document (HS256)
  - POST /seguridad/auth                - Login
  - POST /fesv/recepciondte             - Receive a document
  - POST /fesv/anulardte                - Invalidate a document
  - POST /fesv/recepcion/consultadte/   - Consult a document
  - GET  /health                        - Health check

Point DTE_SIGNER_URL, DTE_AUTHORITY_TEST_URL and DTE_AUTHORITY_PROD_URL at it.

Examples:
  dte-emitter sandbox --address :8113
  DTE_SANDBOX_PASSWORD=secret dte-emitter sandbox --debug`,
	RunE: runSandbox,
}

func init() {
	rootCmd.AddCommand(sandboxCmd)

	sandboxCmd.Flags().StringVar(&sandboxAddr, "address", "", "Listen address (env: DTE_SANDBOX_ADDRESS)")
	sandboxCmd.Flags().BoolVar(&sandboxDebug, "debug", false, "Enable debug mode")
	sandboxCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	sandboxCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

func runSandbox(cmd *cobra.Command, args []string) error {
	addr := cfg.Sandbox.Address
	if sandboxAddr != "" {
		addr = sandboxAddr
	}

	srv := sandbox.NewServer(&sandbox.Config{
		Address:            addr,
		User:               cfg.Sandbox.User,
		Password:           cfg.Sandbox.Password,
		PrivateKeyPassword: cfg.Signer.PrivateKeyPassword,
		SigningKey:         cfg.Sandbox.SigningKey,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		Debug:              sandboxDebug,
	}, sandbox.WithLogger(logger.New(cfg.Log.Level, cfg.Log.Format)))

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down sandbox...")
		os.Exit(0)
	}()

	fmt.Printf("Starting sandbox on %s\n", addr)
	if cfg.Sandbox.Password == "" {
		fmt.Println("Warning: DTE_SANDBOX_PASSWORD is empty, logins need an empty password")
	}
	return srv.Run()
}
