package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/internal/server"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/logger"
)

// RunOptionsServe holds the arguments for the serve command.
type RunOptionsServe struct {
	Host string
	Port int
}

// Global variables for configuration and command arguments
var (
	AppConfig         *config.Config
	serveOptions      RunOptionsServe
	exampleServeUsage = `  # Serving the API on the configured address
  scanmill serve

  # Serving the API on a specific host and port
  scanmill serve --host 127.0.0.1 --port 8080`
)

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:                   "serve [--host HOST] [--port PORT]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleServeUsage,
	Short:                 "Serves the analysis pipeline over HTTP",
	RunE:                  runServeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runServeCommand executes the serve command.
func runServeCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-serve")

	// Flag overrides land in the configuration before the server is built;
	// afterwards it is read-only.
	if serveOptions.Host != "" {
		AppConfig.Server.Host = serveOptions.Host
	}
	if serveOptions.Port != 0 {
		AppConfig.Server.Port = serveOptions.Port
	}
	if err := config.ValidateServerConfig(&AppConfig.Server); err != nil {
		logger.Error("invalid serve arguments", "error", err)
		return err
	}

	srv := server.New(logger, AppConfig, pipeline.New(logger, AppConfig))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Initialize flags for the serve command.
func init() {
	ServeCmd.Flags().StringVar(&serveOptions.Host, "host", "", "Host address to listen on.")
	ServeCmd.Flags().IntVarP(&serveOptions.Port, "port", "p", 0, "Port to listen on.")
	ServeCmd.Flags().BoolP("help", "h", false, "Show help for the serve command.")
}
