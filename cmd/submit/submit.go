package submit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/pkg/shared"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/httpclient"
	"github.com/scanmill/scanmill/pkg/shared/logger"
)

// RunOptionsSubmit holds the arguments for the submit command.
type RunOptionsSubmit struct {
	ServerURL string
	File      string
}

// Global variables for configuration and command arguments
var (
	AppConfig          *config.Config
	submitOptions      RunOptionsSubmit
	exampleSubmitUsage = `  # Submitting an archive to a remote scanmill server
  scanmill submit --server http://localhost:1234 --file /path/to/upload.zip`
)

// SubmitCmd represents the submit command.
var SubmitCmd = &cobra.Command{
	Use:                   "submit --server URL --file PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleSubmitUsage,
	Short:                 "Submits a source archive to a remote scanmill server for analysis",
	RunE:                  runSubmitCommand,
}

// submitResponse mirrors the analyze endpoint contract.
type submitResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Language  string `json:"language"`
	ScanID    string `json:"scan_id"`
	SarifFile string `json:"sarif_file"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runSubmitCommand executes the submit command.
func runSubmitCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-submit")

	if err := validateSubmitArgs(&submitOptions); err != nil {
		logger.Error("invalid submit arguments", "error", err)
		return err
	}

	file, err := os.Open(submitOptions.File)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", submitOptions.File, err)
	}
	defer file.Close()

	client := httpclient.InitializeRestyClient(logger, AppConfig)
	// The analysis runs server-side for minutes; the request waits for it.
	client.SetTimeout(0)

	endpoint := strings.TrimRight(submitOptions.ServerURL, "/") + "/api/analyze"
	logger.Info("submitting sources", "endpoint", endpoint, "file", submitOptions.File)

	var result submitResponse
	resp, err := client.R().
		SetFileReader("file", filepath.Base(submitOptions.File), file).
		SetResult(&result).
		SetError(&result).
		Post(endpoint)
	if err != nil {
		logger.Error("submit request failed", "error", err)
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("the server rejected the submission: %s", result.Message)
	}

	logger.Info("submission analyzed", "scan_id", result.ScanID, "language", result.Language, "sarif_file", result.SarifFile)
	fmt.Println(result.Message)
	return nil
}

// Initialize flags for the submit command.
func init() {
	SubmitCmd.Flags().StringVarP(&submitOptions.ServerURL, "server", "s", "", "Base URL of the scanmill server.")
	SubmitCmd.Flags().StringVarP(&submitOptions.File, "file", "f", "", "Path to the source archive or file to submit.")
	SubmitCmd.Flags().BoolP("help", "h", false, "Show help for the submit command.")
}
