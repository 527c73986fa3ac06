package scan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/internal/render"
	"github.com/scanmill/scanmill/pkg/shared"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/logger"
)

// RunOptionsScan holds the arguments for the scan command. Credentials never
// end up in the launch artifact.
type RunOptionsScan struct {
	Path           string `json:"path,omitempty"`
	File           string `json:"file,omitempty"`
	Repo           string `json:"repo,omitempty"`
	Branch         string `json:"branch,omitempty"`
	SSHKey         string `json:"ssh_key,omitempty"`
	SSHKeyPassword string `json:"-"`
	Username       string `json:"username,omitempty"`
	Token          string `json:"-"`
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning a local project folder
  scanmill scan --path /path/to/my_project

  # Scanning a source archive or a single source file
  scanmill scan --file /path/to/upload.zip

  # Scanning a remote repository
  scanmill scan --repo https://github.com/juice-shop/juice-shop --branch develop

  # Scanning a private repository over SSH
  scanmill scan --repo git@github.com:acme/billing.git --ssh-key ~/.ssh/id_ed25519`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan {--path PATH | --file PATH | --repo URL} [--branch BRANCH] [--ssh-key PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Runs the whole analysis pipeline over a folder, an archive, or a repository",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return err
	}

	tree, err := prepareTree(cmd.Context(), logger, &scanOptions)
	if err != nil {
		logger.Error("failed to prepare the source tree", "error", err)
		return err
	}
	defer tree.Close()

	scanner := pipeline.New(logger, AppConfig)
	result, scanErr := scanner.Scan(cmd.Context(), tree)

	if scanErr == nil {
		mirrorReport(logger, scanner, result)
	}

	if err := saveLaunchArtifact(logger, tree.Project, result, scanErr); err != nil {
		logger.Error("failed to write the launch artifact", "error", err)
		return err
	}

	if scanErr != nil {
		logger.Error("scan command failed", "error", scanErr)
		return scanErr
	}

	fmt.Print(render.ScanSummary(result))
	logger.Info("scan command completed successfully")
	return nil
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVar(&scanOptions.Path, "path", "", "Path to a local project folder to scan.")
	ScanCmd.Flags().StringVarP(&scanOptions.File, "file", "f", "", "Path to a source archive or a single source file to scan.")
	ScanCmd.Flags().StringVarP(&scanOptions.Repo, "repo", "r", "", "Clone URL of a repository to scan.")
	ScanCmd.Flags().StringVarP(&scanOptions.Branch, "branch", "b", "", "Specific branch to check out (default: the remote HEAD).")
	ScanCmd.Flags().StringVarP(&scanOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key for private repositories.")
	ScanCmd.Flags().StringVar(&scanOptions.SSHKeyPassword, "ssh-key-password", "", "Passphrase of the SSH key, if it has one.")
	ScanCmd.Flags().StringVarP(&scanOptions.Username, "username", "u", "", "Username for HTTP authentication.")
	ScanCmd.Flags().StringVarP(&scanOptions.Token, "token", "t", "", "Token or password for HTTP authentication.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
