package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/cmd/report"
	"github.com/scanmill/scanmill/cmd/scan"
	"github.com/scanmill/scanmill/cmd/serve"
	"github.com/scanmill/scanmill/cmd/submit"
	"github.com/scanmill/scanmill/cmd/version"
	"github.com/scanmill/scanmill/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "scanmill [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Scanmill orchestrates static analysis scans with the CodeQL engine.",
		Long: `Scanmill runs the whole analysis pipeline over source archives, local folders,
	and Git repositories: language detection, build planning, ruleset resolution,
	engine invocation, and persisted result documents with aggregated statistics.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(submit.SubmitCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	// A local .env complements the environment before the configuration is
	// loaded and validated.
	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	scan.Init(AppConfig)
	serve.Init(AppConfig)
	report.Init(AppConfig)
	submit.Init(AppConfig)
	version.Init(AppConfig)
}
