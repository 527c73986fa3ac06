package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/internal/render"
	reports "github.com/scanmill/scanmill/internal/report"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/logger"
)

// Global variables for configuration and command arguments
var (
	AppConfig          *config.Config
	exampleReportUsage = `  # Listing every persisted report, newest first
  scanmill report list

  # Showing the findings of one report
  scanmill report show report_juice-shop_python_2026-08-25T10:00:00Z.sarif

  # Printing aggregated statistics over all reports
  scanmill report stats`
)

// ReportCmd represents the report command group.
var ReportCmd = &cobra.Command{
	Use:                   "report [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReportUsage,
	Short:                 "Inspects persisted result documents",
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func newStore() *reports.Store {
	return reports.NewStore(logger.NewLogger(AppConfig, "core-report"), AppConfig)
}

var listCmd = &cobra.Command{
	Use:                   "list",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Lists the scan history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := newStore().List()
		if err != nil {
			return err
		}
		fmt.Print(render.RecordList(records))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:                   "show FILENAME",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Shows the normalized findings of one report",
	Args:                  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newStore().Detail(args[0])
		if err != nil {
			return err
		}
		fmt.Print(render.ReportDetail(args[0], list))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:                   "stats",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Prints aggregated statistics over every readable report",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newStore().Aggregate()
		if err != nil {
			return err
		}
		fmt.Print(render.Dashboard(stats))
		return nil
	},
}

func init() {
	ReportCmd.AddCommand(listCmd, showCmd, statsCmd)
}
