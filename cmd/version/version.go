package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scanmill/scanmill/pkg/shared"
	"github.com/scanmill/scanmill/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			printVersionInfo(&shared.Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
			})
		},
	}
}

// printVersionInfo prints the version information for the application.
func printVersionInfo(versions *shared.Versions) {
	fmt.Printf("Core Version: v%s\n", versions.Version)
	fmt.Printf("Go Version: %s\n", versions.GolangVersion)
	fmt.Printf("Build Time: %s\n", versions.BuildTime)
}
