package cmd

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"objdiff.dev/pkg/objdiff/internal/domain"
)

const unknownVersion = "unknown"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long: `Displays the objdiff version compared against a project's min_version,
the Go version used to build it, and the project file names it looks for.`,
		Run: func(cmd *cobra.Command, _ []string) {
			version := toolVersion()
			if version == "" || version == "(devel)" {
				version = unknownVersion
			}

			cmd.Println("objdiff version\t", version)
			cmd.Println("go version\t", runtime.Version())
			cmd.Println("config files\t", strings.Join(domain.ConfigFileNames, ", "))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
