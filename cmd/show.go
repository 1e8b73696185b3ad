package cmd

import (
	"github.com/spf13/cobra"
)

// showCmd represents the config command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the discovered project config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadProject()
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayConfig(loaded)
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
