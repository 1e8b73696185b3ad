package cmd

import (
	"github.com/spf13/cobra"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter objdiff.yml project config",
		Long: `Create an objdiff.yml in the project directory with the default watch
patterns and no objects, so it can be edited manually. Fails if a project
config already exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}

			path, err := configLoader.WriteDefault(dir)
			if err != nil {
				return err
			}

			cmd.Println("wrote", path)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
