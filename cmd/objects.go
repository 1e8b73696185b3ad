package cmd

import (
	"github.com/spf13/cobra"
)

// objectsCmd represents the objects command.
var objectsCmd = newObjectsCmd()

func newObjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "objects",
		Short: "List project objects and their resolved paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadProject()
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayObjects(loaded)
		},
	}
}

func init() {
	rootCmd.AddCommand(objectsCmd)
}
