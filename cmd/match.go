package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"objdiff.dev/pkg/objdiff/internal/controller"
)

// matchCmd represents the match command.
var matchCmd = newMatchCmd()

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <paths...>",
		Short: "Check paths against the project's watch patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadProject()
			if err != nil {
				return err
			}

			matches := make([]controller.MatchResult, 0, len(args))

			for _, arg := range args {
				rel := arg
				if filepath.IsAbs(arg) {
					if r, err := filepath.Rel(string(loaded.Dir), arg); err == nil && !strings.HasPrefix(r, "..") {
						rel = r
					}
				}

				matches = append(matches, controller.MatchResult{
					Path:    arg,
					Matched: loaded.Watch.Match(rel),
				})
			}

			return newUI(cmd).DisplayMatches(matches)
		},
	}
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
