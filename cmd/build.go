package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

var buildParallelFlag int

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

const buildLongDescription = `Build the target and base object files of the named objects (default: all
objects). Which sides are built follows build_target and build_base in the
project config. Each side runs the build tool with the object path relative
to the project directory.`

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [objects...]",
		Short: "Build object files for comparison",
		Long:  buildLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadProject()
			if err != nil {
				return err
			}

			objs, err := loaded.FindObjects(args)
			if err != nil {
				return err
			}

			buildConfig := m.NewBuildConfig(appConfig(loaded))

			builds, err := project.BuildObjects(cmd.Context(), loaded, buildConfig, objs, viper.GetInt(parallelConfigKey))
			if err != nil {
				return err
			}

			if err := newUI(cmd).DisplayBuilds(builds); err != nil {
				return err
			}

			for _, build := range builds {
				if !build.Success() {
					return errBuildFailed
				}
			}

			return nil
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&buildParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of objects to build in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}
