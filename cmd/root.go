// Package cmd provides the root command and CLI setup for objdiff.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"objdiff.dev/pkg/objdiff/internal/adapter"
	"objdiff.dev/pkg/objdiff/internal/controller"
	"objdiff.dev/pkg/objdiff/internal/domain"
	m "objdiff.dev/pkg/objdiff/internal/model"
)

var configFSAdapter adapter.ConfigFSAdapter
var processAdapter adapter.ProcessAdapter
var configLoader domain.ConfigLoader
var builder domain.Builder
var project domain.Project

// newUI builds the renderer for a command. Replaced in tests.
var newUI = func(cmd *cobra.Command) controller.UI {
	return controller.NewUI(cmd, !plainFlag && controller.IsTTY(os.Stdout))
}

var projectDirFlag string
var customMakeFlag string
var wslDistroFlag string
var logFileFlag string
var verboseFlag bool
var plainFlag bool

// errBuildFailed makes the process exit non-zero after the report is shown.
var errBuildFailed = errors.New("one or more builds failed")

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	configFSAdapter = adapter.NewLocalConfigFSAdapter()
	processAdapter = adapter.NewLocalProcessAdapter()
	configLoader = domain.NewConfigLoader(configFSAdapter)
	builder = domain.NewBuilder(processAdapter)
	project = domain.NewProject(configLoader, builder, toolVersion())
}

const rootLongDescription = `objdiff locates a project's objdiff.yml, objdiff.yaml or objdiff.json,
resolves the target and base object files it declares, and runs the
project's build tool to produce them.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "objdiff",
		Short:        "Object file comparison project tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd returns a fresh root command with flags bound, for tests.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&projectDirFlag, projectDirFlagName, "C",
			viper.GetString(projectDirConfigKey),
			"project directory containing the objdiff config",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(projectDirFlagName), projectDirConfigKey)

	cmd.PersistentFlags().StringVar(&customMakeFlag, customMakeFlagName, viper.GetString(customMakeConfigKey), "build tool to run instead of make")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(customMakeFlagName), customMakeConfigKey)

	cmd.PersistentFlags().StringVar(&wslDistroFlag, wslDistroFlagName, viper.GetString(wslDistroConfigKey), "WSL distribution to build in (Windows only)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(wslDistroFlagName), wslDistroConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().BoolVar(&plainFlag, plainFlagName, false, "disable the interactive terminal UI")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// projectDir returns the configured project directory as an absolute path.
func projectDir() (m.Path, error) {
	dir := viper.GetString(projectDirConfigKey)
	if dir == "" {
		dir = defaultProjectDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project dir %q: %w", dir, err)
	}

	return m.Path(abs), nil
}

func loadProject() (*domain.LoadedProject, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	return project.Load(dir)
}

// appConfig merges CLI settings with the project file. The CLI build tool
// wins over the project's custom_make.
func appConfig(loaded *domain.LoadedProject) m.AppConfig {
	customMake := viper.GetString(customMakeConfigKey)
	if customMake == "" {
		customMake = loaded.Config.CustomMake
	}

	return m.AppConfig{
		ProjectDir:        loaded.Dir,
		CustomMake:        customMake,
		SelectedWSLDistro: viper.GetString(wslDistroConfigKey),
	}
}

func toolVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	return info.Main.Version
}
