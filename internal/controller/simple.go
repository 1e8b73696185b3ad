package controller

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"objdiff.dev/pkg/objdiff/internal/domain"
	m "objdiff.dev/pkg/objdiff/internal/model"
)

const (
	statusOK      = "OK"
	statusFail    = "Fail"
	statusSkipped = "-"
	noPath        = "-"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayConfig prints where the project file was found and its settings.
func (s *SimpleUI) DisplayConfig(project *domain.LoadedProject) error {
	cfg := project.Config

	s.printf("Project config: %s\n", project.Info.Path)
	s.printf("Modified:       %s\n", project.Info.Timestamp.Format(time.RFC3339))
	s.printf("Min version:    %s\n", orDash(cfg.MinVersion))
	s.printf("Build tool:     %s\n", orDash(cfg.CustomMake))
	s.printf("Target dir:     %s\n", orDash(string(cfg.TargetDir)))
	s.printf("Base dir:       %s\n", orDash(string(cfg.BaseDir)))
	s.printf("Build target:   %t\n", cfg.BuildTarget)
	s.printf("Build base:     %t\n", cfg.BuildBase)
	s.printf("Watch patterns: %s\n", strings.Join(cfg.WatchPatterns, " "))
	s.printf("Objects:        %d\n", len(cfg.Objects))

	return nil
}

// DisplayObjects prints a table of objects and their resolved paths.
func (s *SimpleUI) DisplayObjects(project *domain.LoadedProject) error {
	s.printf("%s", renderObjectsTable(project.Dir, project.Config.Objects))

	return nil
}

func renderObjectsTable(projectDir m.Path, objects []m.ProjectObject) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Object", "Target", "Base", "Complete"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	completed := 0

	for _, obj := range objects {
		complete := ""
		if obj.IsComplete() {
			complete = "yes"
			completed++
		}

		table.Append([]string{
			obj.DisplayName(),
			displayPath(projectDir, obj.TargetPath),
			displayPath(projectDir, obj.BasePath),
			complete,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Objects %d", len(objects)),
		"",
		"",
		fmt.Sprintf("%d", completed),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayBuilds prints a status table followed by the log of every failure.
func (s *SimpleUI) DisplayBuilds(builds []domain.ObjectBuild) error {
	s.printf("%s", renderBuildTable(builds))

	for _, build := range builds {
		for _, result := range []domain.BuildResult{build.Target, build.Base} {
			if result.Skipped || result.Status.Success {
				continue
			}

			s.printf("\n%s", renderFailure(build.Object.DisplayName(), result))
		}
	}

	return nil
}

func renderBuildTable(builds []domain.ObjectBuild) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Object", "Target", "Base"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	failed := 0

	for _, build := range builds {
		if !build.Success() {
			failed++
		}

		table.Append([]string{
			build.Object.DisplayName(),
			statusLabel(build.Target),
			statusLabel(build.Base),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Objects %d", len(builds)),
		fmt.Sprintf("Failed %d", failed),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func renderFailure(name string, result domain.BuildResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Build %s (%s): %s\n", result.Side, name, statusFail)

	if result.Status.Cmdline != "" {
		fmt.Fprintf(&b, "$ %s\n", result.Status.Cmdline)
	}

	log := result.Log
	if log == "" {
		log = result.Status.Stderr
	}

	b.WriteString(log)

	if log != "" && !strings.HasSuffix(log, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

// DisplayMatches prints one line per path.
func (s *SimpleUI) DisplayMatches(matches []MatchResult) error {
	for _, match := range matches {
		verdict := "ignored"
		if match.Matched {
			verdict = "watched"
		}

		s.printf("%s\t%s\n", verdict, match.Path)
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func statusLabel(result domain.BuildResult) string {
	switch {
	case result.Skipped:
		return statusSkipped
	case result.Status.Success:
		return statusOK
	default:
		return statusFail
	}
}

func displayPath(projectDir, path m.Path) string {
	if !path.IsSet() {
		return noPath
	}

	return string(path.RelativeTo(projectDir))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}
