package controller

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"objdiff.dev/pkg/objdiff/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Faint(true)
	cmdlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	logStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea for the build log and falls back to
// SimpleUI for short listings.
type TUI struct {
	cmd    *cobra.Command
	simple *SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, simple: NewSimpleUI(cmd)}
}

// DisplayConfig prints the project settings.
func (t *TUI) DisplayConfig(project *domain.LoadedProject) error {
	return t.simple.DisplayConfig(project)
}

// DisplayObjects prints the object table.
func (t *TUI) DisplayObjects(project *domain.LoadedProject) error {
	return t.simple.DisplayObjects(project)
}

// DisplayMatches prints watch verdicts.
func (t *TUI) DisplayMatches(matches []MatchResult) error {
	return t.simple.DisplayMatches(matches)
}

// DisplayBuilds shows the build report, paging it when it does not fit on
// screen.
func (t *TUI) DisplayBuilds(builds []domain.ObjectBuild) error {
	content := renderBuildReport(builds)
	output := t.cmd.OutOrStdout()

	width, height := 0, 0

	if f, ok := output.(*os.File); ok {
		if w, h, err := term.GetSize(f.Fd()); err == nil {
			width, height = w, h
		}
	}

	model := newBuildLogModel(content, width, height)
	if !model.needsPagination() {
		_, err := fmt.Fprint(output, content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderBuildReport(builds []domain.ObjectBuild) string {
	var b strings.Builder

	for _, build := range builds {
		b.WriteString(titleStyle.Render(build.Object.DisplayName()))
		b.WriteString("\n")

		for _, result := range []domain.BuildResult{build.Target, build.Base} {
			fmt.Fprintf(&b, "  Build %s: %s\n", result.Side, styledStatus(result))

			if result.Skipped || result.Status.Success {
				continue
			}

			if result.Status.Cmdline != "" {
				b.WriteString("  ")
				b.WriteString(cmdlineStyle.Render("$ " + result.Status.Cmdline))
				b.WriteString("\n")
			}

			log := result.Log
			if log == "" {
				log = result.Status.Stderr
			}

			for _, line := range strings.Split(strings.TrimRight(log, "\n"), "\n") {
				b.WriteString("    ")
				b.WriteString(logStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func styledStatus(result domain.BuildResult) string {
	label := statusLabel(result)

	switch label {
	case statusOK:
		return okStyle.Render(label)
	case statusFail:
		return failStyle.Render(label)
	default:
		return skippedStyle.Render("skipped")
	}
}

// buildLogModel is a scrollable view over a rendered build report.
type buildLogModel struct {
	content  string
	lines    int
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

const footerHeight = 1

func newBuildLogModel(content string, width, height int) buildLogModel {
	model := buildLogModel{
		content: content,
		lines:   strings.Count(content, "\n"),
		width:   width,
		height:  height,
	}

	if width > 0 && height > footerHeight {
		model.viewport = viewport.New(width, height-footerHeight)
		model.viewport.SetContent(content)
		model.ready = true
	}

	return model
}

// needsPagination reports whether the report is taller than the terminal.
// Unknown terminal sizes never paginate.
func (blm buildLogModel) needsPagination() bool {
	return blm.height > 0 && blm.lines > blm.height-footerHeight
}

func (blm buildLogModel) Init() tea.Cmd {
	return nil
}

func (blm buildLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		blm.width = msg.Width
		blm.height = msg.Height

		if !blm.ready {
			blm.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			blm.viewport.SetContent(blm.content)
			blm.ready = true
		} else {
			blm.viewport.Width = msg.Width
			blm.viewport.Height = msg.Height - footerHeight
		}

		return blm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return blm, tea.Quit
		}
	}

	var cmd tea.Cmd

	blm.viewport, cmd = blm.viewport.Update(msg)

	return blm, cmd
}

func (blm buildLogModel) View() string {
	if !blm.ready {
		return blm.content
	}

	footer := footerStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll • q quit", blm.viewport.ScrollPercent()*100))

	return blm.viewport.View() + "\n" + footer
}
