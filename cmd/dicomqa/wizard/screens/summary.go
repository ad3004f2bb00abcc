package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard/components"
	"github.com/mrsinham/dicomqa/internal/config"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to the settings screen
	SummaryActionBack SummaryAction = iota
	// SummaryActionRun starts the analysis
	SummaryActionRun
	// SummaryActionSaveConfig saves configuration to YAML file
	SummaryActionSaveConfig
	// SummaryActionCancel exits the wizard
	SummaryActionCancel
)

const (
	actionBack       = "back"
	actionRun        = "run"
	actionSaveConfig = "save_config"
	actionCancel     = "cancel"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2)

	summaryLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)

	cliCommandStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)
)

// SummaryScreen reviews the configuration before running.
type SummaryScreen struct {
	form      *huh.Form
	config    *config.Config
	message   string
	action    string
	done      bool
	cancelled bool
}

// NewSummaryScreen creates a summary screen. A non-empty message is shown
// above the action list.
func NewSummaryScreen(cfg *config.Config, message string) *SummaryScreen {
	s := &SummaryScreen{
		config:  cfg,
		message: message,
		action:  actionRun,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Run analysis", actionRun),
					huh.NewOption("Save configuration to YAML", actionSaveConfig),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			// Esc goes back instead of cancelling
			s.action = actionBack
			s.done = true
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	parts := []string{
		components.TitleStyle.Render("SUMMARY - Review Configuration"),
		summaryPanelStyle.Render(s.buildParameterSummary()),
		"",
		components.SubtitleStyle.Render("Equivalent CLI command"),
		cliCommandStyle.Render(CommandLine(s.config)),
		"",
	}
	if s.message != "" {
		parts = append(parts, components.SuccessStyle.Render(s.message), "")
	}
	parts = append(parts, s.form.View(), "", "Enter: Select action | Esc: Back")

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *SummaryScreen) buildParameterSummary() string {
	cfg := s.config
	tags := "all"
	if len(cfg.Output.Tags) > 0 {
		tags = strings.Join(cfg.Output.Tags, ", ")
	}
	figures := "disabled"
	if cfg.Output.Plots {
		figures = cfg.Output.Dir
	}

	params := []struct {
		label string
		value string
	}{
		{"Data directory", cfg.Input.DataDir},
		{"REST", cfg.Input.Rest},
		{"STRESS", cfg.Input.Stress},
		{"Signal threshold", fmt.Sprintf("%d", cfg.Thresholds.Signal)},
		{"Motion threshold", fmt.Sprintf("%d", cfg.Thresholds.Motion)},
		{"Metadata", fmt.Sprintf("%t (tags: %s)", cfg.Output.DumpMetadata, tags)},
		{"Figures", figures},
		{"Log level", cfg.Log.Level},
	}

	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(summaryLabelStyle.Render(fmt.Sprintf("%-18s", p.label)))
		sb.WriteString(summaryValueStyle.Render(p.value))
	}
	return sb.String()
}

// CommandLine returns the dicomqa invocation equivalent to cfg. Values equal
// to the defaults are omitted.
func CommandLine(cfg *config.Config) string {
	def := config.DefaultConfig()
	parts := []string{"dicomqa"}

	if cfg.Input.DataDir != def.Input.DataDir {
		parts = append(parts, "--data-dir", quoteIfNeeded(cfg.Input.DataDir))
	}
	if cfg.Input.Rest != def.Input.Rest {
		parts = append(parts, "--rest", quoteIfNeeded(cfg.Input.Rest))
	}
	if cfg.Input.Stress != def.Input.Stress {
		parts = append(parts, "--stress", quoteIfNeeded(cfg.Input.Stress))
	}
	if cfg.Thresholds.Signal != def.Thresholds.Signal {
		parts = append(parts, "--threshold", fmt.Sprintf("%d", cfg.Thresholds.Signal))
	}
	if cfg.Thresholds.Motion != def.Thresholds.Motion {
		parts = append(parts, "--motion-threshold", fmt.Sprintf("%d", cfg.Thresholds.Motion))
	}
	if !cfg.Output.DumpMetadata {
		parts = append(parts, "--no-metadata")
	}
	if len(cfg.Output.Tags) > 0 {
		parts = append(parts, "--tags", quoteIfNeeded(strings.Join(cfg.Output.Tags, ",")))
	}
	if !cfg.Output.Plots {
		parts = append(parts, "--no-plots")
	} else if cfg.Output.Dir != def.Output.Dir {
		parts = append(parts, "--output", quoteIfNeeded(cfg.Output.Dir))
	}
	if cfg.Log.Level != def.Log.Level {
		parts = append(parts, "--log-level", cfg.Log.Level)
	}

	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Done returns true once an action is chosen
func (s *SummaryScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SummaryScreen) Cancelled() bool {
	return s.cancelled
}

// Action returns the selected action
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionBack:
		return SummaryActionBack
	case actionSaveConfig:
		return SummaryActionSaveConfig
	case actionCancel:
		return SummaryActionCancel
	default:
		return SummaryActionRun
	}
}
