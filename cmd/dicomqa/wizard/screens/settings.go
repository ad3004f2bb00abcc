package screens

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard/components"
	"github.com/mrsinham/dicomqa/internal/config"
	"github.com/mrsinham/dicomqa/internal/util"
)

// SettingsScreen edits the analysis configuration.
type SettingsScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	config    *config.Config
	done      bool
	cancelled bool

	// String versions for form binding (huh binds to strings)
	signalStr string
	motionStr string
	tagsStr   string
}

// NewSettingsScreen creates a settings screen editing cfg in place.
func NewSettingsScreen(cfg *config.Config) *SettingsScreen {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	s := &SettingsScreen{
		helpPanel: components.NewHelpPanel(),
		config:    cfg,
		signalStr: strconv.Itoa(cfg.Thresholds.Signal),
		motionStr: strconv.Itoa(cfg.Thresholds.Motion),
		tagsStr:   strings.Join(cfg.Output.Tags, ","),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("data_dir").
				Title("Data Directory").
				Value(&cfg.Input.DataDir).
				Validate(required("data directory")),

			huh.NewInput().
				Key("rest").
				Title("REST File").
				Value(&cfg.Input.Rest).
				Validate(required("rest filename")),

			huh.NewInput().
				Key("stress").
				Title("STRESS File").
				Value(&cfg.Input.Stress).
				Validate(required("stress filename")),
		).Title("Input"),
		huh.NewGroup(
			huh.NewInput().
				Key("threshold").
				Title("Signal Threshold").
				Value(&s.signalStr).
				Validate(validateIntRange(1, math.MaxUint16)),

			huh.NewInput().
				Key("motion_threshold").
				Title("Motion Threshold").
				Value(&s.motionStr).
				Validate(validateIntRange(0, math.MaxUint16)),
		).Title("Analysis"),
		huh.NewGroup(
			huh.NewConfirm().
				Key("dump_metadata").
				Title("Print REST metadata?").
				Value(&cfg.Output.DumpMetadata),

			huh.NewInput().
				Key("tags").
				Title("Tag Filter").
				Placeholder("all tags").
				Value(&s.tagsStr).
				Validate(validateTags),

			huh.NewConfirm().
				Key("plots").
				Title("Write figures?").
				Value(&cfg.Output.Plots),

			huh.NewInput().
				Key("output").
				Title("Figures Directory").
				Value(&cfg.Output.Dir).
				Validate(requiredWhen(&cfg.Output.Plots, "output directory")),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&cfg.Log.Level),
		).Title("Output"),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// requiredWhen applies required only while *enabled is true.
func requiredWhen(enabled *bool, what string) func(string) error {
	check := required(what)
	return func(s string) error {
		if !*enabled {
			return nil
		}
		return check(s)
	}
}

func validateIntRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func validateTags(s string) error {
	_, err := util.ParseTagList(s)
	return err
}

// splitTags turns the comma-separated filter into canonical tag names.
func splitTags(s string) []string {
	infos, err := util.ParseTagList(s)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

// Init implements tea.Model
func (s *SettingsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SettingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
		s.syncConfigFromForm()
	}

	return s, cmd
}

// syncConfigFromForm parses form strings back into the config.
func (s *SettingsScreen) syncConfigFromForm() {
	if n, err := strconv.Atoi(strings.TrimSpace(s.signalStr)); err == nil {
		s.config.Thresholds.Signal = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.motionStr)); err == nil {
		s.config.Thresholds.Motion = n
	}
	s.config.Output.Tags = splitTags(s.tagsStr)
}

// View implements tea.Model
func (s *SettingsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("DICOMQA WIZARD - Analysis Settings")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Submit | Esc: Cancel",
	)
}

// Done returns true if the form was completed
func (s *SettingsScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SettingsScreen) Cancelled() bool {
	return s.cancelled
}

// Config returns the edited configuration
func (s *SettingsScreen) Config() *config.Config {
	return s.config
}
