// Package wizard provides the interactive terminal form used to prepare an
// analysis run.
package wizard

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard/components"
	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard/screens"
	"github.com/mrsinham/dicomqa/internal/config"
)

// DefaultConfigPath is proposed when saving the configuration.
const DefaultConfigPath = "dicomqa.yaml"

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseSettings Phase = iota
	PhaseSummary
	PhaseSaveConfig
)

// Wizard is the bubbletea model driving the screens.
type Wizard struct {
	config *config.Config
	phase  Phase

	settingsScreen *screens.SettingsScreen
	summaryScreen  *screens.SummaryScreen

	// Save config form
	saveConfigForm *huh.Form
	configPath     string
	saveErr        error

	cancelled bool
	confirmed bool
}

// NewWizard creates a wizard editing cfg, or the defaults when cfg is nil.
func NewWizard(cfg *config.Config) *Wizard {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := &Wizard{
		config:     cfg,
		phase:      PhaseSettings,
		configPath: DefaultConfigPath,
	}
	w.settingsScreen = screens.NewSettingsScreen(w.config)
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.settingsScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch w.phase {
	case PhaseSettings:
		return w.updateSettings(msg)
	case PhaseSummary:
		return w.updateSummary(msg)
	case PhaseSaveConfig:
		return w.updateSaveConfig(msg)
	}
	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseSettings:
		return w.settingsScreen.View()
	case PhaseSummary:
		return w.summaryScreen.View()
	case PhaseSaveConfig:
		return w.viewSaveConfig()
	}
	return ""
}

func (w *Wizard) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.settingsScreen.Update(msg)
	if ss, ok := model.(*screens.SettingsScreen); ok {
		w.settingsScreen = ss
	}

	if w.settingsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}
	if w.settingsScreen.Done() {
		return w.transitionToSummary("")
	}
	return w, cmd
}

func (w *Wizard) transitionToSummary(message string) (tea.Model, tea.Cmd) {
	w.phase = PhaseSummary
	w.summaryScreen = screens.NewSummaryScreen(w.config, message)
	return w, w.summaryScreen.Init()
}

func (w *Wizard) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.summaryScreen.Update(msg)
	if ss, ok := model.(*screens.SummaryScreen); ok {
		w.summaryScreen = ss
	}

	if w.summaryScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}
	if !w.summaryScreen.Done() {
		return w, cmd
	}

	switch w.summaryScreen.Action() {
	case screens.SummaryActionBack:
		w.phase = PhaseSettings
		w.settingsScreen = screens.NewSettingsScreen(w.config)
		return w, w.settingsScreen.Init()
	case screens.SummaryActionSaveConfig:
		return w.transitionToSaveConfig()
	case screens.SummaryActionCancel:
		w.cancelled = true
		return w, tea.Quit
	default:
		if err := w.config.Validate(); err != nil {
			return w.transitionToSummary(fmt.Sprintf("Invalid configuration: %v", err))
		}
		w.confirmed = true
		return w, tea.Quit
	}
}

func (w *Wizard) transitionToSaveConfig() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveConfig
	w.saveErr = nil

	w.saveConfigForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("config_path").
				Title("Save configuration to").
				Description("Enter the path for the YAML config file").
				Value(&w.configPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveConfigForm.Init()
}

func (w *Wizard) updateSaveConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return w.transitionToSummary("")
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveConfigForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveConfigForm = f
	}

	if w.saveConfigForm.State == huh.StateCompleted {
		return w.saveConfig()
	}
	return w, cmd
}

// saveConfig writes the configuration and returns to the summary. On
// failure the path form is shown again with the error.
func (w *Wizard) saveConfig() (tea.Model, tea.Cmd) {
	if err := config.SaveToYAML(w.config, w.configPath); err != nil {
		model, cmd := w.transitionToSaveConfig()
		w.saveErr = err
		return model, cmd
	}
	return w.transitionToSummary(fmt.Sprintf("Configuration saved to %s", w.configPath))
}

func (w *Wizard) viewSaveConfig() string {
	parts := []string{
		components.TitleStyle.Render("Save Configuration"),
		w.saveConfigForm.View(),
	}
	if w.saveErr != nil {
		parts = append(parts, components.ErrorStyle.Render(w.saveErr.Error()))
	}
	parts = append(parts, "", "Enter: Save | Esc: Back")
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Config returns the edited configuration.
func (w *Wizard) Config() *config.Config {
	return w.config
}

// Confirmed reports whether the user chose to run the analysis.
func (w *Wizard) Confirmed() bool {
	return w.confirmed
}

// Cancelled reports whether the user left the wizard without running.
func (w *Wizard) Cancelled() bool {
	return w.cancelled
}

// Run starts the interactive wizard. If fromConfig is provided, the form is
// prefilled from that YAML file. It returns the configuration to run, or nil
// when the user cancelled.
func Run(fromConfig string) (*config.Config, error) {
	var cfg *config.Config
	if fromConfig != "" {
		absPath, err := filepath.Abs(fromConfig)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		loaded, err := config.LoadFromYAML(absPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	p := tea.NewProgram(NewWizard(cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok && w.Confirmed() {
		return w.Config(), nil
	}
	return nil, nil
}
