package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard/help"
)

// minPanelWidth is the narrowest panel that still fits the threshold details.
const minPanelWidth = 30

var (
	panelBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2)

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	fieldTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true)

	fieldDescStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	fieldNoteStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))
)

// HelpPanel explains the focused settings field under its form group.
type HelpPanel struct {
	field string
	width int
}

// NewHelpPanel creates a help panel with a default width.
func NewHelpPanel() *HelpPanel {
	return &HelpPanel{width: 64}
}

// SetField selects the form field key whose help is shown.
func (h *HelpPanel) SetField(key string) {
	h.field = key
}

// Field returns the form field key whose help is shown.
func (h *HelpPanel) Field() string {
	return h.field
}

// SetWidth updates the panel width. Narrow terminals keep the current width.
func (h *HelpPanel) SetWidth(width int) {
	if width >= minPanelWidth {
		h.width = width
	}
}

// View renders the help for the focused field.
func (h *HelpPanel) View() string {
	box := panelBorder.Width(h.width - 4)

	text, ok := help.Texts[h.field]
	if !ok {
		return box.Render(fieldNoteStyle.Render("Move to a field to see how the analysis uses it"))
	}

	lines := []string{}
	if text.Section != "" {
		lines = append(lines, sectionStyle.Render(strings.ToUpper(text.Section)+" /"))
	}
	lines = append(lines, fieldTitleStyle.Render(text.Title), "", fieldDescStyle.Render(text.Description))
	if text.Details != "" {
		lines = append(lines, "", fieldNoteStyle.Render(text.Details))
	}
	return box.Render(strings.Join(lines, "\n"))
}
