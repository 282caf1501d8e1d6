package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// State of a mod folder as shown in listings
type State string

const (
	StateEnabled  State = "enabled"  // SMAPI will load it
	StateDisabled State = "disabled" // Folder carries the disabled suffix
	StateConflict State = "conflict" // Both folder forms exist
)

// StateStyle returns the appropriate pterm style for a mod state
func StateStyle(state State) *pterm.Style {
	switch state {
	case StateEnabled:
		return pterm.NewStyle(pterm.FgGreen)
	case StateDisabled:
		return pterm.NewStyle(pterm.FgRed)
	case StateConflict:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ModRow is one mod prepared for display
type ModRow struct {
	// DisplayName is the manifest name plus version when known
	DisplayName string
	// Folder is the on-disk folder name, shown when it differs
	Folder string
	State  State
	// Warning is a per-mod note, e.g. an unreadable manifest
	Warning string
}

// RenderModRow renders a single mod line
func (m ModRow) RenderModRow() string {
	indicator := EnabledIndicator
	switch m.State {
	case StateDisabled:
		indicator = DisabledIndicator
	case StateConflict:
		indicator = WarningIndicator
	}

	name := fmt.Sprintf("%-40s", m.DisplayName)
	stateTag := StateStyle(m.State).Sprint(string(m.State))

	line := fmt.Sprintf("  %s %s %s", indicator, name, stateTag)
	if m.Warning != "" {
		line += " " + WarningStyle.Render("("+m.Warning+")")
	}
	return line
}

// RenderModList renders the full mods listing with a summary line
func RenderModList(modsDir string, rows []ModRow) string {
	var result strings.Builder
	result.WriteString(SubtitleStyle.Render("Mods in "+modsDir) + "\n\n")

	if len(rows) == 0 {
		result.WriteString(MutedStyle.Render("  No mods installed") + "\n")
		return strings.TrimRight(result.String(), "\n")
	}

	enabled, conflicted := 0, 0
	for _, row := range rows {
		result.WriteString(row.RenderModRow() + "\n")
		switch row.State {
		case StateEnabled:
			enabled++
		case StateConflict:
			conflicted++
		}
	}

	summary := fmt.Sprintf("  %d mod(s), %d enabled, %d disabled",
		len(rows), enabled, len(rows)-enabled-conflicted)
	if conflicted > 0 {
		summary += fmt.Sprintf(", %d conflicted", conflicted)
	}
	result.WriteString("\n" + MutedStyle.Render(summary) + "\n")
	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message with the pterm error badge. Coded
// errors already carry their [CODE] prefix in Error().
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}
