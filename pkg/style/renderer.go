package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Renderer defines the interface for rendering various output types
type Renderer interface {
	RenderModList(modsDir string, rows []ModRow) string
	RenderMessage(message string) string
	RenderError(err error) string
	RenderProgress(done, total int64, message string) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderModList renders the styled mods listing
func (r *TerminalRenderer) RenderModList(modsDir string, rows []ModRow) string {
	return RenderModList(modsDir, rows)
}

// RenderMessage renders a one-line status message, resolving any markup
// tags embedded in it
func (r *TerminalRenderer) RenderMessage(message string) string {
	return fmt.Sprintf("%s %s", pterm.Success.Prefix.Text, Render(message))
}

// RenderError renders a styled error line
func (r *TerminalRenderer) RenderError(err error) string {
	return RenderError(err)
}

// RenderProgress renders a transfer progress bar. A negative total means
// the size is unknown and only the byte count is shown.
func (r *TerminalRenderer) RenderProgress(done, total int64, message string) string {
	if total <= 0 {
		return fmt.Sprintf("%s %s %s", InfoIndicator, FormatBytes(done), message)
	}

	barWidth := 20
	filled := int(float64(done) / float64(total) * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return fmt.Sprintf("%s [%s] %s/%s %s",
		InfoIndicator,
		pterm.Info.MessageStyle.Sprint(bar),
		FormatBytes(done),
		FormatBytes(total),
		message)
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderModList renders a plain mods listing
func (r *PlainRenderer) RenderModList(modsDir string, rows []ModRow) string {
	var result strings.Builder
	result.WriteString("Mods in " + modsDir + ":\n")

	if len(rows) == 0 {
		result.WriteString("  (none)\n")
		return strings.TrimRight(result.String(), "\n")
	}

	for _, row := range rows {
		result.WriteString(fmt.Sprintf("  %-40s %s\n", row.DisplayName, row.State))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderMessage renders a plain status message with markup tags removed
func (r *PlainRenderer) RenderMessage(message string) string {
	return StripMarkup(message)
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// RenderProgress renders plain progress
func (r *PlainRenderer) RenderProgress(done, total int64, message string) string {
	if total <= 0 {
		return fmt.Sprintf("%s - %s", FormatBytes(done), message)
	}
	return fmt.Sprintf("%s/%s - %s", FormatBytes(done), FormatBytes(total), message)
}

// FormatBytes renders a byte count the way download UIs do.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
