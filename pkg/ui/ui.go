package ui

import (
	"encoding/json"
	"io"
	"os"

	"github.com/collin12121212/DewLoader/pkg/style"
)

// NewRenderer returns the style renderer matching format. FormatAuto
// inspects the output when it is a real file; non-file writers get the
// terminal renderer. FormatJSON has no style renderer; callers handle it
// with WriteJSON.
func NewRenderer(format Format, output io.Writer) style.Renderer {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return style.NewTerminalRenderer()
	case FormatText:
		return style.NewPlainRenderer()
	default:
		return style.NewTerminalRenderer()
	}
}

// WriteJSON writes v to output as indented JSON with a trailing newline.
func WriteJSON(output io.Writer, v any) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
