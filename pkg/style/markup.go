package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser turns [tag]...[/tag] markup into styled terminal text.
// Command layers embed tags in their status messages; the terminal
// renderer styles them and the plain renderer strips them.
type MarkupParser struct {
	styles   map[string]lipgloss.Style
	patterns map[string]*regexp.Regexp
}

// NewMarkupParser creates a parser with the default tag set
func NewMarkupParser() *MarkupParser {
	p := &MarkupParser{
		styles:   map[string]lipgloss.Style{},
		patterns: map[string]*regexp.Regexp{},
	}
	for tag, style := range map[string]lipgloss.Style{
		"title":     TitleStyle,
		"subtitle":  SubtitleStyle,
		"success":   SuccessStyle,
		"error":     ErrorStyle,
		"warning":   WarningStyle,
		"info":      InfoStyle,
		"code":      CodeStyle,
		"path":      PathStyle,
		"muted":     MutedStyle,
		"bold":      lipgloss.NewStyle().Bold(true),
		"italic":    lipgloss.NewStyle().Italic(true),
		"underline": lipgloss.NewStyle().Underline(true),

		// Mod state tags
		"enabled":  EnabledStyle,
		"disabled": DisabledStyle,
	} {
		p.AddStyle(tag, style)
	}
	return p
}

// AddStyle registers a custom tag
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
	p.patterns[tag] = regexp.MustCompile(`\[` + tag + `\](.*?)\[/` + tag + `\]`)
}

// Render processes markup text and returns styled output. Tags resolve
// innermost first, so nesting works; unknown tags pass through untouched.
func (p *MarkupParser) Render(text string) string {
	return p.replaceTags(text, func(tag, content string) string {
		return p.styles[tag].Render(content)
	})
}

// Strip removes markup tags and keeps their content. Plain output paths
// use it so tags never leak to non-terminal writers.
func (p *MarkupParser) Strip(text string) string {
	return p.replaceTags(text, func(_, content string) string {
		return content
	})
}

func (p *MarkupParser) replaceTags(text string, apply func(tag, content string) string) string {
	for {
		changed := false
		for tag, pattern := range p.patterns {
			text = pattern.ReplaceAllStringFunc(text, func(match string) string {
				submatch := pattern.FindStringSubmatch(match)
				if len(submatch) != 2 {
					return match
				}
				changed = true
				return apply(tag, submatch[1])
			})
		}
		if !changed {
			return text
		}
	}
}

// RenderTemplate substitutes {{var}} placeholders, then renders markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}

// Global parser instance
var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// StripMarkup is a convenience function using the default parser
func StripMarkup(text string) string {
	return defaultParser.Strip(text)
}

// RenderTemplate is a convenience function using the default parser
func RenderTemplate(template string, vars map[string]string) string {
	return defaultParser.RenderTemplate(template, vars)
}
