package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/nitr-himanshu/adb-util/internal/model"
)

// Renderer writes accepted LogEntry values to an output stream.
type Renderer interface {
	Render(entry model.LogEntry) error
}

// Per-level colors follow the original viewer: verbose gray, debug
// green, info blue, warning yellow, error orange, fatal red.
var levelStyles = map[model.Level]lipgloss.Style{
	model.LevelVerbose: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	model.LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	model.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	model.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	model.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	model.LevelFatal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("196")).
		Bold(true),
}

var styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Faint(true)

// TextRenderer prints entries to a terminal with severity-based colors,
// rendered in the given format's line style.
type TextRenderer struct {
	w      io.Writer
	format model.LogFormat
}

// NewTextRenderer returns a Renderer writing colorized lines in the
// given format style.
func NewTextRenderer(w io.Writer, format model.LogFormat) *TextRenderer {
	return &TextRenderer{w: w, format: format}
}

func (r *TextRenderer) Render(entry model.LogEntry) error {
	style, ok := levelStyles[entry.Level]
	if !ok {
		style = styleUnknown
	}
	_, err := fmt.Fprintln(r.w, style.Render(Line(entry, r.format)))
	return err
}

// JSONRenderer prints each entry as a single JSON object per line, for
// piping into other tools.
type JSONRenderer struct {
	enc *json.Encoder
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}
