// Package render writes an ordered header view as styled text or JSON.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/loykin/crs/internal/headers"
	"github.com/loykin/crs/internal/mode"
	"github.com/tidwall/pretty"
)

// ErrWrite is returned when the output sink rejects a write.
var ErrWrite = errors.New("write output")

// WriteError wraps the error returned by the output sink.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write output: %v", e.Err) }

func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// StatusOutcome is the response status code. Only 2xx counts as success.
type StatusOutcome struct {
	Code int
}

func (s StatusOutcome) Success() bool { return s.Code >= 200 && s.Code < 300 }

// Renderer formats output for a single sink. Everything produced by one
// Render call reaches the sink in a single Write.
type Renderer struct {
	out      io.Writer
	colorize bool
	styles   Styles
}

// New returns a Renderer writing to out. colorize only affects text output.
func New(out io.Writer, colorize bool) *Renderer {
	return &Renderer{
		out:      out,
		colorize: colorize,
		styles:   NewStyles(out, colorize),
	}
}

// Render writes view in the given mode. body is shown after the status line
// in text mode when non-nil.
func (r *Renderer) Render(m mode.RenderMode, view headers.View, status StatusOutcome, body *string) error {
	var buf bytes.Buffer
	switch m {
	case mode.RenderJSON:
		if err := writeJSON(&buf, view); err != nil {
			return err
		}
	default:
		r.writeText(&buf, view, status, body)
	}

	if _, err := buf.WriteTo(r.out); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func (r *Renderer) writeText(buf *bytes.Buffer, view headers.View, status StatusOutcome, body *string) {
	for _, e := range view {
		buf.WriteString(r.paint(r.styles.Heading, e.Name))
		buf.WriteString(":\n  ")
		buf.WriteString(e.Value)
		buf.WriteString("\n\n")
	}

	statusStyle := r.styles.Failure
	if status.Success() {
		statusStyle = r.styles.Success
	}
	buf.WriteString(r.paint(statusStyle, fmt.Sprintf("Status Code: %d", status.Code)))
	buf.WriteByte('\n')

	if body == nil || *body == "" {
		return
	}
	// styled per line; lipgloss pads multi-line blocks to a common width
	lines := strings.Split(strings.TrimSuffix(*body, "\n"), "\n")
	for _, line := range lines {
		buf.WriteString(r.paint(r.styles.Body, line))
		buf.WriteByte('\n')
	}
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.colorize || text == "" {
		return text
	}
	return s.Render(text)
}

// writeJSON emits one object keyed by header name in view order. A name seen
// once maps to its value; a repeated name maps to an array of all its values.
func writeJSON(buf *bytes.Buffer, view headers.View) error {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for i := 0; i < len(view); {
		j := i + 1
		for j < len(view) && view[j].Name == view[i].Name {
			j++
		}
		if i > 0 {
			raw.WriteByte(',')
		}

		key, err := json.Marshal(view[i].Name)
		if err != nil {
			return fmt.Errorf("encode header name %q: %w", view[i].Name, err)
		}
		var val []byte
		if j-i == 1 {
			val, err = json.Marshal(view[i].Value)
		} else {
			values := make([]string, 0, j-i)
			for _, e := range view[i:j] {
				values = append(values, e.Value)
			}
			val, err = json.Marshal(values)
		}
		if err != nil {
			return fmt.Errorf("encode header %q: %w", view[i].Name, err)
		}

		raw.Write(key)
		raw.WriteByte(':')
		raw.Write(val)
		i = j
	}
	raw.WriteByte('}')

	buf.Write(pretty.Pretty(raw.Bytes()))
	return nil
}
