// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output writes command results. Styling and JSON highlighting are
// applied only when color is enabled, which requires both the caller's
// permission and a terminal on the other end of the writer. Piped
// output is always plain text so scripts can parse it.
type Output struct {
	writer io.Writer
	color  bool

	// width is the terminal width used to truncate long paths. Zero
	// disables truncation.
	width int

	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
	faintStyle lipgloss.Style
	goodStyle  lipgloss.Style
	badStyle   lipgloss.Style
}

// NewOutput creates an Output for w. Color is enabled when allowColor is
// set, w is a terminal, and NO_COLOR is unset.
func NewOutput(w io.Writer, allowColor bool) *Output {
	color := false
	width := 0
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		color = allowColor && os.Getenv("NO_COLOR") == ""
		if columns, _, err := term.GetSize(int(file.Fd())); err == nil {
			width = columns
		}
	}
	return newOutput(w, color, width)
}

func newOutput(w io.Writer, color bool, width int) *Output {
	// The profile is forced rather than detected: detection looks at the
	// process's own stdout, which may differ from w. SetColorProfile is
	// required because Renderer.ColorProfile() re-detects otherwise.
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &Output{
		writer:     w,
		color:      color,
		width:      width,
		labelStyle: renderer.NewStyle().Foreground(lipgloss.Color("244")),
		valueStyle: renderer.NewStyle().Bold(true),
		faintStyle: renderer.NewStyle().Faint(true),
		goodStyle:  renderer.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		badStyle:   renderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// Colored reports whether styling is applied.
func (o *Output) Colored() bool { return o.color }

// Println writes a line of plain text.
func (o *Output) Println(args ...any) {
	fmt.Fprintln(o.writer, args...)
}

// Printf writes formatted plain text.
func (o *Output) Printf(format string, args ...any) {
	fmt.Fprintf(o.writer, format, args...)
}

// Field writes an aligned "label  value" line. Labels are padded to
// twelve columns so successive fields line up.
func (o *Output) Field(label, value string) {
	padded := fmt.Sprintf("%-14s", label+":")
	fmt.Fprintf(o.writer, "%s %s\n", o.labelStyle.Render(padded), o.valueStyle.Render(value))
}

// Faint renders s in the de-emphasized style.
func (o *Output) Faint(s string) string { return o.faintStyle.Render(s) }

// Status writes a verdict line: the message styled green when ok is
// true and red otherwise.
func (o *Output) Status(ok bool, message string) {
	style := o.badStyle
	if ok {
		style = o.goodStyle
	}
	fmt.Fprintln(o.writer, style.Render(message))
}

// Path shortens a path to fit the terminal beside a label column.
// Paths are returned unchanged when the width is unknown.
func (o *Output) Path(path string) string {
	available := o.width - 13
	if o.width == 0 || available <= 1 || ansi.StringWidth(path) <= available {
		return path
	}
	return ansi.Truncate(path, available-1, "…")
}

// JSON writes value as indented JSON. Nil slices are written as [] so
// consumers never see null where they expect a list. On a color
// terminal the JSON is syntax highlighted.
func (o *Output) JSON(value any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(normalizeNilSlice(value)); err != nil {
		return err
	}

	if o.color {
		var highlighted bytes.Buffer
		if err := quick.Highlight(&highlighted, buffer.String(), "json", "terminal256", "monokai"); err == nil {
			_, err := o.writer.Write(highlighted.Bytes())
			return err
		}
	}
	_, err := o.writer.Write(buffer.Bytes())
	return err
}

// normalizeNilSlice returns an empty slice of the same type if value
// is a nil slice, so that JSON serialization produces [] instead of
// null. Returns value unchanged for all other types.
func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
