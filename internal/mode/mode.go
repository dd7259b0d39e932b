// Package mode decides the output format and whether text output is colorized.
package mode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
)

// ErrConflictingOutputMode is returned when mutually exclusive output options are combined.
var ErrConflictingOutputMode = errors.New("conflicting output mode")

// ColorMode selects when text output is colorized.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// String returns the flag spelling of the mode
func (c ColorMode) String() string {
	switch c {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode accepts always, auto or never in any case.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ColorAlways, nil
	case "auto":
		return ColorAuto, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want always, auto or never)", s)
}

var _ pflag.Value = (*ColorMode)(nil)

// Set implements pflag.Value.
func (c *ColorMode) Set(s string) error {
	v, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Type implements pflag.Value.
func (c *ColorMode) Type() string { return "color" }

func (c *ColorMode) UnmarshalText(b []byte) error { return c.Set(string(b)) }

func (c ColorMode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// RenderMode selects the output format.
type RenderMode int

const (
	RenderText RenderMode = iota
	RenderJSON
)

func (r RenderMode) String() string {
	if r == RenderJSON {
		return "json"
	}
	return "text"
}

// RenderModeFor maps the --json switch to a RenderMode.
func RenderModeFor(json bool) RenderMode {
	if json {
		return RenderJSON
	}
	return RenderText
}

// Validate rejects option combinations that cannot be rendered together.
// colorSet reports whether --color was given explicitly.
func Validate(colorSet, json, body bool) error {
	if !json {
		return nil
	}
	if colorSet {
		return fmt.Errorf("%w: --json cannot be combined with --color", ErrConflictingOutputMode)
	}
	if body {
		return fmt.Errorf("%w: --json cannot be combined with --body", ErrConflictingOutputMode)
	}
	return nil
}

// Detector reports whether w is an interactive terminal that can show color.
type Detector interface {
	SupportsColor(w io.Writer) bool
}

// TermenvDetector inspects the writer with termenv. NO_COLOR and
// CLICOLOR_FORCE are honoured.
type TermenvDetector struct{}

func (TermenvDetector) SupportsColor(w io.Writer) bool {
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// Resolve turns c into the colorize flag used for the rest of the run.
func Resolve(c ColorMode, w io.Writer, d Detector) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if d == nil {
		d = TermenvDetector{}
	}
	return d.SupportsColor(w)
}
