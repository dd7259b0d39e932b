package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const timeLayout = "15:04:05.000"

// palette of the diagnostics handler
type handlerStyles struct {
	time      lipgloss.Style
	component lipgloss.Style
	key       lipgloss.Style
	masked    lipgloss.Style
	number    lipgloss.Style
	ok        lipgloss.Style
	redirect  lipgloss.Style
	failure   lipgloss.Style
	levels    map[slog.Level]lipgloss.Style
}

func newHandlerStyles(w io.Writer) handlerStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return handlerStyles{
		time:      fg("8"),
		component: fg("6"),
		key:       fg("6").Faint(true),
		masked:    fg("8"),
		number:    fg("5"),
		ok:        fg("2"),
		redirect:  fg("3"),
		failure:   fg("1"),
		levels: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: fg("8"),
			slog.LevelInfo:  fg("2"),
			slog.LevelWarn:  fg("3").Bold(true),
			slog.LevelError: fg("1").Bold(true),
		},
	}
}

// ColorHandler is the slog handler behind crs diagnostics. One record is one
// line: time, level, the component path from WithGroup, the message, then
// key=value attributes. Credential-bearing attributes are masked, and a
// "status" attribute is colored by its HTTP class.
type ColorHandler struct {
	level  slog.Leveler
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
	masker *Masker
	color  bool
	styles handlerStyles
}

// NewColorHandler creates a handler writing to w. Color is used only when
// w is a terminal that accepts it.
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &ColorHandler{
		level:  level,
		w:      w,
		mu:     &sync.Mutex{},
		masker: NewMasker(),
		color:  termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii,
		styles: newHandlerStyles(w),
	}
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.styles.time, r.Time.Format(timeLayout)))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.levelLabel(r.Level))
	buf.WriteByte(' ')
	if len(h.groups) > 0 {
		buf.WriteString(h.paint(h.styles.component, "["+strings.Join(h.groups, ".")+"]"))
		buf.WriteByte(' ')
	}
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, "", a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *ColorHandler) levelLabel(l slog.Level) string {
	label := fmt.Sprintf("%-5s", l.String())
	style, ok := h.styles.levels[l]
	if !ok {
		return label
	}
	return h.paint(style, label)
}

func (h *ColorHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	a = h.masker.MaskAttr(a)
	key := prefix + a.Key

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, key+".", ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(h.styles.key, key))
	buf.WriteByte('=')
	buf.WriteString(h.formatValue(a.Key, a.Value))
}

func (h *ColorHandler) formatValue(key string, v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		s := strconv.FormatInt(v.Int64(), 10)
		if key == "status" {
			return h.paint(h.statusStyle(v.Int64()), s)
		}
		return h.paint(h.styles.number, s)
	case slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return h.paint(h.styles.number, v.String())
	case slog.KindDuration:
		return h.paint(h.styles.number, v.Duration().String())
	case slog.KindTime:
		return h.paint(h.styles.time, v.Time().Format(time.RFC3339))
	}

	s := v.String()
	switch {
	case s == MaskedValue:
		return h.paint(h.styles.masked, s)
	case key == "error":
		return h.paint(h.styles.failure, quoteIfNeeded(s))
	}
	return quoteIfNeeded(s)
}

func (h *ColorHandler) statusStyle(code int64) lipgloss.Style {
	switch {
	case code >= 200 && code < 300:
		return h.styles.ok
	case code >= 300 && code < 400:
		return h.styles.redirect
	default:
		return h.styles.failure
	}
}

func (h *ColorHandler) paint(s lipgloss.Style, text string) string {
	if !h.color {
		return text
	}
	return s.Render(text)
}

// quoteIfNeeded leaves plain tokens such as header values without spaces
// readable and quotes everything else.
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &c
}

// WithGroup extends the component path shown in brackets.
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &c
}
