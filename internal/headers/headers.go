// Package headers filters response headers and orders them for display.
package headers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/loykin/crs/internal/filter"
)

// ErrHeaderDecode is returned when a header value cannot be shown as text.
var ErrHeaderDecode = errors.New("header value is not displayable text")

// DecodeError names the header whose value failed to decode.
type DecodeError struct {
	Name  string
	Value string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("header %q: value %q is not displayable text", e.Name, e.Value)
}

func (e *DecodeError) Unwrap() error { return ErrHeaderDecode }

// Entry is a single response header line. Repeated names produce separate entries.
type Entry struct {
	Name  string
	Value string
}

// View is the filtered, display-ordered list of entries.
type View []Entry

// FromHTTP flattens h into entries. Names are visited in byte order since
// http.Header does not keep arrival order across names; values for one
// name keep the order in which they were received.
func FromHTTP(h http.Header) []Entry {
	names := make([]string, 0, len(h))
	n := 0
	for k, vs := range h {
		names = append(names, k)
		n += len(vs)
	}
	sort.Strings(names)

	out := make([]Entry, 0, n)
	for _, k := range names {
		for _, v := range h[k] {
			out = append(out, Entry{Name: k, Value: v})
		}
	}
	return out
}

// Collect keeps the entries whose name matches m and sorts them by name.
// Entries with the same name stay in their original relative order.
func Collect(entries []Entry, m filter.Matchers) (View, error) {
	view := make(View, 0, len(entries))
	for _, e := range entries {
		if !m.Match(e.Name) {
			continue
		}
		if !displayable(e.Value) {
			return nil, &DecodeError{Name: e.Name, Value: e.Value}
		}
		view = append(view, e)
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Name < view[j].Name
	})
	return view, nil
}

// displayable rejects invalid UTF-8 and control characters other than tab.
func displayable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r != '\t' && unicode.IsControl(r) {
			return false
		}
	}
	return true
}
