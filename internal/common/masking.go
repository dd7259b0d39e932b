package common

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// MaskedValue replaces any value considered sensitive
const MaskedValue = "***MASKED***"

// SensitivePattern represents a pattern to detect and mask sensitive information
type SensitivePattern struct {
	Name        string         // Pattern name (e.g., "cookie", "authorization")
	Regex       *regexp.Regexp // Regular expression to match sensitive data inside a value
	Replacement string         // Replacement string
	Keys        []string       // Attribute keys / header names to mask entirely (case-insensitive)
}

// DefaultSensitivePatterns covers credential-bearing HTTP headers and
// inline credentials that can show up in header values.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "authorization",
		Regex:       regexp.MustCompile(`(?i)(authorization)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}=` + MaskedValue,
		Keys:        []string{"authorization", "proxy-authorization", "www-authenticate", "proxy-authenticate"},
	},
	{
		Name:  "cookie",
		Keys:  []string{"cookie", "set-cookie", "set-cookie2"},
		Regex: regexp.MustCompile(`(?i)\b(session|sessionid|sid)=([^;\s]+)`),
		// keep the cookie name, drop its value
		Replacement: `${1}=` + MaskedValue,
	},
	{
		Name:        "api_key",
		Regex:       regexp.MustCompile(`(?i)(api[_-]?key|apikey)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}=` + MaskedValue,
		Keys:        []string{"x-api-key", "api-key", "api_key", "apikey"},
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)(access[_-]?token|auth[_-]?token)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}=` + MaskedValue,
		Keys:        []string{"x-auth-token", "x-access-token", "x-csrf-token", "x-xsrf-token"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer " + MaskedValue,
	},
	{
		Name:        "basic_auth",
		Regex:       regexp.MustCompile(`(?i)Basic\s+[A-Za-z0-9+/]+=*`),
		Replacement: "Basic " + MaskedValue,
	},
}

// Masker hides credentials in diagnostics. Rendered output is never masked.
type Masker struct {
	patterns []SensitivePattern
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return &Masker{patterns: DefaultSensitivePatterns}
}

// IsSensitiveKey reports whether key names a value that must be hidden entirely.
func (m *Masker) IsSensitiveKey(key string) bool {
	for _, pattern := range m.patterns {
		for _, sensitiveKey := range pattern.Keys {
			if strings.EqualFold(key, sensitiveKey) {
				return true
			}
		}
	}
	return false
}

// MaskString masks inline credentials in a string
func (m *Masker) MaskString(input string) string {
	result := input
	for _, pattern := range m.patterns {
		if pattern.Regex == nil {
			continue
		}
		result = pattern.Regex.ReplaceAllString(result, pattern.Replacement)
	}
	return result
}

// MaskAttr returns a with its value hidden when the key is sensitive and with
// inline credentials masked in string and error values. Groups are masked
// member by member.
func (m *Masker) MaskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	if m.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskedValue)
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, m.MaskString(v.String()))
	case slog.KindGroup:
		members := v.Group()
		masked := make([]any, len(members))
		for i, ga := range members {
			masked[i] = m.MaskAttr(ga)
		}
		return slog.Group(a.Key, masked...)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, m.MaskString(x.Error()))
		case []byte:
			return slog.String(a.Key, m.MaskString(string(x)))
		case fmt.Stringer:
			return slog.String(a.Key, m.MaskString(x.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
