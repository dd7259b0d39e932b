package httpc

import (
	"crypto/tls"
	"errors"
	"testing"
)

// FuzzParseTLSVersion checks that --tls-min-version input either maps to a
// known TLS version or is rejected.
func FuzzParseTLSVersion(f *testing.F) {
	for _, seed := range []string{"", "1.2", "tls1.3", "TLS13", "tlsv1.1", "1.4", "weird-input!!"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseTLSVersion(s)
		if err != nil {
			if !errors.Is(err, ErrInvalidTLSVersion) || v != 0 {
				t.Fatalf("ParseTLSVersion(%q) = %v, %v", s, v, err)
			}
			return
		}
		switch v {
		case 0, tls.VersionTLS10, tls.VersionTLS11, tls.VersionTLS12, tls.VersionTLS13:
		default:
			t.Fatalf("unexpected tls version %v for %q", v, s)
		}
		if cfg := TLSConfig(false, v); cfg != nil && cfg.MinVersion != v {
			t.Fatalf("TLSConfig(%v) min version = %v", v, cfg.MinVersion)
		}
	})
}
