package httpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/crs/internal/common"
	"github.com/loykin/crs/internal/constants"
)

// ErrInvalidTLSVersion is returned for a minimum TLS version crs does not know.
var ErrInvalidTLSVersion = errors.New("invalid TLS version")

// Httpc holds the transport settings for the single request crs makes.
type Httpc struct {
	TlsConfig *tls.Config
	Timeout   time.Duration
	UserAgent string
	Logger    *common.Logger
}

// Response is the part of an HTTP response crs displays.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body is nil unless the body was requested.
	Body []byte
}

// New returns a resty.Client configured according to the receiver's settings.
// Retries stay disabled and redirects are followed up to constants.MaxRedirects.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	// no transparent gzip: Content-Encoding and Content-Length stay as sent
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DisableCompression = true
	c.SetTransport(tr)
	c.SetRetryCount(0)
	c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(constants.MaxRedirects))

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	c.SetTimeout(timeout)

	ua := h.UserAgent
	if ua == "" {
		ua = constants.DefaultUserAgent
	}
	c.SetHeader("User-Agent", ua)

	if h.Logger != nil {
		c.SetLogger(&restyLogger{l: h.Logger.WithComponent("httpc")})
	}

	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// Get performs one GET against url. The body is only read when withBody is set.
func (h *Httpc) Get(ctx context.Context, url string, withBody bool) (*Response, error) {
	req := h.New().R().SetContext(ctx).SetDoNotParseResponse(!withBody)
	resp, err := req.Get(url)
	if !withBody && resp != nil && resp.RawBody() != nil {
		defer func() { _ = resp.RawBody().Close() }()
	}
	if err != nil {
		return nil, err
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
	}
	if withBody {
		out.Body = resp.Body()
		if out.Body == nil {
			out.Body = []byte{}
		}
	}
	return out, nil
}

// TLSConfig builds the client TLS settings from the command line options.
// minVersion is a tls.Version* constant or 0. It returns nil when neither
// option changes the defaults.
func TLSConfig(insecure bool, minVersion uint16) *tls.Config {
	if !insecure && minVersion == 0 {
		return nil
	}
	return &tls.Config{
		InsecureSkipVerify: insecure, //nolint:gosec // explicit --insecure
		MinVersion:         minVersion,
	}
}

// ParseTLSVersion accepts forms like "1.2", "tls1.3" or "TLS13". An empty
// string yields 0 and no error.
func ParseTLSVersion(s string) (uint16, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "tls")
	v = strings.TrimPrefix(v, "v")
	switch v {
	case "1.0", "10":
		return tls.VersionTLS10, nil
	case "1.1", "11":
		return tls.VersionTLS11, nil
	case "1.2", "12":
		return tls.VersionTLS12, nil
	case "1.3", "13":
		return tls.VersionTLS13, nil
	}
	return 0, fmt.Errorf("%w %q (want 1.0, 1.1, 1.2 or 1.3)", ErrInvalidTLSVersion, s)
}

// restyLogger routes resty's own diagnostics through the crs logger.
type restyLogger struct {
	l *common.Logger
}

func (r *restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r *restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r *restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
