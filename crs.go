// Package crs makes a single HTTP GET request, then filters, sorts and
// displays the response headers as styled text or JSON.
package crs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/loykin/crs/internal/common"
	"github.com/loykin/crs/internal/filter"
	"github.com/loykin/crs/internal/headers"
	"github.com/loykin/crs/internal/httpc"
	"github.com/loykin/crs/internal/mode"
	"github.com/loykin/crs/internal/render"
)

// Re-export commonly used types for public API

// ColorMode selects when text output is colorized.
type ColorMode = mode.ColorMode

const (
	ColorAuto   = mode.ColorAuto
	ColorAlways = mode.ColorAlways
	ColorNever  = mode.ColorNever
)

// Response is the part of an HTTP response crs displays.
type Response = httpc.Response

// Error kinds. Each typed error below matches one of these with errors.Is.
var (
	ErrConflictingOutputMode = mode.ErrConflictingOutputMode
	ErrInvalidPattern        = filter.ErrInvalidPattern
	ErrHeaderDecode          = headers.ErrHeaderDecode
	ErrWrite                 = render.ErrWrite
	ErrInvalidTLSVersion     = httpc.ErrInvalidTLSVersion
	ErrRequestFailed         = errors.New("request failed")
)

// RequestFailedError carries the target URL and the transport error.
// The message never shows a password from the URL.
type RequestFailedError struct {
	URL string
	Err error
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("failed to GET %s: %v", RedactURL(e.URL), e.Err)
}

// RedactURL hides the password of a URL with userinfo. Input that does not
// parse as a URL is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

func (e *RequestFailedError) Unwrap() []error { return []error{ErrRequestFailed, e.Err} }

// Options is the validated command line configuration for one run.
type Options struct {
	URL string
	// Filter is the raw comma-separated pattern list; nil means no filtering.
	Filter *string
	Color  ColorMode
	// ColorSet records whether Color was given explicitly.
	ColorSet bool
	JSON     bool
	Body     bool

	Timeout       time.Duration
	Insecure      bool
	TLSMinVersion string
	UserAgent     string
}

// Fetcher performs the single GET request of a run.
type Fetcher interface {
	Get(ctx context.Context, url string, withBody bool) (*Response, error)
}

// Runner wires the pipeline together. Zero-value fields fall back to defaults.
type Runner struct {
	Fetcher  Fetcher
	Detector mode.Detector
	Logger   *common.Logger
	Out      io.Writer
}

// NewRunner returns a Runner that fetches with resty, configured from the
// options of each Run.
func NewRunner(out io.Writer, logger *common.Logger) *Runner {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Runner{
		Detector: mode.TermenvDetector{},
		Logger:   logger,
		Out:      out,
	}
}

// Run executes one request with the default Runner.
func Run(ctx context.Context, opts Options, out io.Writer) error {
	return NewRunner(out, nil).Run(ctx, opts)
}

// Run validates opts, performs exactly one request and renders the result.
// Configuration errors are reported before any network activity.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if err := mode.Validate(opts.ColorSet, opts.JSON, opts.Body); err != nil {
		return err
	}
	matchers, err := filter.Compile(opts.Filter)
	if err != nil {
		return err
	}
	minTLS, err := httpc.ParseTLSVersion(opts.TLSMinVersion)
	if err != nil {
		return err
	}

	logger := r.Logger
	if logger == nil {
		logger = common.GetLogger()
	}
	log := logger.WithComponent("run").WithRequest("GET", RedactURL(opts.URL))
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	fetcher := r.Fetcher
	if fetcher == nil {
		fetcher = &httpc.Httpc{
			TlsConfig: httpc.TLSConfig(opts.Insecure, minTLS),
			Timeout:   opts.Timeout,
			UserAgent: opts.UserAgent,
			Logger:    logger,
		}
	}

	renderMode := mode.RenderModeFor(opts.JSON)
	colorize := false
	if renderMode == mode.RenderText {
		colorize = mode.Resolve(opts.Color, out, r.Detector)
	}
	log.Debug("sending request", "render", renderMode.String(), "colorize", colorize, "filters", len(matchers))

	resp, err := fetcher.Get(ctx, opts.URL, opts.Body)
	if err != nil {
		return &RequestFailedError{URL: opts.URL, Err: err}
	}
	log.Debug("response received", "status", resp.StatusCode, "header_names", len(resp.Header))

	view, err := headers.Collect(headers.FromHTTP(resp.Header), matchers)
	if err != nil {
		return err
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		for _, e := range view {
			log.Debug("header", strings.ToLower(e.Name), e.Value)
		}
	}

	var body *string
	if opts.Body && resp.Body != nil {
		s := strings.ToValidUTF8(string(resp.Body), "\uFFFD")
		body = &s
	}

	status := render.StatusOutcome{Code: resp.StatusCode}
	return render.New(out, colorize).Render(renderMode, view, status, body)
}
