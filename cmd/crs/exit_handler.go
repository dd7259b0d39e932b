package main

import (
	"errors"
	"os"

	"github.com/loykin/crs"
	"github.com/loykin/crs/internal/common"
)

// Exit codes. These values are part of the command line contract.
const (
	ExitOK            = 0 // request made and output written
	ExitFailure       = 1 // anything not classified below
	ExitUsage         = 2 // bad flags or arguments, conflicting output modes, invalid filter pattern or TLS version
	ExitRequestFailed = 3 // DNS, connection, TLS or timeout failure
	ExitHeaderDecode  = 4 // a response header value is not displayable text
	ExitWrite         = 5 // stdout rejected the output
)

// UsageError marks command line mistakes detected before crs starts working.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by the command to its exit code.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage),
		errors.Is(err, crs.ErrConflictingOutputMode),
		errors.Is(err, crs.ErrInvalidPattern),
		errors.Is(err, crs.ErrInvalidTLSVersion):
		return ExitUsage
	case errors.Is(err, crs.ErrRequestFailed):
		return ExitRequestFailed
	case errors.Is(err, crs.ErrHeaderDecode):
		return ExitHeaderDecode
	case errors.Is(err, crs.ErrWrite):
		return ExitWrite
	default:
		return ExitFailure
	}
}

// ExitHandler provides a testable way to handle program termination
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

// DefaultExitHandler implements ExitHandler for production use.
// It logs through whatever default logger is installed when the error occurs.
type DefaultExitHandler struct {
	exit func(int)
}

// NewDefaultExitHandler creates a new default exit handler
func NewDefaultExitHandler() *DefaultExitHandler {
	return &DefaultExitHandler{exit: os.Exit}
}

// Exit terminates the program with the given exit code
func (h *DefaultExitHandler) Exit(code int) {
	if h.exit == nil {
		os.Exit(code)
	}
	h.exit(code)
}

// LogFatalError logs err to stderr and exits with the code for its kind
func (h *DefaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	code := ExitCode(err)
	allKeyvals := append([]any{"error", err, "exit_code", code}, keyvals...)
	common.GetLogger().WithComponent("main").Error(msg, allKeyvals...)
	h.Exit(code)
}

// Global exit handler (can be replaced for testing)
var exitHandler ExitHandler = NewDefaultExitHandler()
