package main

import (
	"context"
	"io"
	"os"

	"github.com/loykin/crs"
	"github.com/loykin/crs/internal/common"
	"github.com/loykin/crs/internal/constants"
	"github.com/loykin/crs/internal/mode"
	"github.com/spf13/cobra"
)

const about = "Make a HTTP request, then sort, filter and display the HTTP response headers."

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crs [flags] <url>",
		Short:         about,
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &UsageError{Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg ConfigDoc
			if err := cfg.Load(cmd); err != nil {
				return &UsageError{Err: err}
			}
			logger, err := cfg.Logger(stderr)
			if err != nil {
				return &UsageError{Err: err}
			}
			common.SetDefaultLogger(logger)

			opts := cfg.Options(cmd, args[0])
			return crs.NewRunner(stdout, logger).Run(cmd.Context(), opts)
		},
	}

	color := mode.ColorAuto
	f := cmd.Flags()
	f.VarP(&color, "color", "c", "when to colorize output: always, auto or never")
	f.StringP("filter", "f", "", "comma-separated list of header name patterns to display")
	f.BoolP("json", "j", false, "output is formatted into JSON")
	f.BoolP("body", "b", false, "also display the response body (not with --json)")
	f.Duration("timeout", constants.DefaultTimeout, "give up on the request after this long")
	f.BoolP("insecure", "k", false, "allow insecure server connections")
	f.String("tls-min-version", "", "minimum TLS version: 1.0, 1.1, 1.2 or 1.3")
	f.String("log-level", constants.DefaultLogLevel, "diagnostics on stderr: error, warn, info or debug")
	f.String("log-format", constants.DefaultLogFormat, "diagnostics format: text or json")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		exitHandler.LogFatalError(err, "crs failed")
	}
}
