package main

import (
	"fmt"
	"io"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/loykin/crs"
	"github.com/loykin/crs/internal/common"
	"github.com/loykin/crs/internal/httpc"
	"github.com/loykin/crs/internal/mode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigDoc mirrors the command line flags. Keys follow the flag names.
type ConfigDoc struct {
	Color         mode.ColorMode `mapstructure:"color"`
	Filter        string         `mapstructure:"filter"`
	JSON          bool           `mapstructure:"json"`
	Body          bool           `mapstructure:"body"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	Insecure      bool           `mapstructure:"insecure"`
	TLSMinVersion string         `mapstructure:"tls-min-version"`
	LogLevel      string         `mapstructure:"log-level"`
	LogFormat     string         `mapstructure:"log-format"`
}

// Load reads the parsed flags of cmd through a private viper instance.
// Environment variables and config files are deliberately not consulted.
func (c *ConfigDoc) Load(cmd *cobra.Command) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(c, hook); err != nil {
		return fmt.Errorf("decode flags: %w", err)
	}
	if _, err := httpc.ParseTLSVersion(c.TLSMinVersion); err != nil {
		return fmt.Errorf("--tls-min-version: %w", err)
	}
	return nil
}

// Options converts the flags into run options for url. Only flags the user
// actually passed count as explicitly requested.
func (c *ConfigDoc) Options(cmd *cobra.Command, url string) crs.Options {
	opts := crs.Options{
		URL:           url,
		Color:         c.Color,
		ColorSet:      cmd.Flags().Changed("color"),
		JSON:          c.JSON,
		Body:          c.Body,
		Timeout:       c.Timeout,
		Insecure:      c.Insecure,
		TLSMinVersion: c.TLSMinVersion,
	}
	if cmd.Flags().Changed("filter") {
		f := c.Filter
		opts.Filter = &f
	}
	return opts
}

// Level parses the diagnostics log level.
func (c *ConfigDoc) Level() (common.LogLevel, error) {
	return common.ParseLogLevel(c.LogLevel)
}

// Logger builds the diagnostics logger writing to w.
func (c *ConfigDoc) Logger(w io.Writer) (*common.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	format, err := common.ParseLogFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	return common.NewFormatLogger(format, level, w), nil
}
