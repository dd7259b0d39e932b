package constants

import "time"

// Version is reported by --version and in the default User-Agent.
const Version = "1.0.0"

// Request defaults
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "crs/" + Version
	MaxRedirects     = 10
)

// Flag defaults
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)
