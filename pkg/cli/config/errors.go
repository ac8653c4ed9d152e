package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrInvalidTimezone   = goerr.New("invalid timezone")
	ErrInvalidPlatform   = goerr.New("invalid platform")
	ErrInvalidBackend    = goerr.New("invalid repository backend")
	ErrMissingCredential = goerr.New("required credential is missing")
	ErrInvalidSchedule   = goerr.New("invalid cron schedule")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	PlatformKey   = "platform"
	TimezoneKey   = "timezone"
	BackendKey    = "backend"
	FlagKey       = "flag"
	ScheduleKey   = "schedule"
)
