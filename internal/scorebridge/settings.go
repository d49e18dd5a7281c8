package scorebridge

import (
	"time"

	"github.com/kingrea/tastematch/internal/config"
)

// Request limits. They are fixed; only the bind address is configurable.
const (
	DefaultMaxBodyBytes   int64 = 64 << 10
	DefaultRequestTimeout       = 15 * time.Second
	DefaultIdleTimeout          = time.Minute
)

// Settings is what the sink needs to bind and to bound requests.
type Settings struct {
	Enabled        bool
	Addr           string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	IdleTimeout    time.Duration
}

// SettingsFromConfig maps the project's sink section onto server settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Enabled:        cfg.SinkEnabled(),
		Addr:           cfg.SinkAddress(),
		MaxBodyBytes:   DefaultMaxBodyBytes,
		RequestTimeout: DefaultRequestTimeout,
		IdleTimeout:    DefaultIdleTimeout,
	}
}

// URL is the base URL a reporter uses to reach the sink.
func (s Settings) URL() string {
	return "http://" + s.Addr
}

func (s Settings) bodyLimit() int64 {
	if s.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return s.MaxBodyBytes
}
