package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks required fields, value ranges and sink settings, and reports
// every problem at once.
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %s", err))
	}
	if cfg.Engine.Workers < 0 {
		errs = append(errs, "engine.workers must be positive")
	}
	if cfg.Engine.QueueDepth < 0 {
		errs = append(errs, "engine.queue_depth must be positive")
	}
	if cfg.Engine.EventTimeoutMs < 0 {
		errs = append(errs, "engine.event_timeout_ms must be positive")
	}

	s := cfg.Senders
	if !s.Log.Enabled && !s.HTTP.Enabled && !s.Kafka.Enabled {
		errs = append(errs, "senders: at least one of log/http/kafka must be enabled")
	}
	if s.Log.Enabled {
		if _, err := ParseLevel(s.Log.Level); err != nil {
			errs = append(errs, fmt.Sprintf("senders.log.level: %s", err))
		}
	}
	if s.HTTP.Enabled {
		if s.HTTP.Endpoint == "" {
			errs = append(errs, "senders.http.endpoint is required")
		}
		if s.HTTP.Site == "" {
			errs = append(errs, "senders.http.site is required")
		}
		if s.HTTP.TimeoutMs < 0 {
			errs = append(errs, "senders.http.timeout_ms must be positive")
		}
	}
	if s.Kafka.Enabled {
		if len(s.Kafka.Brokers) == 0 {
			errs = append(errs, "senders.kafka.brokers must not be empty")
		}
		if s.Kafka.Topic == "" {
			errs = append(errs, "senders.kafka.topic is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return lvl, nil
}
