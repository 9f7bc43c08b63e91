package config

import "github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"

// Config is the top-level YAML structure.
type Config struct {
	Version    string         `yaml:"version"`
	Server     ServerConf     `yaml:"server"`
	Log        LogConf        `yaml:"log"`
	Dispatcher DispatcherConf `yaml:"dispatcher"`
	Engine     EngineConf     `yaml:"engine"`
	Senders    SendersConf    `yaml:"senders"`
}

type ServerConf struct {
	Addr string `yaml:"addr"`
}

type LogConf struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// DispatcherConf uses pointers so an omitted flag keeps its default.
type DispatcherConf struct {
	EnableCustomEvents    *bool `yaml:"enable_custom_events"`
	EnableOnSiteAdsEvents *bool `yaml:"enable_on_site_ads_events"`
	EnableUTMTracking     *bool `yaml:"enable_utm_tracking"`
}

// Flags resolves the configured flags against the dispatcher defaults.
func (d DispatcherConf) Flags() dispatch.Flags {
	f := dispatch.DefaultFlags()
	if d.EnableCustomEvents != nil {
		f.EnableCustomEvents = *d.EnableCustomEvents
	}
	if d.EnableOnSiteAdsEvents != nil {
		f.EnableOnSiteAdsEvents = *d.EnableOnSiteAdsEvents
	}
	if d.EnableUTMTracking != nil {
		f.EnableUTMTracking = *d.EnableUTMTracking
	}
	return f
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	Workers        int `yaml:"workers"`
	QueueDepth     int `yaml:"queue_depth"`
	EventTimeoutMs int `yaml:"event_timeout_ms"`
}

type SendersConf struct {
	Log   LogSinkConf   `yaml:"log"`
	HTTP  HTTPSinkConf  `yaml:"http"`
	Kafka KafkaSinkConf `yaml:"kafka"`
}

type LogSinkConf struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

type HTTPSinkConf struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Site      string `yaml:"site"`
	VisitorID string `yaml:"visitor_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type KafkaSinkConf struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}
