package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/config"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
)

const sample = `
version: v1
dispatcher:
  enable_custom_events: true
  enable_utm_tracking: false
senders:
  log:
    enabled: true
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Engine.Workers != 8 || cfg.Engine.QueueDepth != 10000 || cfg.Engine.EventTimeoutMs != 5000 {
		t.Errorf("engine defaults not applied: %+v", cfg.Engine)
	}
	want := dispatch.Flags{EnableCustomEvents: true, EnableOnSiteAdsEvents: true, EnableUTMTracking: false}
	if got := cfg.Dispatcher.Flags(); got != want {
		t.Errorf("Flags() = %+v, want %+v", got, want)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestDispatcherConf_EmptyUsesDefaults(t *testing.T) {
	if got := (config.DispatcherConf{}).Flags(); got != dispatch.DefaultFlags() {
		t.Errorf("Flags() = %+v, want defaults", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{name: "missing version", yaml: "senders: {log: {enabled: true}}", want: "version is required"},
		{name: "no sinks", yaml: "version: v1", want: "at least one of log/http/kafka"},
		{name: "bad log level", yaml: "version: v1\nlog: {level: loud}\nsenders: {log: {enabled: true}}", want: "log.level"},
		{name: "http without site", yaml: "version: v1\nsenders: {http: {enabled: true, endpoint: 'https://x'}}", want: "senders.http.site"},
		{name: "kafka without brokers", yaml: "version: v1\nsenders: {kafka: {enabled: true, topic: t}}", want: "senders.kafka.brokers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tc.yaml))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			err = config.Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestLoader_ReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatcher.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	l, err := config.NewLoader(path, nil)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}

	var got *config.Config
	l.OnChange(func(c *config.Config) { got = c })

	updated := strings.Replace(sample, "enable_utm_tracking: false", "enable_utm_tracking: true", 1)
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if got == nil || !got.Dispatcher.Flags().EnableUTMTracking {
		t.Errorf("OnChange not called with updated config: %+v", got)
	}
	if l.Config() != got {
		t.Error("Config() should return the reloaded config")
	}
}

func TestLoader_ReloadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatcher.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	l, err := config.NewLoader(path, nil)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	before := l.Config()

	if err := os.WriteFile(path, []byte("version: ''\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Reload(); err == nil {
		t.Fatal("expected Reload to fail for invalid config")
	}
	if l.Config() != before {
		t.Error("invalid reload must keep the previous config")
	}
}

func TestNewLoader_MissingFile(t *testing.T) {
	if _, err := config.NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
