package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/api"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/config"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/engine"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/sender"
)

func main() {
	cfgPath := flag.String("config", "configs/dispatcher.yaml", "Path to dispatcher YAML config")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	flag.Parse()

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath, nil)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Sinks ─────────────────────────────────────────────────────────────────
	reg, err := buildRegistry(cfg.Senders, logger)
	if err != nil {
		slog.Error("failed to build senders", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := reg.Close(); err != nil {
			slog.Warn("closing senders", "err", err)
		}
	}()
	slog.Info("senders ready", "sinks", reg.Types())

	// ── Dispatcher + engine ───────────────────────────────────────────────────
	settings := dispatch.NewSettings(cfg.Dispatcher.Flags())
	d := dispatch.New(settings, reg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, d, cfg.Engine, logger)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	// Only dispatcher flags are applied live; sinks and engine sizing need a restart.
	loader.OnChange(func(newCfg *config.Config) {
		flags := newCfg.Dispatcher.Flags()
		settings.Store(flags)
		slog.Info("dispatcher flags hot-reloaded",
			"version", newCfg.Version,
			"custom_events", flags.EnableCustomEvents,
			"on_site_ads", flags.EnableOnSiteAdsEvents,
			"utm_tracking", flags.EnableUTMTracking,
		)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(eng, loader, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr, "dispatcher", d.Name(), "dispatcher_version", d.Version())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	eng.Shutdown()
	cancel()
	slog.Info("goodbye")
}

func buildRegistry(conf config.SendersConf, logger *slog.Logger) (*sender.Registry, error) {
	reg := sender.NewRegistry()

	if conf.Log.Enabled {
		level, err := config.ParseLevel(conf.Log.Level)
		if err != nil {
			return nil, err
		}
		reg.Register(sender.NewLogSink(logger, level))
	}
	if conf.HTTP.Enabled {
		sink, err := sender.NewHTTPSink(sender.HTTPConfig{
			Endpoint:  conf.HTTP.Endpoint,
			Site:      conf.HTTP.Site,
			VisitorID: conf.HTTP.VisitorID,
			Timeout:   time.Duration(conf.HTTP.TimeoutMs) * time.Millisecond,
		}, nil)
		if err != nil {
			_ = reg.Close()
			return nil, err
		}
		reg.Register(sink)
	}
	if conf.Kafka.Enabled {
		sink, err := sender.NewKafkaSink(conf.Kafka.Brokers, conf.Kafka.Topic)
		if err != nil {
			_ = reg.Close()
			return nil, err
		}
		reg.Register(sink)
	}
	return reg, nil
}
