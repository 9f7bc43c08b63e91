package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/config"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/engine"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/event"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/metrics"
)

const maxBatchSize = 100

// Reloader re-reads configuration from its source.
type Reloader interface {
	Reload() (*config.Config, error)
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng      *engine.Engine
	reloader Reloader
	logger   *slog.Logger
	mux      *http.ServeMux
}

// settingsPatch is a partial flag update; omitted fields are left unchanged.
type settingsPatch struct {
	EnableCustomEvents    *bool `json:"enable_custom_events"`
	EnableOnSiteAdsEvents *bool `json:"enable_on_site_ads_events"`
	EnableUTMTracking     *bool `json:"enable_utm_tracking"`
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, reloader Reloader, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{eng: eng, reloader: reloader, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/events", h.ingestEvent)
	h.mux.HandleFunc("POST /v1/events/batch", h.ingestBatch)
	h.mux.HandleFunc("POST /v1/events/preview", h.previewEvent)
	h.mux.HandleFunc("GET /v1/settings", h.getSettings)
	h.mux.HandleFunc("PUT /v1/settings", h.putSettings)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /v1/dispatcher", h.dispatcherInfo)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(logger, h.mux)
}

// decodeEvent reads one event and normalises its type, id and receive time.
func decodeEvent(r *http.Request) (*event.Event, error) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		return nil, fmt.Errorf("invalid JSON: %s", err)
	}
	if err := prepare(&ev, time.Now()); err != nil {
		return nil, err
	}
	return &ev, nil
}

func prepare(ev *event.Event, now time.Time) error {
	ev.Type = event.ParseType(string(ev.Type))
	if ev.Type == "" {
		return errors.New("event type is required")
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.ReceivedAt = now
	return nil
}

// POST /v1/events: synchronous single-event dispatch.
func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := decodeEvent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.eng.ProcessSync(r.Context(), ev)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrQueueFull):
			writeError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, engine.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/events/batch: async batch dispatch (up to 100 events).
func (h *Handler) ingestBatch(w http.ResponseWriter, r *http.Request) {
	var events []*event.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(events) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one event")
		return
	}
	if len(events) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(events), maxBatchSize))
		return
	}
	now := time.Now()
	for i, ev := range events {
		if ev == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("events[%d]: null event", i))
			return
		}
		if err := prepare(ev, now); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("events[%d]: %s", i, err))
			return
		}
	}

	jobID := uuid.New().String()
	queued := 0
	for _, ev := range events {
		if h.eng.ProcessAsync(ev) {
			queued++
		}
	}
	if queued < len(events) {
		h.logger.Warn("batch partially rejected", "job_id", jobID, "queued", queued, "total", len(events))
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":   jobID,
		"total":    len(events),
		"queued":   queued,
		"rejected": len(events) - queued,
	})
}

// POST /v1/events/preview: translate without sending.
func (h *Handler) previewEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := decodeEvent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := h.eng.Dispatcher()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_id": ev.ID,
		"type":     ev.Type,
		"flags":    d.Settings().Flags(),
		"events":   d.Preview(ev.Type, ev),
	})
}

// GET /v1/settings
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Dispatcher().Settings().Flags())
}

// PUT /v1/settings: partial flag update, applied atomically.
func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	flags := h.eng.Dispatcher().Settings().Update(func(f *dispatch.Flags) {
		if patch.EnableCustomEvents != nil {
			f.EnableCustomEvents = *patch.EnableCustomEvents
		}
		if patch.EnableOnSiteAdsEvents != nil {
			f.EnableOnSiteAdsEvents = *patch.EnableOnSiteAdsEvents
		}
		if patch.EnableUTMTracking != nil {
			f.EnableUTMTracking = *patch.EnableUTMTracking
		}
	})
	h.logger.Info("dispatcher settings updated",
		"custom_events", flags.EnableCustomEvents,
		"on_site_ads", flags.EnableOnSiteAdsEvents,
		"utm_tracking", flags.EnableUTMTracking,
	)
	writeJSON(w, http.StatusOK, flags)
}

// POST /v1/config/reload: re-read the config file; OnChange hooks apply it.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		writeError(w, http.StatusNotImplemented, "config reload not available")
		return
	}
	cfg, err := h.reloader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"version":  cfg.Version,
		"flags":    h.eng.Dispatcher().Settings().Flags(),
	})
}

// GET /v1/dispatcher: analytics name and version of the dispatcher.
func (h *Handler) dispatcherInfo(w http.ResponseWriter, r *http.Request) {
	d := h.eng.Dispatcher()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    d.Name(),
		"version": d.Version(),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the dispatch queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
