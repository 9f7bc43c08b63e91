package sender_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/sender"
)

type failingSink struct{ name string }

func (f failingSink) Type() string { return f.name }

func (f failingSink) Send(context.Context, dispatch.OutputEvent) error {
	return errors.New("boom")
}

var click = dispatch.OutputEvent{Name: "publisher.click", Data: map[string]interface{}{"onsitead_type": "Publisher"}}

func TestRegistry_FanoutContinuesAfterFailure(t *testing.T) {
	rec := sender.NewRecorder()
	reg := sender.NewRegistry()
	reg.Register(failingSink{name: "broken"})
	reg.Register(rec)

	err := reg.Send(context.Background(), click)
	if err == nil || !strings.Contains(err.Error(), "broken: boom") {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if got := rec.Events(); len(got) != 1 || got[0].Name != "publisher.click" {
		t.Errorf("recorder should still receive the event, got %v", got)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := sender.NewRegistry()
	reg.Register(sender.NewRecorder())
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate sink type")
		}
	}()
	reg.Register(sender.NewRecorder())
}

func TestRegistry_GetAndTypes(t *testing.T) {
	reg := sender.NewRegistry()
	reg.Register(sender.NewLogSink(nil, slog.LevelInfo))
	reg.Register(sender.NewRecorder())

	if got := reg.Types(); len(got) != 2 || got[0] != "log" || got[1] != "recorder" {
		t.Errorf("Types() = %v", got)
	}
	if _, err := reg.Get("kafka"); err == nil {
		t.Error("expected error for unregistered sink")
	}
}

func TestRecorder_Reset(t *testing.T) {
	rec := sender.NewRecorder()
	_ = rec.Send(context.Background(), click)
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("expected no events after Reset")
	}
}

func TestLogSink_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	s := sender.NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)), slog.LevelInfo)
	if err := s.Send(context.Background(), click); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "name=publisher.click") {
		t.Errorf("log output missing event name: %s", buf.String())
	}
}

func TestHTTPSink_PostsCollectBody(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  struct {
			Events []dispatch.OutputEvent `json:"events"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := sender.NewHTTPSink(sender.HTTPConfig{Endpoint: srv.URL, Site: "123456", VisitorID: "visitor-1", Timeout: time.Second}, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPSink error: %v", err)
	}
	if err := s.Send(context.Background(), click); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if gotPath != "/event" {
		t.Errorf("path = %q, want /event", gotPath)
	}
	if gotQuery != "idclient=visitor-1&s=123456" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(gotBody.Events) != 1 || gotBody.Events[0].Name != "publisher.click" {
		t.Errorf("body events = %+v", gotBody.Events)
	}
}

func TestHTTPSink_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s, err := sender.NewHTTPSink(sender.HTTPConfig{Endpoint: srv.URL, Site: "1"}, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPSink error: %v", err)
	}
	if err := s.Send(context.Background(), click); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestNewHTTPSink_Validation(t *testing.T) {
	cases := []sender.HTTPConfig{
		{Endpoint: "", Site: "1"},
		{Endpoint: "/relative", Site: "1"},
		{Endpoint: "https://collect.example.com"},
	}
	for _, cfg := range cases {
		if _, err := sender.NewHTTPSink(cfg, nil); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestNewKafkaSink_Validation(t *testing.T) {
	if _, err := sender.NewKafkaSink(nil, "piano-events"); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := sender.NewKafkaSink([]string{"localhost:9092"}, ""); err == nil {
		t.Error("expected error without topic")
	}
	s, err := sender.NewKafkaSink([]string{"localhost:9092"}, "piano-events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Type() != "kafka" {
		t.Errorf("Type() = %q", s.Type())
	}
	_ = s.Close()
}
