package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
)

// HTTPConfig configures delivery to the Piano Analytics collection endpoint.
type HTTPConfig struct {
	// Endpoint is the collection base URL, e.g. "https://logs1412.xiti.com".
	Endpoint string
	Site     string
	// VisitorID is sent as idclient; a random one is generated when empty.
	VisitorID string
	Timeout   time.Duration
}

// HTTPSink posts events to the collection API, one request per event.
type HTTPSink struct {
	client *http.Client
	target string
}

type collectBody struct {
	Events []dispatch.OutputEvent `json:"events"`
}

// NewHTTPSink validates cfg and builds the request target once.
func NewHTTPSink(cfg HTTPConfig, client *http.Client) (*HTTPSink, error) {
	base, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("http sink endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("http sink endpoint %q must be absolute", cfg.Endpoint)
	}
	if cfg.Site == "" {
		return nil, fmt.Errorf("http sink: site is required")
	}
	visitor := cfg.VisitorID
	if visitor == "" {
		visitor = uuid.New().String()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	base = base.JoinPath("event")
	q := base.Query()
	q.Set("s", cfg.Site)
	q.Set("idclient", visitor)
	base.RawQuery = q.Encode()

	return &HTTPSink{client: client, target: base.String()}, nil
}

func (s *HTTPSink) Type() string { return "http" }

func (s *HTTPSink) Send(ctx context.Context, ev dispatch.OutputEvent) error {
	body, err := json.Marshal(collectBody{Events: []dispatch.OutputEvent{ev}})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event %s: %w", ev.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post event %s: unexpected status %d", ev.Name, resp.StatusCode)
	}
	return nil
}
