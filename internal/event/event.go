package event

import "time"

// Payload is the read-only view of an engagement event's data.
// Implementations are owned by the caller; the dispatcher never mutates them.
type Payload interface {
	TrackingID() (string, bool)
	Deeplink() (string, bool)
	WebViewAnalyticsID() (string, bool)
	// CustomValue looks up key in the custom payload (exact, case-sensitive match).
	CustomValue(key string) (string, bool)
}

// Event is the canonical wire model for incoming engagement events.
type Event struct {
	ID                 string                 `json:"id"`
	Type               Type                   `json:"type"`
	TrackingId         *string                `json:"tracking_id,omitempty"`
	DeeplinkURL        *string                `json:"deeplink,omitempty"`
	WebViewAnalyticsId *string                `json:"webview_analytics_id,omitempty"`
	CustomPayload      map[string]interface{} `json:"custom_payload,omitempty"`
	OccurredAt         time.Time              `json:"occurred_at"`
	ReceivedAt         time.Time              `json:"-"`
}

var _ Payload = (*Event)(nil)

func (e *Event) TrackingID() (string, bool)         { return deref(e.TrackingId) }
func (e *Event) Deeplink() (string, bool)           { return deref(e.DeeplinkURL) }
func (e *Event) WebViewAnalyticsID() (string, bool) { return deref(e.WebViewAnalyticsId) }

// CustomValue only reports string values; other JSON types are treated as absent.
func (e *Event) CustomValue(key string) (string, bool) {
	if e.CustomPayload == nil {
		return "", false
	}
	s, ok := e.CustomPayload[key].(string)
	return s, ok
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
