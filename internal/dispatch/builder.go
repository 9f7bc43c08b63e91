package dispatch

import (
	"github.com/gyaneshwarpardhi/pianodispatch/internal/attribution"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/event"
)

// OutputEvent is an analytics event ready for a Sender.
// Data values are either string or bool.
type OutputEvent struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// Build translates one engagement event into zero, one or two output events:
// the on-site ad event (if enabled and the type has a role) followed by the
// custom event (if enabled). It has no side effects.
func Build(t event.Type, p event.Payload, flags Flags) []OutputEvent {
	r := attribution.Resolver{UTMTracking: flags.EnableUTMTracking}
	out := make([]OutputEvent, 0, 2)

	if flags.EnableOnSiteAdsEvents {
		if name, ok := OnSiteAdEventName(t); ok {
			out = append(out, buildOnSiteAd(name, t, p, r))
		}
	}
	if flags.EnableCustomEvents {
		out = append(out, buildCustom(t, p, r))
	}
	return out
}

func buildOnSiteAd(name string, t event.Type, p event.Payload, r attribution.Resolver) OutputEvent {
	return OutputEvent{
		Name: name,
		Data: map[string]interface{}{
			KeyOnSiteType:       OnSiteTypePublisher,
			KeyOnSiteAdvertiser: r.Source(p),
			KeyOnSiteCampaign:   r.Campaign(p),
			KeyOnSiteFormat:     r.Medium(t, p),
		},
	}
}

func buildCustom(t event.Type, p event.Payload, r attribution.Resolver) OutputEvent {
	f := r.Resolve(t, p)
	data := map[string]interface{}{
		KeyCampaign:    f.Campaign,
		KeyMedium:      f.Medium,
		KeySource:      f.Source,
		KeySourceForce: true,
	}
	if f.HasContent {
		data[KeyContent] = f.Content
	}
	if id, ok := p.TrackingID(); ok {
		data[KeyTrackingID] = id
	}
	if t.IsMessaging() {
		if id, ok := p.WebViewAnalyticsID(); ok {
			data[KeyWebViewAnalyticsID] = id
		}
	}
	return OutputEvent{Name: CustomEventName(t), Data: data}
}
