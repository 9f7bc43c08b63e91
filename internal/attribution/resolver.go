// Package attribution resolves campaign attribution (campaign, medium, source,
// content) for an engagement event from its custom payload, tracking id and deeplink.
package attribution

import "github.com/gyaneshwarpardhi/pianodispatch/internal/event"

// Tag keys recognised in custom payloads and deeplinks.
const (
	TagATCampaign  = "at_campaign"
	TagATMedium    = "at_medium"
	TagUTMCampaign = "utm_campaign"
	TagUTMMedium   = "utm_medium"
	TagUTMSource   = "utm_source"
	TagUTMContent  = "utm_content"
)

// Fallback values used when no source provides a tag.
const (
	DefaultCampaign = "batch-default-campaign"
	DefaultSource   = "Batch"
	MediumPush      = "push"
	MediumInApp     = "in-app"
)

// Fields is the attribution computed for one event.
type Fields struct {
	Campaign   string
	Medium     string
	Source     string
	Content    string
	HasContent bool
}

// Resolver applies the per-field source order. UTMTracking gates every utm_*
// tag; at_* tags are always honoured.
type Resolver struct {
	UTMTracking bool
}

// Resolve computes all four fields for an event of type t.
func (r Resolver) Resolve(t event.Type, p event.Payload) Fields {
	f := Fields{
		Campaign: r.Campaign(p),
		Medium:   r.Medium(t, p),
		Source:   r.Source(p),
	}
	f.Content, f.HasContent = r.Content(p)
	return f
}

func (r Resolver) Campaign(p event.Payload) string {
	if v, ok := TagValue(p, TagATCampaign); ok {
		return v
	}
	if v, ok := r.utmTag(p, TagUTMCampaign); ok {
		return v
	}
	if v, ok := p.TrackingID(); ok {
		return v
	}
	return DefaultCampaign
}

func (r Resolver) Medium(t event.Type, p event.Payload) string {
	if v, ok := TagValue(p, TagATMedium); ok {
		return v
	}
	if v, ok := r.utmTag(p, TagUTMMedium); ok {
		return v
	}
	if t.IsNotification() {
		return MediumPush
	}
	return MediumInApp
}

func (r Resolver) Source(p event.Payload) string {
	if v, ok := r.utmTag(p, TagUTMSource); ok {
		return v
	}
	return DefaultSource
}

// Content has no default: it is reported only when a utm_content tag exists.
func (r Resolver) Content(p event.Payload) (string, bool) {
	return r.utmTag(p, TagUTMContent)
}

func (r Resolver) utmTag(p event.Payload, tag string) (string, bool) {
	if !r.UTMTracking {
		return "", false
	}
	return TagValue(p, tag)
}

// TagValue looks tag up in the custom payload first, then in the deeplink.
// Custom values are returned verbatim.
func TagValue(p event.Payload, tag string) (string, bool) {
	if v, ok := p.CustomValue(tag); ok {
		return v, true
	}
	link, ok := p.Deeplink()
	if !ok {
		return "", false
	}
	return deeplinkTag(link, tag)
}
