package dispatch

import "github.com/gyaneshwarpardhi/pianodispatch/internal/event"

// Output event names.
const (
	EventImpression = "publisher.impression"
	EventClick      = "publisher.click"

	NameNotificationOpen      = "batch_notification_open"
	NameMessagingShow         = "batch_in_app_show"
	NameMessagingClose        = "batch_in_app_close"
	NameMessagingAutoClose    = "batch_in_app_auto_close"
	NameMessagingCloseError   = "batch_in_app_close_error"
	NameMessagingClick        = "batch_in_app_click"
	NameMessagingWebViewClick = "batch_in_app_webview_click"
	NameUnknown               = "batch_unknown"
)

// Output event data keys.
const (
	KeyOnSiteType       = "onsitead_type"
	KeyOnSiteAdvertiser = "onsitead_advertiser"
	KeyOnSiteCampaign   = "onsitead_campaign"
	KeyOnSiteFormat     = "onsitead_format"

	KeyCampaign           = "src_campaign"
	KeyMedium             = "src_medium"
	KeySource             = "src_source"
	KeySourceForce        = "src_force"
	KeyContent            = "src_content"
	KeyTrackingID         = "batch_tracking_id"
	KeyWebViewAnalyticsID = "batch_webview_analytics_id"

	OnSiteTypePublisher = "Publisher"
)

var customEventNames = map[event.Type]string{
	event.NotificationOpen:      NameNotificationOpen,
	event.MessagingShow:         NameMessagingShow,
	event.MessagingClose:        NameMessagingClose,
	event.MessagingAutoClose:    NameMessagingAutoClose,
	event.MessagingCloseError:   NameMessagingCloseError,
	event.MessagingClick:        NameMessagingClick,
	event.MessagingWebViewClick: NameMessagingWebViewClick,
}

// Types missing from this table are never sent as on-site ads.
var onSiteAdEventNames = map[event.Type]string{
	event.MessagingShow:         EventImpression,
	event.NotificationOpen:      EventClick,
	event.MessagingClick:        EventClick,
	event.MessagingWebViewClick: EventClick,
}

// CustomEventName returns the custom event name for t, or NameUnknown.
func CustomEventName(t event.Type) string {
	if name, ok := customEventNames[t]; ok {
		return name
	}
	return NameUnknown
}

// OnSiteAdEventName returns the on-site ad event name for t, if t has one.
func OnSiteAdEventName(t event.Type) (string, bool) {
	name, ok := onSiteAdEventNames[t]
	return name, ok
}
