package event

import "strings"

// Type identifies the kind of engagement event. Values outside the known set
// are kept as-is so that newer SDK event kinds still flow through.
type Type string

const (
	NotificationOpen      Type = "notification_open"
	MessagingShow         Type = "messaging_show"
	MessagingClose        Type = "messaging_close"
	MessagingAutoClose    Type = "messaging_auto_close"
	MessagingCloseError   Type = "messaging_close_error"
	MessagingClick        Type = "messaging_click"
	MessagingWebViewClick Type = "messaging_webview_click"
)

var known = map[Type]struct{}{
	NotificationOpen:      {},
	MessagingShow:         {},
	MessagingClose:        {},
	MessagingAutoClose:    {},
	MessagingCloseError:   {},
	MessagingClick:        {},
	MessagingWebViewClick: {},
}

// ParseType normalises a wire name. Unknown names are returned lowercased, not rejected.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}

// Types returns the known event types in declaration order.
func Types() []Type {
	return []Type{
		NotificationOpen,
		MessagingShow,
		MessagingClose,
		MessagingAutoClose,
		MessagingCloseError,
		MessagingClick,
		MessagingWebViewClick,
	}
}

func (t Type) Known() bool {
	_, ok := known[t]
	return ok
}

func (t Type) IsNotification() bool { return t == NotificationOpen }

// IsMessaging reports whether t belongs to the in-app messaging family.
func (t Type) IsMessaging() bool {
	return t.Known() && t != NotificationOpen
}

func (t Type) String() string { return string(t) }
