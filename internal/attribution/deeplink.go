package attribution

import (
	"net/url"
	"strings"
)

// deeplinkTag looks tag up in the deeplink's query string, then in its fragment.
// A missing, blank or unparsable deeplink yields nothing.
func deeplinkTag(raw, tag string) (string, bool) {
	link := strings.TrimSpace(raw)
	if link == "" {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if v, ok := queryTag(u.RawQuery, tag); ok {
		return v, true
	}
	_, fragment, found := strings.Cut(link, "#")
	if !found {
		return "", false
	}
	return fragmentTag(fragment, tag)
}

// queryTag returns the value of the first query item named tag (case-insensitive).
// An item without "=" carries no value, which ends the query search.
// '+' is kept literally.
func queryTag(rawQuery, tag string) (string, bool) {
	if rawQuery == "" {
		return "", false
	}
	for _, item := range strings.Split(rawQuery, "&") {
		rawName, rawValue, hasValue := strings.Cut(item, "=")
		name, err := url.PathUnescape(rawName)
		if err != nil || !strings.EqualFold(name, tag) {
			continue
		}
		if !hasValue {
			return "", false
		}
		value, err := url.PathUnescape(rawValue)
		if err != nil {
			return "", false
		}
		return value, true
	}
	return "", false
}

// fragmentTag parses fragment as "k=v&k=v" and returns the value for tag.
// Keys are lowercased; a later duplicate overrides an earlier one. A pair with
// no "=" resolves to itself as both key and value.
func fragmentTag(fragment, tag string) (string, bool) {
	want := strings.ToLower(tag)
	var (
		value string
		found bool
	)
	for _, pair := range strings.Split(fragment, "&") {
		rawKey, rawValue, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			rawValue = pair
		}
		key, err := url.PathUnescape(rawKey)
		if err != nil {
			continue
		}
		v, err := url.PathUnescape(rawValue)
		if err != nil {
			continue
		}
		if strings.ToLower(key) == want {
			value, found = v, true
		}
	}
	return value, found
}
