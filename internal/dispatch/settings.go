package dispatch

import (
	"sync"
	"sync/atomic"
)

// Flags are the three independent toggles that shape dispatch output.
type Flags struct {
	EnableCustomEvents    bool `json:"enable_custom_events"`
	EnableOnSiteAdsEvents bool `json:"enable_on_site_ads_events"`
	EnableUTMTracking     bool `json:"enable_utm_tracking"`
}

// DefaultFlags: custom events off, on-site ads on, UTM tracking on.
func DefaultFlags() Flags {
	return Flags{
		EnableCustomEvents:    false,
		EnableOnSiteAdsEvents: true,
		EnableUTMTracking:     true,
	}
}

// Settings is the shared, mutable flag set handed to a Dispatcher.
// Reads are lock-free snapshots; writers are serialised so per-flag setters
// never lose a concurrent update.
type Settings struct {
	wmu   sync.Mutex
	flags atomic.Pointer[Flags]
}

// NewSettings creates Settings holding f.
func NewSettings(f Flags) *Settings {
	s := &Settings{}
	s.flags.Store(&f)
	return s
}

// Flags returns a consistent snapshot of all three flags.
func (s *Settings) Flags() Flags {
	return *s.flags.Load()
}

// Store replaces all flags at once.
func (s *Settings) Store(f Flags) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.flags.Store(&f)
}

// Update applies fn to a copy of the current flags and stores the result.
func (s *Settings) Update(fn func(*Flags)) Flags {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	f := *s.flags.Load()
	fn(&f)
	s.flags.Store(&f)
	return f
}

func (s *Settings) SetCustomEvents(on bool) {
	s.Update(func(f *Flags) { f.EnableCustomEvents = on })
}

func (s *Settings) SetOnSiteAdsEvents(on bool) {
	s.Update(func(f *Flags) { f.EnableOnSiteAdsEvents = on })
}

func (s *Settings) SetUTMTracking(on bool) {
	s.Update(func(f *Flags) { f.EnableUTMTracking = on })
}
