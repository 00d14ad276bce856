package desktop

import (
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// Sound is the tone of a notification.
type Sound int

const (
	SoundSuccess Sound = iota
	SoundFailure
)

// Name returns the macOS system sound associated with s.
func (s Sound) Name() string {
	if s == SoundSuccess {
		return "Glass"
	}
	return "Blow"
}

// Notification is one desktop notification.
type Notification struct {
	Title    string
	Subtitle string
	Body     string
	Sound    Sound
}

// Text returns the notification body with the subtitle, when present, on
// its own first line.
func (n Notification) Text() string {
	if n.Subtitle == "" {
		return n.Body
	}
	return n.Subtitle + "\n" + n.Body
}

// Notifier shows a notification.
type Notifier interface {
	Notify(n Notification) error
}

// Notifications is the native Notifier.
type Notifications struct {
	notify func(text string, options ...zenity.Option) error
}

// NewNotifications returns a Notifier backed by zenity.
func NewNotifications() *Notifications {
	return &Notifications{notify: zenity.Notify}
}

// Notify shows n. The sound hint selects the icon; zenity has no way to
// pick a system sound, so the platform default plays.
func (c *Notifications) Notify(n Notification) error {
	icon := zenity.InfoIcon
	if n.Sound == SoundFailure {
		icon = zenity.WarningIcon
	}

	if err := c.notify(n.Text(), zenity.Title(n.Title), icon); err != nil {
		return &Error{Op: OpNotify, Err: err}
	}

	log.Debug().
		Str("title", n.Title).
		Str("sound", n.Sound.Name()).
		Msg("Notification shown")
	return nil
}
