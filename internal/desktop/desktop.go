// Package desktop wraps the three OS services the tool talks to: a modal
// yes/no dialog, desktop notifications and the clipboard.
//
// Dialogs and notifications go through ncruces/zenity, which uses the
// native facility on each platform (osascript on macOS, the Win32 API on
// Windows, zenity/kdialog/notify-send elsewhere). The clipboard goes through
// atotto/clipboard.
//
// zenity cannot pick a notification sound. A Sound only selects the icon
// (info or warning) and the platform's default sound plays; Sound.Name is
// for logs.
package desktop

// Op names the service an Error came from.
type Op string

const (
	OpDialog    Op = "dialog"
	OpNotify    Op = "notify"
	OpClipboard Op = "clipboard"
)

// Error is returned when an OS service fails.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	switch e.Op {
	case OpClipboard:
		return "failed to copy to clipboard: " + e.Err.Error()
	case OpNotify:
		return "failed to show notification: " + e.Err.Error()
	default:
		return "failed to show dialog: " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
