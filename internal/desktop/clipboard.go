package desktop

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// ClipboardWriter replaces the clipboard contents.
type ClipboardWriter interface {
	Write(text string) error
}

// Clipboard is the system ClipboardWriter.
type Clipboard struct {
	unsupported bool
	writeAll    func(text string) error
}

// NewClipboard returns a Clipboard backed by atotto/clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{
		unsupported: clipboard.Unsupported,
		writeAll:    clipboard.WriteAll,
	}
}

// Write replaces the whole clipboard with text. Failures are returned, not retried.
func (c *Clipboard) Write(text string) error {
	if c.unsupported {
		return &Error{Op: OpClipboard, Err: errors.New("no clipboard utility available on this system")}
	}
	if err := c.writeAll(text); err != nil {
		return &Error{Op: OpClipboard, Err: err}
	}

	log.Debug().Int("length", len(text)).Msg("Copied result to clipboard")
	return nil
}
