package desktop

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(title, message string) (bool, error)
}

// Dialog is the native Confirmer.
type Dialog struct {
	question func(text string, options ...zenity.Option) error
}

// NewDialog returns a Dialog backed by zenity.
func NewDialog() *Dialog {
	return &Dialog{question: zenity.Question}
}

// Confirm shows a modal question with Yes/No buttons, "No" focused by
// default. Dismissing the dialog counts as "No". There is no timeout.
func (d *Dialog) Confirm(title, message string) (bool, error) {
	err := d.question(message,
		zenity.Title(title),
		zenity.QuestionIcon,
		zenity.OKLabel("Yes"),
		zenity.CancelLabel("No"),
		zenity.DefaultCancel(),
	)

	switch {
	case err == nil:
		log.Debug().Str("title", title).Msg("User confirmed")
		return true, nil
	case errors.Is(err, zenity.ErrCanceled):
		log.Debug().Str("title", title).Msg("User declined")
		return false, nil
	default:
		log.Error().Err(err).Msg("Confirmation dialog failed")
		return false, &Error{Op: OpDialog, Err: err}
	}
}
