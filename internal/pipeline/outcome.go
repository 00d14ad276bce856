package pipeline

import (
	"errors"
	"fmt"

	"github.com/fpang/latex-ocr/internal/auth"
	"github.com/fpang/latex-ocr/internal/chat"
	"github.com/fpang/latex-ocr/internal/config"
	"github.com/fpang/latex-ocr/internal/desktop"
	"github.com/fpang/latex-ocr/internal/filehandler"
)

// Stage is a step of a run, in execution order.
type Stage int

const (
	StageLoadingConfig Stage = iota
	StageValidatingKey
	StageLocatingImage
	StageAwaitingConfirmation
	StageCallingAPI
	StageWritingClipboard
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLoadingConfig:
		return "LoadingConfig"
	case StageValidatingKey:
		return "ValidatingKey"
	case StageLocatingImage:
		return "LocatingImage"
	case StageAwaitingConfirmation:
		return "AwaitingConfirmation"
	case StageCallingAPI:
		return "CallingApi"
	case StageWritingClipboard:
		return "WritingClipboard"
	case StageDone:
		return "Done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Status is how a run terminated.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome is the terminal state of a run.
type Outcome struct {
	Status Status
	// Stage is where the run stopped. StageDone on success.
	Stage Stage
	// Text is the clipboard contents on success.
	Text string
	// Err is the cause when Status is StatusFailed.
	Err error
	// Notification is what was shown (or attempted) to the user.
	Notification desktop.Notification
}

// ExitCode maps the outcome to a process exit status. A cancelled run is
// not a failure.
func (o *Outcome) ExitCode() int {
	if o.Status == StatusFailed {
		return 1
	}
	return 0
}

// ErrNoImages is returned when the image directory holds no matching files.
var ErrNoImages = errors.New("no images found")

// noImagesError carries the directory that was scanned.
type noImagesError struct {
	dir string
}

func (e *noImagesError) Error() string {
	return "No images found in directory: " + e.dir
}

func (e *noImagesError) Is(target error) bool {
	return target == ErrNoImages
}

// failureNotification maps a failure to the notification the user sees.
// The body always carries the underlying message so the cause can be
// diagnosed without logs.
func failureNotification(err error) desktop.Notification {
	n := desktop.Notification{Sound: desktop.SoundFailure, Body: err.Error()}

	var (
		cfgErr     *config.Error
		keyErr     *auth.ValidationError
		scanErr    *filehandler.ScanError
		visionErr  *chat.VisionError
		desktopErr *desktop.Error
	)

	switch {
	case errors.As(err, &cfgErr):
		n.Title = "Configuration Error"
		n.Body = "Error loading configuration: " + err.Error()
	// Checked before keyErr: a rejected key arrives wrapped in a VisionError.
	case errors.As(err, &visionErr):
		n.Title = "API Call Failed"
		n.Body = "Error calling API: " + err.Error()
	case errors.As(err, &keyErr):
		n.Title = "Configuration Error"
		if keyErr.ConfigPath != "" {
			n.Subtitle = keyErr.ConfigPath
		}
	case errors.Is(err, ErrNoImages):
		n.Title = "No images found"
	case errors.As(err, &scanErr):
		if scanErr.Type == filehandler.ErrTypeDirectoryRead {
			n.Title = "Failed to read directory"
		} else {
			n.Title = "Failed to read image"
		}
	case errors.As(err, &desktopErr):
		n.Title = "Error"
		if desktopErr.Op == desktop.OpDialog {
			n.Title = "Confirmation Failed"
		}
	default:
		n.Title = "Error"
	}
	return n
}

func cancelledNotification() desktop.Notification {
	return desktop.Notification{
		Title: "Cancelled request",
		Body:  "Images untouched",
		Sound: desktop.SoundFailure,
	}
}

func successNotification() desktop.Notification {
	return desktop.Notification{
		Title: "LaTeX Conversion Complete",
		Body:  "LaTeX has been copied to clipboard",
		Sound: desktop.SoundSuccess,
	}
}
