// Package pipeline runs one conversion: load config, find the newest image,
// confirm with the user, send it to the model and copy the result.
//
// Every run ends in exactly one notification, whether it succeeds, is
// cancelled, or fails at any stage.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/latex-ocr/internal/auth"
	"github.com/fpang/latex-ocr/internal/chat"
	"github.com/fpang/latex-ocr/internal/config"
	"github.com/fpang/latex-ocr/internal/desktop"
	"github.com/fpang/latex-ocr/internal/filehandler"
	"github.com/fpang/latex-ocr/internal/logging"
	"github.com/fpang/latex-ocr/internal/textutil"
)

const confirmTitle = "Confirm Image Processing"

// ConfigLoader supplies the configuration for a run.
type ConfigLoader interface {
	Load() (*config.Config, error)
	Path() string
}

// AnalyzerFactory builds the model backend for a provider.
type AnalyzerFactory func(ctx context.Context, provider, apiKey string) (chat.Analyzer, error)

// Runner holds the collaborators of a run. All fields are required except
// Version and Metadata.
type Runner struct {
	Config      ConfigLoader
	Confirmer   desktop.Confirmer
	Notifier    desktop.Notifier
	Clipboard   desktop.ClipboardWriter
	NewAnalyzer AnalyzerFactory

	// Metadata reads EXIF data for the confirmation message. Nil disables it.
	Metadata func(path string) (*filehandler.ImageMetadata, error)

	Version string
}

// NewRunner returns a Runner wired to the native desktop services.
func NewRunner(store *config.Store, version string) *Runner {
	return &Runner{
		Config:      store,
		Confirmer:   desktop.NewDialog(),
		Notifier:    desktop.NewNotifications(),
		Clipboard:   desktop.NewClipboard(),
		NewAnalyzer: chat.NewAnalyzer,
		Metadata:    filehandler.ExtractImageMetadata,
		Version:     version,
	}
}

// run is the state of a single invocation.
type run struct {
	*Runner
	log          zerolog.Logger
	summary      *logging.RunSummary
	stage        Stage
	stageStarted time.Time
}

// Run performs one full conversion and notifies the user of the result.
// It never returns nil.
func (r *Runner) Run(ctx context.Context) *Outcome {
	summary := logging.NewRunSummary(uuid.NewString()).Version(r.Version)
	x := &run{
		Runner:  r,
		log:     log.With().Str("run_id", summary.RunID()).Logger(),
		summary: summary,
	}

	text, cancelled, err := x.execute(ctx)
	x.endStage()

	out := &Outcome{Stage: x.stage}
	switch {
	case err != nil:
		out.Status = StatusFailed
		out.Err = err
		out.Notification = failureNotification(err)
		x.log.Error().Err(err).Stringer("stage", x.stage).Msg("Run failed")
	case cancelled:
		out.Status = StatusCancelled
		out.Notification = cancelledNotification()
		x.log.Info().Msg("User declined, image untouched")
	default:
		out.Status = StatusSucceeded
		out.Text = text
		out.Notification = successNotification()
	}

	x.notify(out.Notification)
	x.summary.Outcome(out.Status.String(), err).Log()
	return out
}

// execute walks the stages in order. It returns the clipboard text on
// success, cancelled=true when the user declined, or the first error.
func (x *run) execute(ctx context.Context) (string, bool, error) {
	x.enter(StageLoadingConfig)
	cfg, err := x.Config.Load()
	if err != nil {
		return "", false, err
	}
	x.summary.
		Config("provider", cfg.Provider).
		Config("model", cfg.Model).
		Config("image_directory", cfg.ImageDirectory).
		Feature("stripCodeFences", cfg.StripCodeFences).
		Feature("downscale", cfg.MaxImageEdge > 0)

	x.enter(StageValidatingKey)
	apiKey, err := auth.ResolveAPIKey(cfg.APIKey, x.Config.Path())
	if err != nil {
		return "", false, err
	}

	x.enter(StageLocatingImage)
	dir, err := cfg.ImageDirectoryExpanded()
	if err != nil {
		return "", false, &filehandler.ScanError{Type: filehandler.ErrTypeDirectoryRead, Path: cfg.ImageDirectory, Err: err}
	}
	candidate, err := filehandler.FindMostRecent(dir)
	if err != nil {
		return "", false, err
	}
	if candidate == nil {
		return "", false, &noImagesError{dir: dir}
	}
	img, err := filehandler.ReadImage(candidate.Path, cfg.MaxImageEdge)
	if err != nil {
		return "", false, err
	}
	x.summary.Config("image", img.Path)
	if img.Resized {
		x.log.Info().
			Int("original_bytes", img.OriginalSize).
			Int("upload_bytes", len(img.Data)).
			Msg("Downscaled image before upload")
	}

	x.enter(StageAwaitingConfirmation)
	ok, err := x.Confirmer.Confirm(confirmTitle, x.confirmationMessage(candidate))
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", true, nil
	}

	x.enter(StageCallingAPI)
	analyzer, err := x.NewAnalyzer(ctx, cfg.Provider, apiKey)
	if err != nil {
		return "", false, &chat.VisionError{Type: chat.ErrTypeTransport, Message: "failed to create API client", Err: err}
	}
	text, err := analyzer.Analyze(ctx, &chat.Request{
		Model:     cfg.Model,
		Prompt:    cfg.Prompt,
		MediaType: img.MediaType,
		Image:     img.Data,
	})
	if err != nil {
		return "", false, err
	}
	if cfg.StripCodeFences {
		text = textutil.StripMarkdownFences(text)
	}
	x.log.Info().Int("length", len(text)).Msg("Received model output")

	x.enter(StageWritingClipboard)
	if err := x.Clipboard.Write(text); err != nil {
		return "", false, err
	}

	x.enter(StageDone)
	return text, false, nil
}

// enter closes the timing of the current stage and starts s.
func (x *run) enter(s Stage) {
	if !x.stageStarted.IsZero() {
		x.endStage()
	}
	x.stage = s
	x.stageStarted = time.Now()
	x.log.Debug().Stringer("stage", s).Msg("Entering stage")
}

func (x *run) endStage() {
	if x.stage == StageDone || x.stageStarted.IsZero() {
		return
	}
	x.summary.Stage(x.stage.String(), time.Since(x.stageStarted))
	x.stageStarted = time.Time{}
}

// confirmationMessage shows the candidate path, its modification time and,
// when the file carries EXIF data, the capture date.
func (x *run) confirmationMessage(c *filehandler.ImageCandidate) string {
	var b strings.Builder
	b.WriteString(c.Path)
	fmt.Fprintf(&b, "\n\nModified: %s", c.LastModified.Local().Format("2006-01-02 15:04:05"))

	if x.Metadata == nil {
		return b.String()
	}
	meta, err := x.Metadata(c.Path)
	if err != nil {
		x.log.Debug().Err(err).Str("path", c.Path).Msg("No EXIF metadata")
		return b.String()
	}
	if meta.HasDate {
		fmt.Fprintf(&b, "\nTaken: %s", meta.DateTaken.Local().Format("2006-01-02 15:04:05"))
	}
	if camera := meta.Camera(); camera != "" {
		fmt.Fprintf(&b, "\nCamera: %s", camera)
	}
	return b.String()
}

// notify shows n. A delivery failure is logged and does not change the
// outcome of the run.
func (x *run) notify(n desktop.Notification) {
	if err := x.Notifier.Notify(n); err != nil {
		x.log.Warn().Err(err).Str("title", n.Title).Msg("Failed to show notification")
	}
}
