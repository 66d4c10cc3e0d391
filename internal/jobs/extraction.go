package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/2525Azarashi/manatobi/internal/archive"
	"github.com/2525Azarashi/manatobi/internal/core"
	"github.com/2525Azarashi/manatobi/internal/imagestore"
)

// ExtractionJob performs one extraction run: it feeds an item's image to the
// OCR engine, streams progress into the repository, and moves the item to its
// terminal state. A failure is captured into the item, never propagated as a
// fault; the user may delete the item mid-run, which makes the remaining
// updates no-ops.
type ExtractionJob struct {
	repo      *archive.Repository
	images    *imagestore.Store
	engine    core.Engine
	languages string
	logger    *slog.Logger
}

// NewExtractionJob creates a new ExtractionJob.
func NewExtractionJob(repo *archive.Repository, images *imagestore.Store, engine core.Engine, languages string, logger *slog.Logger) core.Job {
	if repo == nil {
		panic("repository cannot be nil")
	}
	if images == nil {
		panic("image store cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ExtractionJob{
		repo:      repo,
		images:    images,
		engine:    engine,
		languages: languages,
		logger:    logger,
	}
}

// Run executes the extraction run for item.
func (j *ExtractionJob) Run(ctx context.Context, item *core.ReviewItem) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	onProgress := func(fraction float64) {
		pct := int(math.Round(fraction * 100))
		err := j.repo.Update(ctx, item.ID, core.Patch{Progress: &pct})
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			j.logger.Warn("failed to record extraction progress", "item", item.ID, "error", err)
		}
	}

	imagePath := j.images.Resolve(item.ImageRef)
	text, err := j.engine.Recognize(ctx, imagePath, j.languages, onProgress)
	if err != nil {
		return j.fail(ctx, item, err)
	}
	return j.complete(ctx, item, text)
}

// complete transitions the item to completed, substituting the "no text"
// placeholder when recognition produced only whitespace.
func (j *ExtractionJob) complete(ctx context.Context, item *core.ReviewItem, text string) error {
	transcription := strings.TrimSpace(text)
	if transcription == "" {
		transcription = core.NoTextPlaceholder
	}

	status := core.StatusCompleted
	err := j.repo.Update(ctx, item.ID, core.Patch{
		Status:        &status,
		Transcription: &transcription,
	})
	if errors.Is(err, core.ErrNotFound) {
		// Deleted mid-run; the result is simply dropped.
		j.logger.Debug("item deleted before extraction finished", "item", item.ID)
		return nil
	}
	if err != nil {
		return err
	}

	j.logger.Info("extraction run completed", "item", item.ID, "chars", len(transcription))
	return nil
}

// fail transitions the item to error, keeping the failure local to the item.
func (j *ExtractionJob) fail(ctx context.Context, item *core.ReviewItem, cause error) error {
	message := strings.TrimSpace(cause.Error())
	if message == "" {
		message = core.GenericExtractionError
	}

	status := core.StatusError
	err := j.repo.Update(ctx, item.ID, core.Patch{
		Status:       &status,
		ErrorMessage: &message,
	})
	if errors.Is(err, core.ErrNotFound) {
		j.logger.Debug("item deleted before extraction failed", "item", item.ID)
		return nil
	}
	if err != nil {
		return err
	}

	// The failure is captured into the item's error state; surfacing it to
	// the dispatcher would double-report it.
	j.logger.Warn("extraction run failed", "item", item.ID, "error", cause)
	return nil
}

var _ core.Job = (*ExtractionJob)(nil)
