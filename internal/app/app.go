// Package app initializes and orchestrates the main components of the
// application and exposes the operations the presentation layer drives:
// submitting images, browsing the archive, editing review metadata, and
// deleting items.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v6/osfs"

	"github.com/2525Azarashi/manatobi/internal/archive"
	"github.com/2525Azarashi/manatobi/internal/config"
	"github.com/2525Azarashi/manatobi/internal/core"
	"github.com/2525Azarashi/manatobi/internal/db"
	"github.com/2525Azarashi/manatobi/internal/imagestore"
	"github.com/2525Azarashi/manatobi/internal/jobs"
	"github.com/2525Azarashi/manatobi/internal/ocr"
	"github.com/2525Azarashi/manatobi/internal/storage"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	repo       *archive.Repository
	images     *imagestore.Store
	dispatcher core.JobDispatcher
	closeDB    func()
}

// New sets up the application with all its dependencies and loads the
// persisted archive.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Debug("initializing manatobi",
		"data_dir", cfg.DataDir,
		"languages", cfg.Languages,
		"max_workers", cfg.MaxWorkers)

	if err := os.MkdirAll(cfg.ImagesDir(), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	database, closeDB, err := db.NewDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	repo := archive.NewRepository(storage.NewStore(database), logger)
	repo.Load(ctx)

	images := imagestore.New(osfs.New(cfg.ImagesDir()))
	engine := ocr.NewTesseractEngine(cfg.TesseractPath, logger)
	extractionJob := jobs.NewExtractionJob(repo, images, engine, cfg.Languages, logger)
	dispatcher := jobs.NewDispatcher(extractionJob, cfg.MaxWorkers, logger)

	return &App{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		images:     images,
		dispatcher: dispatcher,
		closeDB:    closeDB,
	}, nil
}

// Items returns the archived review items, newest first.
func (a *App) Items() []*core.ReviewItem {
	return a.repo.Items()
}

// Item returns a single review item by id.
func (a *App) Item(id string) (*core.ReviewItem, bool) {
	return a.repo.Get(id)
}

// SubmitImages creates one review item per image and queues one independent
// extraction run each. A file that cannot be read or queued becomes an item
// in error state; it never aborts its siblings.
func (a *App) SubmitImages(ctx context.Context, paths []string) ([]*core.ReviewItem, error) {
	items := make([]*core.ReviewItem, 0, len(paths))
	for _, path := range paths {
		item, err := a.submitImage(ctx, path)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (a *App) submitImage(ctx context.Context, path string) (*core.ReviewItem, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer src.Close()

	id := core.NewID()
	sourceFileName := filepath.Base(path)

	ref, err := a.images.Add(id, sourceFileName, src)
	if err != nil {
		return nil, fmt.Errorf("failed to store image %q: %w", path, err)
	}

	item := core.NewReviewItem(id, ref, sourceFileName)
	if err := a.repo.Insert(ctx, item); err != nil {
		_ = a.images.Release(ref)
		return nil, fmt.Errorf("failed to archive %q: %w", path, err)
	}

	if err := a.dispatcher.Dispatch(ctx, item); err != nil {
		// The item stays in the archive; only its extraction failed to start.
		a.logger.Error("failed to queue extraction run", "item", item.ID, "error", err)
		status := core.StatusError
		message := err.Error()
		_ = a.repo.Update(ctx, item.ID, core.Patch{Status: &status, ErrorMessage: &message})
	}

	return item, nil
}

// DeleteItem removes the item, cancels its in-flight extraction run, and
// releases the image ownership handle. Deleting an absent id is a no-op.
func (a *App) DeleteItem(ctx context.Context, id string) error {
	a.dispatcher.Cancel(id)

	ref, existed := a.repo.Delete(ctx, id)
	if !existed {
		return nil
	}

	if err := a.images.Release(ref); err != nil {
		a.logger.Error("failed to release image", "item", id, "ref", ref, "error", err)
	}
	return nil
}

// EditItem replaces the item's subject and notes together, regardless of its
// lifecycle status.
func (a *App) EditItem(ctx context.Context, id, subject, notes string) error {
	return a.repo.Update(ctx, id, core.Patch{
		Review: &core.ReviewEdit{Subject: subject, Notes: notes},
	})
}

// OnChange registers fn to run after every collection mutation.
func (a *App) OnChange(fn func()) {
	a.repo.OnChange(fn)
}

// Stop shuts the application down, waiting for in-flight extraction runs.
func (a *App) Stop() {
	a.dispatcher.Stop()
	if a.closeDB != nil {
		a.closeDB()
	}
}
