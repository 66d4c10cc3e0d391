// Package archive owns the in-memory collection of review items and keeps the
// persistent store consistent with it. Every mutation goes through the
// Repository; the presentation layer never touches the collection directly.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/2525Azarashi/manatobi/internal/core"
	"github.com/2525Azarashi/manatobi/internal/storage"
)

// ArchiveKey is the single store key holding the whole serialized collection.
const ArchiveKey = "manatobi_local_archives"

// Repository is the single source of truth for the review item collection.
// All mutations persist the full collection, so the store never lags memory
// by more than one failed write.
type Repository struct {
	store  storage.Store
	logger *slog.Logger

	mu    sync.Mutex
	items map[string]*core.ReviewItem

	listenerMu sync.Mutex
	listeners  []func()
}

// NewRepository creates an empty repository over the given store.
func NewRepository(store storage.Store, logger *slog.Logger) *Repository {
	return &Repository{
		store:  store,
		logger: logger,
		items:  make(map[string]*core.ReviewItem),
	}
}

// Load reads the serialized collection from the store. A missing value or
// malformed data yields an empty collection; neither is ever fatal to the
// caller, the archive just starts fresh.
func (r *Repository) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]*core.ReviewItem)

	raw, ok, err := r.store.Get(ctx, ArchiveKey)
	if err != nil {
		r.logger.Error("failed to read archive from store, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}

	var loaded []*core.ReviewItem
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		r.logger.Error("stored archive is corrupt, starting empty", "error", err)
		return
	}

	for _, item := range loaded {
		if item == nil || item.ID == "" {
			continue
		}
		// Progress is not persisted across runs.
		item.Progress = 0
		r.items[item.ID] = item
	}
}

// Insert adds a new item. The id must not already be present; with ULID
// generation a collision means the id scheme is broken.
func (r *Repository) Insert(ctx context.Context, item *core.ReviewItem) error {
	r.mu.Lock()
	if _, exists := r.items[item.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("insert %q: %w", item.ID, core.ErrDuplicateID)
	}
	r.items[item.ID] = item.Clone()
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return nil
}

// Update applies a partial field change to the item matching id. It returns
// core.ErrNotFound when the id is absent, which callers racing a deletion
// treat as a no-op.
func (r *Repository) Update(ctx context.Context, id string, patch core.Patch) error {
	r.mu.Lock()
	item, exists := r.items[id]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, core.ErrNotFound)
	}
	applyPatch(item, patch)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return nil
}

// Delete removes the item matching id. It is idempotent: deleting an absent
// id leaves the collection unchanged. The returned imageRef is the ownership
// handle the caller must release; the repository does not release it itself.
func (r *Repository) Delete(ctx context.Context, id string) (imageRef string, existed bool) {
	r.mu.Lock()
	item, exists := r.items[id]
	if !exists {
		r.mu.Unlock()
		return "", false
	}
	imageRef = item.ImageRef
	delete(r.items, id)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return imageRef, true
}

// Get returns a copy of the item matching id.
func (r *Repository) Get(id string) (*core.ReviewItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return nil, false
	}
	return item.Clone(), true
}

// Items returns a newest-created-first snapshot of the collection. The
// returned items are copies; mutating them does not touch the archive.
func (r *Repository) Items() []*core.ReviewItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the number of items in the collection.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// OnChange registers fn to be called after every mutation, so the
// presentation layer can re-render.
func (r *Repository) OnChange(fn func()) {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// snapshotLocked clones and sorts the collection. Callers must hold mu.
func (r *Repository) snapshotLocked() []*core.ReviewItem {
	snapshot := make([]*core.ReviewItem, 0, len(r.items))
	for _, item := range r.items {
		snapshot = append(snapshot, item.Clone())
	}
	sort.Slice(snapshot, func(a, b int) bool {
		if !snapshot[a].CreatedAt.Equal(snapshot[b].CreatedAt) {
			return snapshot[a].CreatedAt.After(snapshot[b].CreatedAt)
		}
		return snapshot[a].ID > snapshot[b].ID
	})
	return snapshot
}

// persistLocked serializes the full collection and writes it under ArchiveKey.
// A failed write is logged and swallowed; the in-memory mutation stands.
// Callers must hold mu.
func (r *Repository) persistLocked(ctx context.Context) {
	data, err := json.Marshal(r.snapshotLocked())
	if err != nil {
		r.logger.Error("failed to serialize archive", "error", err)
		return
	}
	if err := r.store.Set(ctx, ArchiveKey, string(data)); err != nil {
		r.logger.Error("failed to persist archive", "error", err)
	}
}

func (r *Repository) notify() {
	r.listenerMu.Lock()
	listeners := make([]func(), len(r.listeners))
	copy(listeners, r.listeners)
	r.listenerMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// applyPatch mutates item according to patch, holding the lifecycle
// invariants: a terminal item accepts only review edits, progress is clamped
// to 0-100, completed items carry a transcription and no error message, and
// failed items carry an error message and no transcription.
func applyPatch(item *core.ReviewItem, patch core.Patch) {
	if patch.Review != nil {
		item.Subject = patch.Review.Subject
		item.Notes = patch.Review.Notes
	}

	if item.Status.Terminal() {
		return
	}

	if patch.Progress != nil {
		item.Progress = clampProgress(*patch.Progress)
	}

	if patch.Status != nil {
		switch *patch.Status {
		case core.StatusCompleted:
			item.Status = core.StatusCompleted
			item.ErrorMessage = ""
			item.Transcription = core.NoTextPlaceholder
			if patch.Transcription != nil && *patch.Transcription != "" {
				item.Transcription = *patch.Transcription
			}
		case core.StatusError:
			item.Status = core.StatusError
			item.Transcription = ""
			item.ErrorMessage = core.GenericExtractionError
			if patch.ErrorMessage != nil && *patch.ErrorMessage != "" {
				item.ErrorMessage = *patch.ErrorMessage
			}
		case core.StatusProcessing:
			// Already processing; nothing to transition.
		}
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
