package archive

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2525Azarashi/manatobi/internal/core"
	"github.com/2525Azarashi/manatobi/internal/storage"
)

func newTestRepo() (*Repository, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRepository(store, logger), store
}

func newItem(id string, createdAt time.Time) *core.ReviewItem {
	item := core.NewReviewItem(id, "images/"+id+".jpg", id+".jpg")
	item.CreatedAt = createdAt
	return item
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func statusPtr(s core.Status) *core.Status { return &s }

func TestRepository_InsertRejectsDuplicateID(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Insert(ctx, newItem("a", now)))

	err := repo.Insert(ctx, newItem("a", now))
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	assert.Equal(t, 1, repo.Len())
}

func TestRepository_UpdateAbsentIDIsInert(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))

	err := repo.Update(ctx, "ghost", core.Patch{Progress: intPtr(50)})
	assert.ErrorIs(t, err, core.ErrNotFound)

	items := repo.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 0, items[0].Progress)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))

	ref, existed := repo.Delete(ctx, "a")
	assert.True(t, existed)
	assert.Equal(t, "images/a.jpg", ref)

	ref, existed = repo.Delete(ctx, "a")
	assert.False(t, existed)
	assert.Empty(t, ref)
	assert.Equal(t, 0, repo.Len())
}

func TestRepository_LoadToleratesAbsentValue(t *testing.T) {
	repo, _ := newTestRepo()
	repo.Load(context.Background())
	assert.Empty(t, repo.Items())
}

func TestRepository_LoadToleratesCorruptData(t *testing.T) {
	repo, store := newTestRepo()
	store.Seed(ArchiveKey, `{"this is": not json`)

	repo.Load(context.Background())
	assert.Empty(t, repo.Items())
}

func TestRepository_LoadToleratesStoreError(t *testing.T) {
	repo, store := newTestRepo()
	store.GetErr = assert.AnError

	repo.Load(context.Background())
	assert.Empty(t, repo.Items())
}

func TestRepository_PersistLoadRoundTrip(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()
	base := time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)

	first := newItem("01ARCHIVE000000000000000001", base)
	second := newItem("01ARCHIVE000000000000000002", base.Add(time.Minute))
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	require.NoError(t, repo.Update(ctx, first.ID, core.Patch{
		Status:        statusPtr(core.StatusCompleted),
		Transcription: strPtr("2x + 3 = 7"),
	}))
	require.NoError(t, repo.Update(ctx, first.ID, core.Patch{
		Review: &core.ReviewEdit{Subject: "Math", Notes: "forgot the sign"},
	}))
	require.NoError(t, repo.Update(ctx, second.ID, core.Patch{
		Status:       statusPtr(core.StatusError),
		ErrorMessage: strPtr("timeout"),
	}))

	reloaded := NewRepository(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	reloaded.Load(ctx)

	assert.Equal(t, repo.Items(), reloaded.Items())

	got, ok := reloaded.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.Equal(t, "2x + 3 = 7", got.Transcription)
	assert.Equal(t, "Math", got.Subject)
	assert.Equal(t, "forgot the sign", got.Notes)
	assert.Empty(t, got.ErrorMessage)
}

func TestRepository_ProgressIsNotPersisted(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{Progress: intPtr(60)}))

	reloaded := NewRepository(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	reloaded.Load(ctx)

	got, ok := reloaded.Get("a")
	require.True(t, ok)
	assert.Equal(t, core.StatusProcessing, got.Status)
	assert.Equal(t, 0, got.Progress)
}

func TestRepository_ItemsNewestFirst(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	base := time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, newItem("old", base)))
	require.NoError(t, repo.Insert(ctx, newItem("new", base.Add(time.Hour))))
	require.NoError(t, repo.Insert(ctx, newItem("mid", base.Add(time.Minute))))

	items := repo.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestRepository_ProgressClamping(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "Negative clamps to zero", in: -10, want: 0},
		{name: "In range passes through", in: 42, want: 42},
		{name: "Above hundred clamps", in: 140, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo()
			ctx := context.Background()
			require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))

			require.NoError(t, repo.Update(ctx, "a", core.Patch{Progress: intPtr(tt.in)}))

			got, ok := repo.Get("a")
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Progress)
		})
	}
}

func TestRepository_TerminalItemsIgnoreLifecyclePatches(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Status:        statusPtr(core.StatusCompleted),
		Transcription: strPtr("answer: 42"),
	}))

	// A late progress callback or a second terminal transition must not move
	// the item out of its terminal state.
	require.NoError(t, repo.Update(ctx, "a", core.Patch{Progress: intPtr(10)}))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Status:       statusPtr(core.StatusError),
		ErrorMessage: strPtr("late failure"),
	}))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.Equal(t, "answer: 42", got.Transcription)
	assert.Empty(t, got.ErrorMessage)
}

func TestRepository_EditAllowedOnTerminalItem(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Status:        statusPtr(core.StatusCompleted),
		Transcription: strPtr("original text"),
	}))

	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Review: &core.ReviewEdit{Subject: "Math", Notes: "forgot the sign"},
	}))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Math", got.Subject)
	assert.Equal(t, "forgot the sign", got.Notes)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.Equal(t, "original text", got.Transcription)
}

func TestRepository_EditReplacesBothFields(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Review: &core.ReviewEdit{Subject: "Math", Notes: "forgot the sign"},
	}))

	// The edit contract takes both fields as one atomic patch: an edit
	// carrying only a subject clears the notes.
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Review: &core.ReviewEdit{Subject: "Physics"},
	}))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Physics", got.Subject)
	assert.Empty(t, got.Notes)
}

func TestRepository_CompletedWithEmptyTextGetsPlaceholder(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{
		Status: statusPtr(core.StatusCompleted),
	}))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, core.NoTextPlaceholder, got.Transcription)
}

func TestRepository_PersistFailureKeepsMemoryMutation(t *testing.T) {
	repo, store := newTestRepo()
	ctx := context.Background()
	store.SetErr = assert.AnError

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestRepository_NotifiesOnEveryMutation(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	var calls int
	repo.OnChange(func() { calls++ })

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))
	require.NoError(t, repo.Update(ctx, "a", core.Patch{Progress: intPtr(20)}))
	repo.Delete(ctx, "a")

	assert.Equal(t, 3, calls)
}

func TestRepository_ItemsReturnsCopies(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newItem("a", time.Now().UTC())))

	repo.Items()[0].Subject = "tampered"

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Empty(t, got.Subject)
}
