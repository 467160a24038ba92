package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrawl/internal/note/model"
	"scrawl/internal/note/repository"
)

func strPtr(s string) *string { return &s }

func newService() *NoteService {
	// A nil hub exercises the no-feed path used by the seed command.
	return NewNoteService(repository.NewMemoryStore(), nil)
}

func TestSeedFillsAnEmptyStoreOnce(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.NotEmpty(t, n.Title)
		assert.NotEmpty(t, n.Content)
		require.NotNil(t, n.RecognizedText)
		assert.NotEmpty(t, *n.RecognizedText)
	}

	// Seeding again must not duplicate the welcome notes.
	require.NoError(t, svc.Seed(ctx))
	notes, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestSeedLeavesExistingNotesAlone(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, model.NoteInput{Title: strPtr("Mine"), Content: strPtr("data:,")})
	require.NoError(t, err)

	require.NoError(t, svc.Seed(ctx))

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Mine", notes[0].Title)
}

func TestCreateAppliesTitlePlaceholder(t *testing.T) {
	svc := newService()

	note, err := svc.Create(context.Background(), model.NoteInput{
		Title:   strPtr(""),
		Content: strPtr("data:image/png;base64,AA=="),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTitle, note.Title)
}

func TestMutationsOnMissingNotes(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, found, err := svc.Update(ctx, 99, model.NoteInput{Title: strPtr("x"), Content: strPtr("data:,")})
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.SetFavorite(ctx, 99, true)
	require.NoError(t, err)
	assert.False(t, found)

	removed, err := svc.Delete(ctx, 99)
	require.NoError(t, err)
	assert.False(t, removed)
}
