package service

import (
	"context"
	"encoding/json"
	"fmt"

	"scrawl/internal/note/model"
	"scrawl/internal/note/repository"
	"scrawl/pkg/logger"
	"scrawl/socket"
)

// NoteService sits between the HTTP layer and the store: it turns validated
// inputs into repository calls and publishes change events to the live feed.
type NoteService struct {
	Repo repository.Repository
	Hub  *socket.Hub
}

// NewNoteService wires a service to its store. Hub may be nil when no feed
// is running, e.g. in the seed command and in tests.
func NewNoteService(repo repository.Repository, hub *socket.Hub) *NoteService {
	return &NoteService{Repo: repo, Hub: hub}
}

func (s *NoteService) List(ctx context.Context) ([]model.Note, error) {
	return s.Repo.List(ctx)
}

func (s *NoteService) Get(ctx context.Context, id int64) (model.Note, bool, error) {
	return s.Repo.Get(ctx, id)
}

func (s *NoteService) Create(ctx context.Context, in model.NoteInput) (model.Note, error) {
	note, err := s.Repo.Create(ctx, in.NewNote())
	if err != nil {
		return model.Note{}, err
	}
	s.publish(socket.NoteCreated, note)
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id int64, in model.NoteInput) (model.Note, bool, error) {
	note, ok, err := s.Repo.Update(ctx, id, in.Patch())
	if err != nil || !ok {
		return model.Note{}, ok, err
	}
	s.publish(socket.NoteUpdated, note)
	return note, true, nil
}

func (s *NoteService) SetFavorite(ctx context.Context, id int64, favorite bool) (model.Note, bool, error) {
	note, ok, err := s.Repo.Update(ctx, id, model.NotePatch{IsFavorite: &favorite})
	if err != nil || !ok {
		return model.Note{}, ok, err
	}
	s.publish(socket.NoteUpdated, note)
	return note, true, nil
}

func (s *NoteService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.Repo.Delete(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.publish(socket.NoteDeleted, map[string]int64{"id": id})
	return true, nil
}

func (s *NoteService) publish(eventType string, payload any) {
	if s.Hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	s.Hub.Broadcast <- socket.Event{Type: eventType, Payload: data}
}

// Seed inserts the welcome notes into an empty store. A store that already
// holds notes is left alone.
func (s *NoteService) Seed(ctx context.Context) error {
	existing, err := s.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, n := range welcomeNotes() {
		if _, err := s.Repo.Create(ctx, n); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// welcomeNotes is the sample content a fresh store starts with. A 1x1
// placeholder raster keeps the payloads tiny.
func welcomeNotes() []model.NewNote {
	const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	welcome := "Welcome! Draw a note on the canvas, then run recognition to make it searchable."
	tips := "Star a note to keep it close. Recognized text is stored alongside the drawing."
	return []model.NewNote{
		{Title: "Welcome to scrawl", Content: pixel, Preview: pixel, RecognizedText: &welcome},
		{Title: "Tips for getting around", Content: pixel, Preview: pixel, RecognizedText: &tips, IsFavorite: true},
	}
}
