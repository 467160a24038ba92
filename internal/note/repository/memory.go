package repository

import (
	"context"
	"sort"
	"sync"

	"scrawl/internal/note/model"
)

// MemoryStore keeps notes in process memory. Contents are gone on restart;
// it backs demos, development and tests. Ids keep climbing even after
// deletes, matching the durable store.
type MemoryStore struct {
	mu     sync.RWMutex
	notes  map[int64]model.Note
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[int64]model.Note)}
}

func (s *MemoryStore) List(_ context.Context) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (model.Note, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	return n, ok, nil
}

func (s *MemoryStore) Create(_ context.Context, in model.NewNote) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := model.Now()
	s.nextID++
	n := model.Note{
		ID:             s.nextID,
		Title:          in.Title,
		Content:        in.Content,
		Preview:        in.Preview,
		RecognizedText: in.RecognizedText,
		IsFavorite:     in.IsFavorite,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.notes[n.ID] = n
	return n, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, patch model.NotePatch) (model.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return model.Note{}, false, nil
	}
	n = n.Apply(patch, model.Now())
	s.notes[id] = n
	return n, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}
