// Package repository owns note persistence. Two backends satisfy the same
// contract and are interchangeable: a volatile in-process store and a
// durable SQL store. Absence is reported through the boolean return, never
// as an error; a non-nil error means the backend itself failed.
package repository

import (
	"context"

	"scrawl/internal/note/model"
)

// Repository is the capability set every note store provides.
//
// List returns all notes ordered by UpdatedAt descending, ties broken by
// higher id; the slice is never nil. Create assigns the next id in this
// store's lifetime and stamps CreatedAt equal to UpdatedAt. Update merges
// the patch onto the stored record and always refreshes UpdatedAt. Delete
// reports whether a record was removed.
type Repository interface {
	List(ctx context.Context) ([]model.Note, error)
	Get(ctx context.Context, id int64) (model.Note, bool, error)
	Create(ctx context.Context, in model.NewNote) (model.Note, error)
	Update(ctx context.Context, id int64, patch model.NotePatch) (model.Note, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
