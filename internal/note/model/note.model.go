package model

import (
	"strings"
	"time"
)

// DefaultTitle is stored whenever a client supplies an empty or blank title.
const DefaultTitle = "Untitled note"

// Note is one handwritten document: the drawing itself, an optional
// thumbnail, and whatever text recognition produced for it. Content and
// Preview hold encoded raster data the server never inspects.
type Note struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Preview        string    `json:"preview"`
	RecognizedText *string   `json:"recognizedText"`
	IsFavorite     bool      `json:"isFavorite"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewNote carries the fields for an insert, defaults already applied.
type NewNote struct {
	Title          string
	Content        string
	Preview        string
	RecognizedText *string
	IsFavorite     bool
}

// NotePatch is a partial update. Nil fields keep their stored value.
type NotePatch struct {
	Title          *string
	Content        *string
	Preview        *string
	RecognizedText *string
	IsFavorite     *bool
}

// Apply merges the present fields of patch onto n and refreshes UpdatedAt.
// ID and CreatedAt are never touched.
func (n Note) Apply(patch NotePatch, now time.Time) Note {
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Preview != nil {
		n.Preview = *patch.Preview
	}
	if patch.RecognizedText != nil {
		n.RecognizedText = patch.RecognizedText
	}
	if patch.IsFavorite != nil {
		n.IsFavorite = *patch.IsFavorite
	}
	n.UpdatedAt = now
	return n
}

// Now is the repository clock: UTC at millisecond resolution, so stored
// timestamps survive every engine and JSON round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NoteInput is the body of POST /notes and PUT /notes/{id}. Pointer fields
// distinguish keys missing from the payload from zero values.
type NoteInput struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	Preview        *string `json:"preview"`
	RecognizedText *string `json:"recognizedText"`
	IsFavorite     *bool   `json:"isFavorite"`
}

// Validate returns the list of schema violations, empty when the payload is
// acceptable.
func (in NoteInput) Validate() []string {
	var violations []string
	if in.Title == nil {
		violations = append(violations, "title is required and must be a string")
	}
	if in.Content == nil {
		violations = append(violations, "content is required and must be a string")
	}
	return violations
}

// NewNote converts a validated input into insert fields: blank titles become
// DefaultTitle, preview defaults to empty, isFavorite to false and
// recognizedText stays null until recognition has run.
func (in NoteInput) NewNote() NewNote {
	n := NewNote{RecognizedText: in.RecognizedText}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if strings.TrimSpace(n.Title) == "" {
		n.Title = DefaultTitle
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Preview != nil {
		n.Preview = *in.Preview
	}
	if in.IsFavorite != nil {
		n.IsFavorite = *in.IsFavorite
	}
	return n
}

// Patch converts the input into merge fields. Keys absent from the body stay
// nil so the stored values survive; blank titles get the placeholder.
func (in NoteInput) Patch() NotePatch {
	p := NotePatch{
		Title:          in.Title,
		Content:        in.Content,
		Preview:        in.Preview,
		RecognizedText: in.RecognizedText,
		IsFavorite:     in.IsFavorite,
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		title := DefaultTitle
		p.Title = &title
	}
	return p
}

// FavoriteInput is the body of PATCH /notes/{id}/favorite.
type FavoriteInput struct {
	IsFavorite bool `json:"isFavorite"`
}
