package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"scrawl/internal/note/model"
	"scrawl/internal/note/service"
	"scrawl/pkg/logger"
)

const (
	msgNoteNotFound  = "Note not found"
	msgInvalidBody   = "invalid JSON body"
	msgInternalError = "internal server error"
)

// NoteHandler translates HTTP requests into service calls and domain
// outcomes back into statuses. Nothing below this layer knows about HTTP.
type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: svc}
}

// ListNotes handles GET /notes.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Service.List(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /notes/{id}.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}

	note, found, err := h.Service.Get(r.Context(), id)
	if err != nil {
		logger.Sugar.Errorf("Failed to get note %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	note, err := h.Service.Create(r.Context(), input)
	if err != nil {
		logger.Sugar.Errorf("Failed to create note: %v", err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id}.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}

	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	note, found, err := h.Service.Update(r.Context(), id, input)
	if err != nil {
		logger.Sugar.Errorf("Failed to update note %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// SetFavorite handles PATCH /notes/{id}/favorite.
func (h *NoteHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}

	var input model.FavoriteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	note, found, err := h.Service.SetFavorite(r.Context(), id, input.IsFavorite)
	if err != nil {
		logger.Sugar.Errorf("Failed to set favorite on note %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}

	removed, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete note %d: %v", id, err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !removed {
		writeMessage(w, http.StatusNotFound, msgNoteNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeInput parses and validates a POST/PUT body, writing the 400 response
// itself when the payload is malformed or misses required fields.
func decodeInput(w http.ResponseWriter, r *http.Request) (model.NoteInput, bool) {
	var input model.NoteInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return model.NoteInput{}, false
	}
	if violations := input.Validate(); len(violations) > 0 {
		writeMessage(w, http.StatusBadRequest, strings.Join(violations, "; "))
		return model.NoteInput{}, false
	}
	return input, true
}

// noteID parses the {id} path variable. The route pattern keeps it numeric;
// anything else counts as an id that matches no note.
func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
