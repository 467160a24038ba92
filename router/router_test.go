package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "scrawl/internal/note"
	"scrawl/internal/note/model"
	"scrawl/internal/note/repository"
	"scrawl/internal/note/service"
	"scrawl/socket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := socket.NewHub()
	go hub.Run()

	svc := service.NewNoteService(repository.NewMemoryStore(), hub)
	srv := httptest.NewServer(Setup(handler.NewNoteHandler(svc), hub, nil, "*"))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func message(t *testing.T, data []byte) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body["message"]
}

func TestNoteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodPost, "/notes", `{"title": "Test", "content": "data:image/png;base64,AAA="}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Note
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, int64(1), created.ID, "the first note in a fresh store gets id 1")
	assert.Equal(t, "Test", created.Title)
	assert.False(t, created.IsFavorite)
	assert.Nil(t, created.RecognizedText)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	resp, data = do(t, srv, http.MethodPatch, "/notes/1/favorite", `{"isFavorite": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var favored model.Note
	require.NoError(t, json.Unmarshal(data, &favored))
	assert.True(t, favored.IsFavorite)
	assert.True(t, favored.CreatedAt.Equal(created.CreatedAt))

	resp, data = do(t, srv, http.MethodDelete, "/notes/1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, data)

	resp, data = do(t, srv, http.MethodGet, "/notes/1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Note not found", message(t, data))

	resp, data = do(t, srv, http.MethodPost, "/notes", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, message(t, data))
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing content", `{"title": "x"}`},
		{"missing title", `{"content": "data:,"}`},
		{"title wrong type", `{"title": 5, "content": "data:,"}`},
		{"unknown field", `{"title": "x", "content": "data:,", "color": "red"}`},
		{"malformed json", `{"title": `},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodPost, "/notes", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, message(t, data))
		})
	}

	// An empty title is valid and gets the placeholder.
	resp, data := do(t, srv, http.MethodPost, "/notes", `{"title": "", "content": "data:,"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var n model.Note
	require.NoError(t, json.Unmarshal(data, &n))
	assert.Equal(t, model.DefaultTitle, n.Title)
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodPost, "/notes",
		`{"title": "Draft", "content": "data:,v1", "preview": "data:,p1", "recognizedText": "transcript"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Note
	require.NoError(t, json.Unmarshal(data, &created))

	resp, data = do(t, srv, http.MethodPut, "/notes/1", `{"title": "Final", "content": "data:,v2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.Note
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "data:,v2", updated.Content)
	assert.Equal(t, "data:,p1", updated.Preview, "omitted fields keep their stored value")
	require.NotNil(t, updated.RecognizedText)
	assert.Equal(t, "transcript", *updated.RecognizedText)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestRoutesForMissingNotes(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodPut, "/notes/99", `{"title": "x", "content": "data:,"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Note not found", message(t, data))

	resp, data = do(t, srv, http.MethodPatch, "/notes/99/favorite", `{"isFavorite": true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Note not found", message(t, data))

	resp, _ = do(t, srv, http.MethodDelete, "/notes/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Non-numeric ids never match the route pattern.
	resp, _ = do(t, srv, http.MethodGet, "/notes/abc", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFavoriteRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/notes", `{"title": "x", "content": "data:,"}`)

	resp, data := do(t, srv, http.MethodPatch, "/notes/1/favorite", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, message(t, data))
}

func TestListNotes(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)), "an empty store lists as an empty array")

	do(t, srv, http.MethodPost, "/notes", `{"title": "first", "content": "data:,"}`)
	time.Sleep(5 * time.Millisecond)
	do(t, srv, http.MethodPost, "/notes", `{"title": "second", "content": "data:,"}`)

	resp, data = do(t, srv, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var notes []model.Note
	require.NoError(t, json.Unmarshal(data, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Title, "newest first")
	assert.Equal(t, "first", notes[1].Title)
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = do(t, srv, http.MethodOptions, "/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestEventFeedSeesMutations(t *testing.T) {
	srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the subscriber.
	time.Sleep(100 * time.Millisecond)

	resp, _ := do(t, srv, http.MethodPost, "/notes", `{"title": "live", "content": "data:,"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt socket.Event
	require.NoError(t, json.Unmarshal(frame, &evt))
	assert.Equal(t, socket.NoteCreated, evt.Type)

	var note model.Note
	require.NoError(t, json.Unmarshal(evt.Payload, &note))
	assert.Equal(t, int64(1), note.ID)
	assert.Equal(t, "live", note.Title)

	resp, _ = do(t, srv, http.MethodDelete, "/notes/1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err = conn.ReadMessage()
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(frame, &evt))
	assert.Equal(t, socket.NoteDeleted, evt.Type)
	assert.JSONEq(t, `{"id":1}`, string(evt.Payload))
}
