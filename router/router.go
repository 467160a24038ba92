package router

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	mcpserver "github.com/mark3labs/mcp-go/server"

	handler "scrawl/internal/note"
	"scrawl/middleware"
	"scrawl/socket"
)

// Setup builds the full HTTP surface: the note routes, the health probe, the
// websocket event feed and the MCP mount. The {id} pattern only admits
// digits, so /notes/abc falls through to the JSON 404 like any unknown path.
func Setup(notes *handler.NoteHandler, hub *socket.Hub, mcp *mcpserver.MCPServer, corsOrigin string) http.Handler {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// REST API
	r.HandleFunc("/notes", notes.ListNotes).Methods(http.MethodGet)
	r.HandleFunc("/notes", notes.CreateNote).Methods(http.MethodPost)
	r.HandleFunc("/notes/{id:[0-9]+}", notes.GetNote).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id:[0-9]+}", notes.UpdateNote).Methods(http.MethodPut)
	r.HandleFunc("/notes/{id:[0-9]+}", notes.DeleteNote).Methods(http.MethodDelete)
	r.HandleFunc("/notes/{id:[0-9]+}/favorite", notes.SetFavorite).Methods(http.MethodPatch)

	// WebSocket event feed
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		socket.ServeWs(hub, w, req)
	}).Methods(http.MethodGet)

	// MCP endpoint for assistant access
	if mcp != nil {
		r.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcp)).
			Methods(http.MethodPost, http.MethodGet, http.MethodDelete)
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	return middleware.CORS(corsOrigin)(middleware.RequestLogger(r))
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	jsonMessage(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	jsonMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func jsonMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
