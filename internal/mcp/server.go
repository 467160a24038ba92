package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scrawl/internal/note/model"
	"scrawl/internal/note/service"
)

// NewServer exposes read-only note tools over MCP so assistants can browse
// what the user has written. Raster payloads are withheld from tool output;
// the recognized text carries the useful signal.
func NewServer(svc *service.NoteService) *server.MCPServer {
	s := server.NewMCPServer(
		"scrawl",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes, newest first: titles, favorite flags and recognized text. Drawing data is omitted."),
			mcp.WithBoolean("favorite",
				mcp.Description("Only return notes whose favorite flag matches; omit for all notes"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: 50)"),
			),
		),
		handleListNotes(svc),
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a single note by its numeric id."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("The note id"),
			),
		),
		handleGetNote(svc),
	)

	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Case-insensitive substring search over note titles and recognized text."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to look for"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: 50)"),
			),
		),
		handleSearchNotes(svc),
	)

	return s
}

// NoteResult is a note as presented to assistants: metadata and recognized
// text, never the raster blobs.
type NoteResult struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	RecognizedText *string   `json:"recognizedText"`
	IsFavorite     bool      `json:"isFavorite"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func handleListNotes(svc *service.NoteService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 50)
		if limit <= 0 {
			return mcp.NewToolResultError("limit must be positive"), nil
		}

		notes, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}

		// favorite is tri-state: absent means no filter.
		if raw, ok := req.GetArguments()["favorite"]; ok {
			want, ok := raw.(bool)
			if !ok {
				return mcp.NewToolResultError("favorite must be a boolean"), nil
			}
			kept := notes[:0]
			for _, n := range notes {
				if n.IsFavorite == want {
					kept = append(kept, n)
				}
			}
			notes = kept
		}
		if len(notes) > limit {
			notes = notes[:limit]
		}

		data, err := json.MarshalIndent(toResults(notes), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal notes: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetNote(svc *service.NoteService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetInt("id", 0)
		if id <= 0 {
			return mcp.NewToolResultError("id is required and must be a positive integer"), nil
		}

		note, found, err := svc.Get(ctx, int64(id))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
		}

		data, err := json.MarshalIndent(toResult(note), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal note: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleSearchNotes(svc *service.NoteService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := req.GetInt("limit", 50)
		if limit <= 0 {
			return mcp.NewToolResultError("limit must be positive"), nil
		}

		notes, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search notes: %v", err)), nil
		}

		needle := strings.ToLower(query)
		matches := make([]model.Note, 0)
		for _, n := range notes {
			if len(matches) == limit {
				break
			}
			if matchesNote(n, needle) {
				matches = append(matches, n)
			}
		}

		data, err := json.MarshalIndent(toResults(matches), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal notes: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func matchesNote(n model.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) {
		return true
	}
	return n.RecognizedText != nil && strings.Contains(strings.ToLower(*n.RecognizedText), needle)
}

func toResult(n model.Note) NoteResult {
	return NoteResult{
		ID:             n.ID,
		Title:          n.Title,
		RecognizedText: n.RecognizedText,
		IsFavorite:     n.IsFavorite,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func toResults(notes []model.Note) []NoteResult {
	results := make([]NoteResult, len(notes))
	for i, n := range notes {
		results[i] = toResult(n)
	}
	return results
}
