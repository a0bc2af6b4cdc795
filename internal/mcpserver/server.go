// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Segno catalog queries as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/calloway/segno/internal/apperr"
	"github.com/calloway/segno/internal/catalog"
)

// Server wraps the MCP server with Segno tools.
type Server struct {
	mcp *server.MCPServer
	cat *catalog.Catalog
}

// New creates a new MCP server with all Segno tools registered.
func New(cat *catalog.Catalog) *Server {
	s := &Server{cat: cat}

	s.mcp = server.NewMCPServer(
		"Segno",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("find_scores",
		mcp.WithDescription("List scores matching the given criteria. All criteria are optional and combine with AND."),
		mcp.WithString("title", mcp.Description("Title substring, case-insensitive")),
		mcp.WithString("composer", mcp.Description("Composer substring, case-insensitive")),
		mcp.WithString("category", mcp.Description("Category or full category, case-insensitive exact match")),
		mcp.WithString("timeSignature", mcp.Description("Time signature, exact match (e.g. 4/4)")),
		mcp.WithString("tempo", mcp.Description("Tempo, exact match")),
		mcp.WithString("keySignature", mcp.Description("Key signature, exact match (e.g. Dm)")),
	), s.findScores)

	s.mcp.AddTool(mcp.NewTool("get_score",
		mcp.WithDescription("Get the full score document at the given library path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the score (e.g. ensemble/star-wars.gen)")),
	), s.getScore)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the distinct score categories, sorted."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_composers",
		mcp.WithDescription("List the distinct composers, sorted."),
	), s.listComposers)

	s.mcp.AddTool(mcp.NewTool("search_by_title",
		mcp.WithDescription("Search scores whose title contains the query, case-insensitively."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchByTitle)

	s.mcp.AddTool(mcp.NewTool("search_by_composer",
		mcp.WithDescription("Search scores whose composer contains the query, case-insensitively."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchByComposer)

	s.mcp.AddTool(mcp.NewTool("reload_catalog",
		mcp.WithDescription("Discard the in-memory catalog and rescan the library."),
	), s.reloadCatalog)

	// Resource: score document format.
	s.mcp.AddResource(
		mcp.NewResource("segno://score-format", "Score Document Format",
			mcp.WithResourceDescription("Structure of a notation document: notation body plus trailing metadata block."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readScoreFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// optString reads an optional string argument, defaulting to "".
func optString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func (s *Server) findScores(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := catalog.Filter{
		Title:         optString(req, "title"),
		Composer:      optString(req, "composer"),
		Category:      optString(req, "category"),
		TimeSignature: optString(req, "timeSignature"),
		Tempo:         optString(req, "tempo"),
		KeySignature:  optString(req, "keySignature"),
	}
	scores, err := s.cat.Find(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sc, err := s.cat.ByPath(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values, err := s.cat.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(values) == 0 {
		return mcp.NewToolResultText("no categories found"), nil
	}
	return mcp.NewToolResultText(strings.Join(values, "\n")), nil
}

func (s *Server) listComposers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values, err := s.cat.Composers(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(values) == 0 {
		return mcp.NewToolResultText("no composers found"), nil
	}
	return mcp.NewToolResultText(strings.Join(values, "\n")), nil
}

func (s *Server) searchByTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scores, err := s.cat.SearchByTitle(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchByComposer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scores, err := s.cat.SearchByComposer(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) reloadCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scores, err := s.cat.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("catalog reloaded: %d scores", len(scores))), nil
}

func (s *Server) readScoreFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "segno://score-format",
			MIMEType: "text/markdown",
			Text:     ScoreFormatContract,
		},
	}, nil
}
