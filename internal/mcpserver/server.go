// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only catalog tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"promptvault/internal/catalog"
	"promptvault/internal/models"
)

// Server wraps the MCP server with catalog tools. All tools are read-only:
// mutations stay behind the HTTP admin gate.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"PromptVault",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_catalog",
		mcp.WithDescription("Search catalog items by free text. Every whitespace-separated "+
			"term must match the title, description, category, or a tag."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("category", mcp.Description("Optional category filter (default all)")),
	), s.searchCatalog)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Fetch a single catalog item by its identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item identifier")),
	), s.getItem)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all catalog categories."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("catalog_stats",
		mcp.WithDescription("Summarize the catalog: item, category, message, and visit counts."),
	), s.catalogStats)

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

func (s *Server) searchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category := models.CategoryAll
	if c, err := req.RequireString("category"); err == nil && c != "" {
		category = c
	}

	items := s.svc.Query(category, query)
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.svc.GetItem(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.svc.Snapshot()
	out, _ := json.MarshalIndent(st.Categories, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) catalogStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Stats(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
