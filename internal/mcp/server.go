// Package mcp implements the Model Context Protocol adapter for the pattern
// catalog using the mcp-go library.
//
// The server exposes the catalog's list, search, and read operations as MCP
// tools and communicates over stdin/stdout using JSON-RPC 2.0. Every tool
// call re-scans the patterns directory; no state is held between requests.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"patternbook/internal/catalog"
	"patternbook/internal/config"
	"patternbook/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "1.0.0"

// Server represents an MCP server instance backed by a pattern catalog.
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	catalog   *catalog.Catalog
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. The catalog is opened eagerly
// so a misconfigured patterns directory fails at startup, not mid-session.
func NewServer(cfg *config.Config, logger *logging.AppLogger) (*Server, error) {
	cat, err := catalog.New(cfg.PatternsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern catalog: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		catalog: cat,
	}

	s.mcpServer = server.NewMCPServer(
		config.APP_NAME,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()

	return s, nil
}

// Start serves MCP requests over stdio until the transport closes.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP server", "patternsDir", s.catalog.Root())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_patterns",
		mcp.WithDescription("List all available code patterns with their category, name, title, and description"),
	)
	s.mcpServer.AddTool(listTool, s.handleListPatterns)

	searchTool := mcp.NewTool("search_patterns",
		mcp.WithDescription("Search patterns by keyword across title, description, and category (case-insensitive)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Keyword to search for; an empty string returns the full catalog"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchPatterns)

	getTool := mcp.NewTool("get_pattern",
		mcp.WithDescription("Get the full markdown content of a single pattern"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Pattern category (e.g. 'auth', 'routing')"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Pattern file name without the markdown extension"),
		),
	)
	s.mcpServer.AddTool(getTool, s.handleGetPattern)

	categoryTool := mcp.NewTool("list_category",
		mcp.WithDescription("List the patterns of one category (exact, case-sensitive match)"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category directory name"),
		),
	)
	s.mcpServer.AddTool(categoryTool, s.handleListCategory)

	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the available category names"),
	)
	s.mcpServer.AddTool(categoriesTool, s.handleListCategories)
}

func (s *Server) handleListPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.catalog.Scan()
	if err != nil {
		s.logger.Error("Pattern scan failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to list patterns: %v", err)), nil
	}

	return entriesResult(entries)
}

func (s *Server) handleSearchPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing or invalid 'query' parameter: %v", err)), nil
	}

	entries, err := s.catalog.Search(query)
	if err != nil {
		s.logger.Error("Pattern search failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to search patterns: %v", err)), nil
	}

	return entriesResult(entries)
}

func (s *Server) handleGetPattern(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing or invalid 'category' parameter: %v", err)), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing or invalid 'name' parameter: %v", err)), nil
	}

	content, err := s.catalog.Read(category, name)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("pattern not found: %s/%s", category, name)), nil
		case errors.Is(err, catalog.ErrInvalidKey):
			return mcp.NewToolResultError(fmt.Sprintf("invalid pattern key: %v", err)), nil
		default:
			s.logger.Error("Pattern read failed", "category", category, "name", name, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("failed to read pattern: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleListCategory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("missing or invalid 'category' parameter: %v", err)), nil
	}

	entries, err := s.catalog.ByCategory(category)
	if err != nil {
		s.logger.Error("Category listing failed", "category", category, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to list category: %v", err)), nil
	}

	return entriesResult(entries)
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.catalog.Categories()
	if err != nil {
		s.logger.Error("Category names listing failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to list categories: %v", err)), nil
	}

	if categories == nil {
		categories = []string{}
	}
	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode categories: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// entriesResult serializes a slice of entries as the JSON text payload of a
// tool result. A nil slice encodes as an empty array, never null.
func entriesResult(entries []catalog.Entry) (*mcp.CallToolResult, error) {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode patterns: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
