package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/athletematch-mcp/internal/config"
	"github.com/dshills/athletematch-mcp/internal/linker"
	"github.com/dshills/athletematch-mcp/internal/registry"
	"github.com/dshills/athletematch-mcp/internal/searcher"
	"github.com/dshills/athletematch-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "athletematch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	registry *registry.Registry // nil when no known-athletes file is configured
	searcher *searcher.Searcher
	linker   *linker.Linker // nil without a registry
	search   config.Search
	linking  config.Linking
	logger   *log.Logger
}

// NewServer creates a new MCP server instance. The server takes ownership of
// store and closes it when Serve returns.
func NewServer(cfg *config.Config, store storage.Storage, reg *registry.Registry, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("storage is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// A typed nil registry must not reach the searcher as a non-nil interface
	var known searcher.KnownSource
	var lnk *linker.Linker
	if reg != nil {
		known = reg
		lnk = linker.New(store, reg, logger)
	}

	srch := searcher.NewSearcher(store, known,
		searcher.WithLogger(logger),
		searcher.WithCacheSize(cfg.Search.CacheSize),
	)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		registry: reg,
		searcher: srch,
		linker:   lnk,
		search:   cfg.Search,
		linking:  cfg.Linking,
		logger:   logger.WithPrefix("mcp"),
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve runs the MCP protocol on stdio until ctx is cancelled or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchAthletesTool(s.search), s.handleSearchAthletes)
	s.mcp.AddTool(getAthleteTool(), s.handleGetAthlete)
	s.mcp.AddTool(linkKnownAthletesTool(), s.handleLinkKnownAthletes)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
