package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hyperb1iss/lucidity-mcp/internal/changes"
	"github.com/hyperb1iss/lucidity-mcp/internal/config"
	"github.com/hyperb1iss/lucidity-mcp/internal/logging"
)

const serverName = "lucidity"

// Server is the lucidity MCP server. It wires the analysis operations
// into an mcp-go server instance and runs the configured transport.
type Server struct {
	cfg       config.Config
	logger    *logging.AppLogger
	version   string
	extractor *changes.Extractor
	mcpServer *server.MCPServer
	sseServer *server.SSEServer
}

// NewServer creates a fully wired server: all tools and prompts are
// registered, and the transport is ready to start.
func NewServer(cfg config.Config, logger *logging.AppLogger, version string) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		extractor: changes.NewExtractor(logger),
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	// Built here rather than in Start so Stop works no matter when the
	// signal handler fires.
	if cfg.Transport == config.TransportSSE {
		s.sseServer = server.NewSSEServer(s.mcpServer)
	}

	s.registerTools()
	s.registerPrompts()

	return s
}

// Start runs the configured transport and blocks until the transport
// terminates. For stdio that means stdin EOF; for sse it means listener
// shutdown via Stop.
func (s *Server) Start() error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		s.logger.Info("Starting MCP server on stdio transport", "version", s.version)
		if err := server.ServeStdio(s.mcpServer); err != nil {
			return fmt.Errorf("stdio server failed: %w", err)
		}
		return nil

	case config.TransportSSE:
		addr := s.cfg.ListenAddr()
		s.logger.Info("Starting MCP server on sse transport", "addr", addr, "version", s.version)
		err := s.sseServer.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sse server failed: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Transport)
	}
}

// Stop shuts the server down. Only the sse transport needs explicit
// teardown; the stdio transport terminates with its input stream.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping MCP server")
	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("sse shutdown failed: %w", err)
		}
	}
	return nil
}

// serverInstructions tells the connected assistant what this server is for.
const serverInstructions = `Lucidity provides code quality analysis prompts.

Call analyze_code_quality with a code snippet (and optionally its pre-edit
version) to receive a structured analysis prompt covering quality dimensions
such as complexity, security, and error handling. Call analyze_file_changes
with a file path inside a git repository to analyze that file's uncommitted
changes. Perform the analysis the returned prompt describes and present the
findings to the user.`
