package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hyperb1iss/lucidity-mcp/internal/analysis"
)

// registerTools wires the analysis tools into the MCP server.
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_code_quality",
		mcp.WithDescription("Build a structured code quality analysis prompt for the given code. "+
			"The prompt asks the calling assistant to review the code across the selected "+
			"quality dimensions and report issues with severity, location, and recommendations."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The code to analyze"),
		),
		mcp.WithString("original_code",
			mcp.Description("The pre-edit version of the code; when provided, the prompt asks for a regression-aware comparison"),
		),
		mcp.WithString("language",
			mcp.Description("Programming language of the code, used to tag the code blocks"),
		),
		mcp.WithArray("focus_areas",
			mcp.Description(focusAreasDescription()),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyzeCodeQuality)

	changesTool := mcp.NewTool("analyze_file_changes",
		mcp.WithDescription("Analyze the uncommitted changes of a single file in a git repository. "+
			"Reads the worktree and HEAD versions of the file and builds a code quality "+
			"analysis prompt comparing the two."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file, absolute or relative to the server working directory"),
		),
		mcp.WithArray("focus_areas",
			mcp.Description(focusAreasDescription()),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
	s.mcpServer.AddTool(changesTool, s.handleAnalyzeFileChanges)
}

// handleAnalyzeCodeQuality builds the analysis prompt for code supplied
// directly in the request.
func (s *Server) handleAnalyzeCodeQuality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	request := analysis.Request{
		Code:         code,
		OriginalCode: req.GetString("original_code", ""),
		Language:     req.GetString("language", ""),
		FocusAreas:   req.GetStringSlice("focus_areas", nil),
	}

	s.logger.Debug("Handling analyze_code_quality",
		"language", request.Language,
		"focusAreas", request.FocusAreas,
		"hasOriginal", request.OriginalCode != "",
	)

	prompt, err := analysis.BuildPrompt(request)
	if err != nil {
		s.logger.Warn("Prompt build rejected", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(prompt), nil
}

// handleAnalyzeFileChanges extracts a single file's uncommitted change
// from its repository and builds the analysis prompt for it.
func (s *Server) handleAnalyzeFileChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	change, err := s.extractor.ExtractFileChange(path)
	if err != nil {
		s.logger.Warn("Change extraction failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	prompt, err := analysis.BuildPrompt(analysis.Request{
		Code:         change.Code,
		OriginalCode: change.OriginalCode,
		Language:     change.Language,
		FocusAreas:   req.GetStringSlice("focus_areas", nil),
	})
	if err != nil {
		s.logger.Warn("Prompt build rejected", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("Analyzed file changes",
		"path", change.Path,
		"status", change.Status,
		"language", change.Language,
	)

	return mcp.NewToolResultText(prompt), nil
}

func focusAreasDescription() string {
	return fmt.Sprintf("Quality dimensions to focus on; all dimensions are analyzed when omitted. Known dimensions: %s",
		strings.Join(analysis.DimensionNames(), ", "))
}
