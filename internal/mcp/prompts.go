package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hyperb1iss/lucidity-mcp/internal/analysis"
)

// registerPrompts wires the prompt-typed variant of the analysis
// operation. Some MCP clients consume prompts rather than tools; the
// content is identical.
func (s *Server) registerPrompts() {
	analyzePrompt := mcp.NewPrompt("analyze_code",
		mcp.WithPromptDescription("Generate a prompt for analyzing code quality"),
		mcp.WithArgument("code",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The code to analyze"),
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("Programming language of the code"),
		),
		mcp.WithArgument("original_code",
			mcp.ArgumentDescription("The pre-edit version of the code, for comparison"),
		),
		mcp.WithArgument("focus_areas",
			mcp.ArgumentDescription("Comma-separated quality dimensions to focus on"),
		),
	)
	s.mcpServer.AddPrompt(analyzePrompt, s.handleAnalyzeCodePrompt)
}

func (s *Server) handleAnalyzeCodePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments

	prompt, err := analysis.BuildPrompt(analysis.Request{
		Code:         args["code"],
		OriginalCode: args["original_code"],
		Language:     args["language"],
		FocusAreas:   splitFocusAreas(args["focus_areas"]),
	})
	if err != nil {
		return nil, err
	}

	return mcp.NewGetPromptResult(
		"Code quality analysis prompt",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(prompt)),
		},
	), nil
}

// splitFocusAreas parses the comma-separated focus_areas prompt argument.
// MCP prompt arguments are always strings, unlike tool arguments.
func splitFocusAreas(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var areas []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			areas = append(areas, trimmed)
		}
	}
	return areas
}
