package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hyperb1iss/lucidity-mcp/internal/config"
	"github.com/hyperb1iss/lucidity-mcp/internal/logging"
)

func createTestServer(t *testing.T) *Server {
	t.Helper()

	logger, _ := logging.NewTestLogger()
	return NewServer(config.Default(), logger, "test")
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestNewServer(t *testing.T) {
	server := createTestServer(t)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}
	if server.mcpServer == nil {
		t.Error("underlying MCP server should be created by NewServer")
	}
	if server.extractor == nil {
		t.Error("change extractor should be created by NewServer")
	}
	if server.sseServer != nil {
		t.Error("stdio transport should not create an sse server")
	}
}

func TestNewServerSSE(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	cfg := config.Default()
	cfg.Transport = config.TransportSSE

	server := NewServer(cfg, logger, "test")
	if server.sseServer == nil {
		t.Error("sse transport should create the sse server up front")
	}
}

func TestStartSSEGracefulShutdown(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	cfg := config.Default()
	cfg.Transport = config.TransportSSE
	cfg.Port = 0 // let the OS pick a free port

	server := NewServer(cfg, logger, "test")

	done := make(chan error, 1)
	go func() {
		done <- server.Start()
	}()

	// Give the listener a moment to come up before tearing it down.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start should return nil after a clean shutdown, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestStartUnknownTransport(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	cfg := config.Default()
	cfg.Transport = "carrier-pigeon"

	server := NewServer(cfg, logger, "test")
	if err := server.Start(); err == nil {
		t.Error("Start should fail for an unknown transport")
	}
}

func TestStopWithoutStart(t *testing.T) {
	server := createTestServer(t)

	if err := server.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start should be a no-op, got: %v", err)
	}
}

func TestHandleAnalyzeCodeQuality(t *testing.T) {
	server := createTestServer(t)

	req := callToolRequest("analyze_code_quality", map[string]any{
		"code":     "def hello():\n    print('Hello, world!')",
		"language": "python",
	})

	result, err := server.handleAnalyzeCodeQuality(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if result.IsError {
		t.Fatalf("handler returned tool error: %s", resultText(t, result))
	}

	prompt := resultText(t, result)
	if !strings.Contains(prompt, "# Code Quality Analysis") {
		t.Error("prompt should contain the analysis preamble")
	}
	if !strings.Contains(prompt, "```python") {
		t.Error("prompt should tag the code block with the language")
	}
	if !strings.Contains(prompt, "**Unnecessary Complexity**") {
		t.Error("prompt should include all dimensions when focus_areas is omitted")
	}
	if strings.Contains(prompt, "Original Code") {
		t.Error("prompt should not contain a comparison section without original_code")
	}
}

func TestHandleAnalyzeCodeQualityFocusAreas(t *testing.T) {
	server := createTestServer(t)

	req := callToolRequest("analyze_code_quality", map[string]any{
		"code":        "SELECT * FROM users WHERE id = ' + userInput + '",
		"focus_areas": []any{"security"},
	})

	result, err := server.handleAnalyzeCodeQuality(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if result.IsError {
		t.Fatalf("handler returned tool error: %s", resultText(t, result))
	}

	prompt := resultText(t, result)
	if !strings.Contains(prompt, "**Security Vulnerabilities**") {
		t.Error("prompt should contain the requested dimension")
	}
	if strings.Contains(prompt, "**Test Coverage Gaps**") {
		t.Error("prompt should not contain dimensions outside the focus subset")
	}
}

func TestHandleAnalyzeCodeQualityErrors(t *testing.T) {
	server := createTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{
			name:    "missing code",
			args:    map[string]any{"language": "go"},
			wantMsg: "code",
		},
		{
			name:    "empty code",
			args:    map[string]any{"code": "   "},
			wantMsg: "code must not be empty",
		},
		{
			name: "unknown focus area",
			args: map[string]any{
				"code":        "def hello():\n    pass",
				"focus_areas": []any{"complexity", "vibes"},
			},
			wantMsg: "unknown quality dimension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := callToolRequest("analyze_code_quality", tt.args)

			result, err := server.handleAnalyzeCodeQuality(context.Background(), req)
			if err != nil {
				t.Fatalf("handler should not return transport error: %v", err)
			}
			if !result.IsError {
				t.Fatal("handler should return a tool error")
			}
			if msg := resultText(t, result); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error %q should mention %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestHandleAnalyzeFileChanges(t *testing.T) {
	repoPath := createTestRepo(t)
	server := createTestServer(t)

	modified := "def hello():\n    print('Hello, world!')\n    return True\n"
	filePath := filepath.Join(repoPath, "example.py")
	if err := os.WriteFile(filePath, []byte(modified), 0o644); err != nil {
		t.Fatalf("failed to modify file: %v", err)
	}

	req := callToolRequest("analyze_file_changes", map[string]any{"path": filePath})

	result, err := server.handleAnalyzeFileChanges(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if result.IsError {
		t.Fatalf("handler returned tool error: %s", resultText(t, result))
	}

	prompt := resultText(t, result)
	if !strings.Contains(prompt, "```python") {
		t.Error("prompt should carry the detected language")
	}
	if !strings.Contains(prompt, "print('Hello, world!')") {
		t.Error("prompt should contain the worktree code")
	}
	if !strings.Contains(prompt, "## Original Code (for comparison)") {
		t.Error("prompt should diff against the HEAD content")
	}
}

func TestHandleAnalyzeFileChangesErrors(t *testing.T) {
	repoPath := createTestRepo(t)
	server := createTestServer(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{}},
		{"unchanged file", map[string]any{"path": filepath.Join(repoPath, "example.py")}},
		{"lockfile", map[string]any{"path": filepath.Join(repoPath, "go.sum")}},
		{"nonexistent file", map[string]any{"path": filepath.Join(repoPath, "missing.py")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := callToolRequest("analyze_file_changes", tt.args)

			result, err := server.handleAnalyzeFileChanges(context.Background(), req)
			if err != nil {
				t.Fatalf("handler should not return transport error: %v", err)
			}
			if !result.IsError {
				t.Error("handler should return a tool error")
			}
		})
	}
}

func TestHandleAnalyzeCodePrompt(t *testing.T) {
	server := createTestServer(t)

	req := mcp.GetPromptRequest{}
	req.Params.Name = "analyze_code"
	req.Params.Arguments = map[string]string{
		"code":        "def hello():\n    pass",
		"language":    "python",
		"focus_areas": "complexity, style",
	}

	result, err := server.handleAnalyzeCodePrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("prompt handler failed: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected one prompt message, got %d", len(result.Messages))
	}
	if result.Messages[0].Role != mcp.RoleUser {
		t.Errorf("expected user role, got %s", result.Messages[0].Role)
	}

	text, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Messages[0].Content)
	}
	if !strings.Contains(text.Text, "**Unnecessary Complexity**") {
		t.Error("prompt should contain the complexity dimension")
	}
	if !strings.Contains(text.Text, "**Style Inconsistencies**") {
		t.Error("prompt should contain the style dimension")
	}
	if strings.Contains(text.Text, "**Security Vulnerabilities**") {
		t.Error("prompt should not contain dimensions outside the focus subset")
	}
}

func TestHandleAnalyzeCodePromptUnknownFocusArea(t *testing.T) {
	server := createTestServer(t)

	req := mcp.GetPromptRequest{}
	req.Params.Name = "analyze_code"
	req.Params.Arguments = map[string]string{
		"code":        "def hello():\n    pass",
		"focus_areas": "quantum",
	}

	if _, err := server.handleAnalyzeCodePrompt(context.Background(), req); err == nil {
		t.Error("prompt handler should fail for an unknown focus area")
	}
}

func TestSplitFocusAreas(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"complexity", []string{"complexity"}},
		{"complexity,security", []string{"complexity", "security"}},
		{" complexity , security , ", []string{"complexity", "security"}},
	}

	for _, tt := range tests {
		got := splitFocusAreas(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("splitFocusAreas(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitFocusAreas(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

// createTestRepo initializes a repository with one committed python file.
func createTestRepo(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()

	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	filePath := filepath.Join(repoPath, "example.py")
	if err := os.WriteFile(filePath, []byte("def hello():\n    pass\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := worktree.Add("example.py"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}

	if _, err := worktree.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	}); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath
}
