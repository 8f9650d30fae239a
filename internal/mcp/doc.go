// Package mcp implements the Model Context Protocol (MCP) server for
// lucidity using the mcp-go library.
//
// The server exposes code-quality analysis operations to AI assistants:
//
//   - analyze_code_quality: build an analysis prompt for a code snippet,
//     optionally diffed against its pre-edit version and restricted to a
//     set of quality dimensions.
//   - analyze_file_changes: extract the uncommitted change of a single
//     file from its git repository and build the analysis prompt for it.
//   - analyze_code (prompt): the prompt-typed variant of
//     analyze_code_quality for clients that consume MCP prompts.
//
// The server never analyzes code itself. Every operation returns a
// structured natural-language prompt; the calling assistant performs the
// actual judgment.
//
// # Transports
//
// Two transports are supported, selected by configuration:
//
//   - stdio: JSON-RPC 2.0 over stdin/stdout, the usual mode when the
//     server runs as a subprocess of an AI assistant.
//   - sse: an HTTP listener serving the MCP SSE transport on a
//     configurable host:port.
//
// All logging goes to stderr so the stdio protocol stream stays clean.
package mcp
