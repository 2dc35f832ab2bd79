// Package server implements the MCP (Model Context Protocol) server for SSO
// logo detection and evaluation.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - sso_providers: Loaded templates per provider and their thresholds
//   - sso_match: Detect provider logos on a screenshot
//   - sso_annotate: Detect and outline provider logos
//   - sso_evaluate: Score predictions against labeled ground truth
//
// # Image Caching
//
// Screenshots are cached by path, so sso_match followed by sso_annotate on
// the same file decodes it once. The cache persists for the lifetime of the
// server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	store, err := template.Load(dir, template.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	srv := server.New(matcher.New(store))
//	return srv.Run()
package server
