// Package server implements the MCP (Model Context Protocol) server for
// target scoring tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the scoring
// pipeline through the MCP protocol, so MCP-compatible clients can analyze
// target photos on disk.
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
// Target Definitions:
//   - target_list: List registered target definitions
//
// Single-Photo Analysis:
//   - target_calibrate: Detect the black aiming area, return the calibration
//   - target_score: Full pipeline run (calibrate, find holes, score, summarize)
//   - target_overlay: Render the annotated overlay as base64 PNG
//
// Live Session (frame-by-frame differential scoring):
//   - session_start: Open a shot string for one physical target
//   - session_update: Feed the next frame, get only newly appeared shots
//   - session_summary: Running totals and per-shot breakdown
//   - session_reset: Discard a session
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images, keyed by path.
// Session frames are evicted after each update since they never repeat.
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
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
