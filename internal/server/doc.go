// Package server implements the MCP (Model Context Protocol) server for
// raster-to-SVG conversion.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - svg_convert: Convert an image file or inline base64 image to SVG
//   - svg_display: Read the display surface
//   - svg_set_transform: Set or clear the surface transform
//   - svg_format_size: Format a byte count as the conversion report does
//
// # Display Surface
//
// The server owns one display surface and one conversion session for its
// lifetime. Each svg_convert replaces the surface content and mode marker;
// a transform set through svg_set_transform survives conversions.
//
// # Notifications
//
// While a color conversion runs, "notifications/progress" messages carry the
// share of rows traced (progressToken "svg_convert"). When a result is
// presented, a "notifications/message" log message reports its size.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
