// Package server implements the MCP (Model Context Protocol) server for the
// DiceKey reader.
//
// This package provides a JSON-RPC 2.0 server that exposes key reading
// through the MCP protocol, so an MCP client can read a DiceKey from a
// photograph, follow a multi-frame scan, and inspect what went wrong when a
// die is misread.
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
// Reading:
//   - dicekey_read_image: Read the key in one photograph
//   - dicekey_scan_frame: Feed a frame into a named scan session
//   - dicekey_session_reset: Discard a scan session
//
// Key forms:
//   - dicekey_parse: Parse a human-readable key
//   - dicekey_render: Draw a synthetic key image
//
// Diagnostics:
//   - dicekey_overlay: Outline the grid cells coloured by error
//   - dicekey_crop_cell: Extract the region around one die
//
// # Scan Sessions
//
// Each session name maps to one convergence session that merges frames
// until the key is read with zero error, or with only correctable error and
// no improvement for the calibrated grace period. Sessions live until they
// are reset or the process exits. A frame in which no key is found is
// reported in the result and still counts as a frame; it never fails the
// call.
//
// # Image Caching
//
// Photographs read by dicekey_read_image, dicekey_overlay and
// dicekey_crop_cell stay cached by path so a diagnosis after a read does
// not decode the file again. Scan frames are evicted after use.
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
//	srv := server.New(server.Config{})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
