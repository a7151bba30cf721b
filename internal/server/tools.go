package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Reading
		{
			Name:        "dicekey_read_image",
			Description: "Read the DiceKey in a single photograph. Returns the 25 faces with their error estimates and the human-readable form.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"include_report": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the per-cell frame report (grid model, OCR candidates, problems). Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dicekey_scan_frame",
			Description: "Feed one camera frame into a named scan session. Frames are merged so errors seen in only one frame cancel. Returns 'continue' until the key is read with zero error, or with only correctable error and no improvement for the grace period, then 'done'.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": map[string]interface{}{
						"type":        "string",
						"description": "Session name. A new session starts on first use",
					},
					"path": pathProperty,
					"timestamp_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Capture time in Unix milliseconds. Defaults to the time of the call",
					},
				},
				"required": []string{"session", "path"},
			},
		},
		{
			Name:        "dicekey_session_reset",
			Description: "Discard a scan session and everything it has accumulated.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": map[string]interface{}{
						"type":        "string",
						"description": "Session name",
					},
				},
				"required": []string{"session"},
			},
		},

		// Key forms
		{
			Name:        "dicekey_parse",
			Description: "Parse a 50- or 75-character human-readable key (letter, digit and optional orientation t/r/b/l per face). Returns the faces and the canonical form.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"form": map[string]interface{}{
						"type":        "string",
						"description": "Human-readable key, e.g. A1tB2r...",
					},
				},
				"required": []string{"form"},
			},
		},
		{
			Name:        "dicekey_render",
			Description: "Draw a synthetic DiceKey image for a human-readable key and write it as PNG. Useful for testing readers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"form": map[string]interface{}{
						"type":        "string",
						"description": "Human-readable key to draw",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the PNG file to write",
					},
					"angle_degrees": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise rotation of the whole key. Default 0",
						"default":     0,
					},
					"pixels_per_mm": map[string]interface{}{
						"type":        "number",
						"description": "Image scale. Default 8",
						"default":     8,
					},
				},
				"required": []string{"form", "path"},
			},
		},

		// Diagnostics
		{
			Name:        "dicekey_overlay",
			Description: "Read a photograph and return it as base64 PNG with every grid cell outlined, coloured from green (no error) to red, gray where nothing was read.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dicekey_crop_cell",
			Description: "Read a photograph and return the region around one grid cell as base64 PNG, to inspect a die that was misread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Cell index 0..24 in row-major order",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "index"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
