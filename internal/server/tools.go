package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// calibrationProperty is the shared schema for manual calibration points.
func calibrationProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"center_x": map[string]interface{}{"type": "number", "description": "Target center X in pixels"},
			"center_y": map[string]interface{}{"type": "number", "description": "Target center Y in pixels"},
			"edge_x":   map[string]interface{}{"type": "number", "description": "X of a point on the black-area edge"},
			"edge_y":   map[string]interface{}{"type": "number", "description": "Y of a point on the black-area edge"},
		},
		"required":    []string{"center_x", "center_y", "edge_x", "edge_y"},
		"description": "Manual calibration from two picked points. Omit to auto-detect the target.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Target Definitions
		{
			Name:        "target_list",
			Description: "List the available target definitions (ring layout, bullet caliber, black-area diameter).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Single-Photo Analysis
		{
			Name:        "target_calibrate",
			Description: "Detect the target's black aiming area in a photo and return the pixel-to-millimeter calibration without scoring.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo",
					},
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Target definition name (default issf_50m_rifle)",
					},
					"apply_perspective": map[string]interface{}{
						"type":        "boolean",
						"description": "Detect a card/screen quadrilateral and rectify the photo first",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "target_score",
			Description: "Score every bullet hole in a target photo: calibrate, find holes, apply edge scoring, and summarize.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo",
					},
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Target definition name (default issf_50m_rifle)",
					},
					"apply_perspective": map[string]interface{}{
						"type":        "boolean",
						"description": "Detect a card/screen quadrilateral and rectify the photo first",
						"default":     false,
					},
					"calibration": calibrationProperty(),
					"include_overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also render the annotated overlay as base64 PNG",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "target_overlay",
			Description: "Render the annotated overlay (rings, calibration circle, colored hole markers) for a target photo as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo",
					},
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Target definition name (default issf_50m_rifle)",
					},
					"apply_perspective": map[string]interface{}{
						"type":        "boolean",
						"description": "Detect a card/screen quadrilateral and rectify the photo first",
						"default":     false,
					},
					"calibration": calibrationProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Live Session (frame-by-frame)
		{
			Name:        "session_start",
			Description: "Start a live scoring session for one physical target. Subsequent session_update calls report only newly appeared shots.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"target": map[string]interface{}{
						"type":        "string",
						"description": "Target definition name (default issf_50m_rifle)",
					},
					"calibration": calibrationProperty(),
				},
			},
		},
		{
			Name:        "session_update",
			Description: "Feed the next frame of a live session and get the shots that appeared since the previous frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session ID from session_start",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame",
					},
				},
				"required": []string{"session_id", "path"},
			},
		},
		{
			Name:        "session_summary",
			Description: "Summarize every shot scored so far in a live session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session ID from session_start",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "session_reset",
			Description: "Discard a live session, e.g. when a fresh card goes up.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": map[string]interface{}{
						"type":        "string",
						"description": "Session ID from session_start",
					},
				},
				"required": []string{"session_id"},
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
