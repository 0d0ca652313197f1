package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "svg_convert",
			Description: "Convert a raster image (PNG, JPEG, GIF, BMP, TIFF, WebP) into SVG. The result replaces the current display surface; any transform set on the surface is kept. Color mode sends progress notifications.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image data, used instead of path when set",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"color", "monochrome"},
						"description": "Conversion mode. Default color",
						"default":     "color",
					},
					"transform": map[string]interface{}{
						"type":        "string",
						"description": "Optional SVG transform to set on the display surface before converting",
					},
				},
			},
		},
		{
			Name:        "svg_display",
			Description: "Return the current display surface: mode marker, SVG content and transform.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "svg_set_transform",
			Description: "Set the geometric transform of the display surface (e.g. \"scale(2) translate(10 0)\"). An empty string clears it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"transform": map[string]interface{}{
						"type":        "string",
						"description": "SVG transform list",
					},
				},
				"required": []string{"transform"},
			},
		},
		{
			Name:        "svg_format_size",
			Description: "Format a byte count the way conversion results are reported (e.g. 1536 -> \"1.5 KB\").",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"bytes": map[string]interface{}{
						"type":        "integer",
						"description": "Non-negative byte count",
					},
				},
				"required": []string{"bytes"},
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
