package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/svgcode-mcp/internal/acquire"
	"github.com/ironsheep/svgcode-mcp/internal/convert"
	"github.com/ironsheep/svgcode-mcp/internal/display"
)

// progressToken identifies svg_convert progress notifications.
const progressToken = "svg_convert"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "svg_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "svg_convert":
		return s.handleSVGConvert(ctx, args)
	case "svg_display":
		return s.surface.Snapshot(), nil
	case "svg_set_transform":
		return s.handleSVGSetTransform(args)
	case "svg_format_size":
		return s.handleSVGFormatSize(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type svgConvertArgs struct {
	Path        string  `json:"path"`
	ImageBase64 string  `json:"image_base64"`
	Mode        string  `json:"mode"`
	Transform   *string `json:"transform"`
}

func (s *Server) handleSVGConvert(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a svgConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := display.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	in := acquire.Input{Path: a.Path}
	if a.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid image_base64: %w", err)
		}
		in.Data = data
	}
	if in.Path == "" && in.Data == nil {
		return nil, fmt.Errorf("either path or image_base64 is required")
	}

	if a.Transform != nil {
		s.surface.SetTransform(*a.Transform)
	}
	s.session.SetInput(in)

	res, err := s.orch.Run(ctx, s.session, mode)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &convert.Result{Mode: mode, Size: convert.FormatSize(0)}, nil
	}
	return res, nil
}

type svgSetTransformArgs struct {
	Transform string `json:"transform"`
}

func (s *Server) handleSVGSetTransform(args json.RawMessage) (interface{}, error) {
	var a svgSetTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	s.surface.SetTransform(a.Transform)
	return s.surface.Snapshot(), nil
}

type svgFormatSizeArgs struct {
	Bytes int `json:"bytes"`
}

func (s *Server) handleSVGFormatSize(args json.RawMessage) (interface{}, error) {
	var a svgFormatSizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Bytes < 0 {
		return nil, fmt.Errorf("bytes must be >= 0, got %d", a.Bytes)
	}
	return map[string]interface{}{
		"bytes": a.Bytes,
		"size":  convert.FormatSize(a.Bytes),
	}, nil
}
