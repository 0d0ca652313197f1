package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func twoToneImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 24, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 24; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if x < 12 {
				c = color.NRGBA{20, 40, 200, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// createTwoToneImageFile writes a PNG with a dark left half and a white right half.
func createTwoToneImageFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "two-tone.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, twoToneImage()); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolText extracts the JSON text payload of a successful tool response.
func toolText(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &payload); err != nil {
		t.Fatalf("tool text is not JSON: %v", err)
	}
	return payload
}

func TestHandleToolsCall_ConvertColor(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTwoToneImageFile(t)

	payload := toolText(t, callTool(t, s, "svg_convert", map[string]interface{}{
		"path": imgPath,
	}))

	if payload["mode"] != "color" {
		t.Errorf("mode: got %v, want color", payload["mode"])
	}
	svg, _ := payload["svg"].(string)
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("svg: got %q", svg)
	}
	if strings.Contains(svg, `width="24"`) || strings.Contains(svg, `height="12"`) {
		t.Errorf("intrinsic dimensions should be stripped: %s", svg)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected one path per color, got %d", got)
	}
	if payload["size_bytes"] != float64(len(svg)) {
		t.Errorf("size_bytes: got %v, want %d", payload["size_bytes"], len(svg))
	}

	if s.surface.Content() != svg {
		t.Error("surface content should match the returned svg")
	}
	if s.session.Progress() == nil || s.session.Progress().Live() {
		t.Error("color conversion should leave a finished progress task in the session slot")
	}
}

func TestHandleToolsCall_ConvertInlineImage(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, twoToneImage()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	payload := toolText(t, callTool(t, s, "svg_convert", map[string]interface{}{
		"image_base64": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mode":         "mono",
	}))

	if payload["mode"] != "monochrome" {
		t.Errorf("mode: got %v, want monochrome", payload["mode"])
	}
	svg, _ := payload["svg"].(string)
	if !strings.Contains(svg, `fill="#000"`) {
		t.Errorf("monochrome output should fill with black: %s", svg)
	}
}

func TestHandleToolsCall_ConvertKeepsTransform(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTwoToneImageFile(t)

	toolText(t, callTool(t, s, "svg_set_transform", map[string]interface{}{
		"transform": "scale(2)",
	}))
	payload := toolText(t, callTool(t, s, "svg_convert", map[string]interface{}{
		"path": imgPath,
		"mode": "monochrome",
	}))

	if payload["transform"] != "scale(2)" {
		t.Errorf("result transform: got %v, want scale(2)", payload["transform"])
	}
	if got := s.surface.Transform(); got != "scale(2)" {
		t.Errorf("surface transform: got %q, want scale(2)", got)
	}

	// An explicit transform argument replaces the current one.
	toolText(t, callTool(t, s, "svg_convert", map[string]interface{}{
		"path":      imgPath,
		"mode":      "monochrome",
		"transform": "rotate(90)",
	}))
	if got := s.surface.Transform(); got != "rotate(90)" {
		t.Errorf("surface transform: got %q, want rotate(90)", got)
	}
}

func TestHandleToolsCall_ConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing input", map[string]interface{}{}},
		{"unknown mode", map[string]interface{}{"path": "/tmp/x.png", "mode": "sepia"}},
		{"bad base64", map[string]interface{}{"image_base64": "%%%"}},
		{"nonexistent file", map[string]interface{}{"path": "/nonexistent/image.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			resp := callTool(t, s, "svg_convert", tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_ConvertFailureShowsPlaceholder(t *testing.T) {
	s := newTestServer(t)
	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp := callTool(t, s, "svg_convert", map[string]interface{}{"path": bad})
	if resp.Error == nil {
		t.Fatal("expected error for undecodable file")
	}

	payload := toolText(t, callTool(t, s, "svg_display", nil))
	if payload["mode"] != "" {
		t.Errorf("mode: got %v, want empty", payload["mode"])
	}
	content, _ := payload["content"].(string)
	if !strings.HasPrefix(content, "<svg") {
		t.Errorf("placeholder should stay on the surface, got %q", content)
	}
}

func TestHandleToolsCall_Display(t *testing.T) {
	s := newTestServer(t)

	payload := toolText(t, callTool(t, s, "svg_display", nil))
	if payload["mode"] != "" || payload["content"] != "" {
		t.Errorf("fresh surface should be empty, got %v", payload)
	}
	if _, ok := payload["transform"]; ok {
		t.Error("empty transform should be omitted")
	}
}

func TestHandleToolsCall_SetTransform(t *testing.T) {
	s := newTestServer(t)

	payload := toolText(t, callTool(t, s, "svg_set_transform", map[string]interface{}{
		"transform": "translate(10 0)",
	}))
	if payload["transform"] != "translate(10 0)" {
		t.Errorf("transform: got %v", payload["transform"])
	}

	toolText(t, callTool(t, s, "svg_set_transform", map[string]interface{}{
		"transform": "",
	}))
	if got := s.surface.Transform(); got != "" {
		t.Errorf("transform should be cleared, got %q", got)
	}
}

func TestHandleToolsCall_FormatSize(t *testing.T) {
	tests := []struct {
		bytes int
		want  string
	}{
		{0, "0B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		payload := toolText(t, callTool(t, s, "svg_format_size", map[string]interface{}{
			"bytes": tt.bytes,
		}))
		if payload["size"] != tt.want {
			t.Errorf("svg_format_size(%d): got %v, want %s", tt.bytes, payload["size"], tt.want)
		}
	}

	resp := callTool(t, s, "svg_format_size", map[string]interface{}{"bytes": -1})
	if resp.Error == nil {
		t.Error("negative byte count should be rejected")
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/x.png"})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("error data: got %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{"name": 5}`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error == nil {
		t.Fatal("expected error")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
