// Package display models the output surface a converted SVG is rendered into.
//
// A Surface carries three pieces of state: the mode marker describing which
// conversion produced the current content, the content itself (SVG markup or a
// placeholder), and an optional geometric transform set by the caller (for
// example a zoom or pan applied by a viewer). Memory is an in-process Surface
// used by the MCP server and the CLI.
package display

import (
	"fmt"
	"sync"
)

// Mode selects the conversion strategy and the marker applied to the surface.
type Mode string

const (
	// ModeNone means no marker is applied.
	ModeNone Mode = ""
	// ModeColor marks output produced by the color tracer.
	ModeColor Mode = "color"
	// ModeMonochrome marks output produced by the monochrome tracer.
	ModeMonochrome Mode = "monochrome"
)

// ParseMode converts a user-supplied name into a Mode.
// An empty string selects ModeColor.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeColor):
		return ModeColor, nil
	case string(ModeMonochrome), "mono":
		return ModeMonochrome, nil
	default:
		return ModeNone, fmt.Errorf("unknown mode: %s", s)
	}
}

// Surface is the accessor contract for a display target.
// All methods are synchronous.
type Surface interface {
	Mode() Mode
	SetMode(m Mode)
	Content() string
	SetContent(markup string)
	Transform() string
	SetTransform(t string)
}

// State is a point-in-time copy of a surface.
type State struct {
	Mode      Mode   `json:"mode"`
	Content   string `json:"content"`
	Transform string `json:"transform,omitempty"`
}

// Memory is a Surface backed by plain fields. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	state State
}

// NewMemory returns an empty surface.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Mode
}

func (m *Memory) SetMode(mode Mode) {
	m.mu.Lock()
	m.state.Mode = mode
	m.mu.Unlock()
}

func (m *Memory) Content() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Content
}

func (m *Memory) SetContent(markup string) {
	m.mu.Lock()
	m.state.Content = markup
	m.mu.Unlock()
}

func (m *Memory) Transform() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Transform
}

func (m *Memory) SetTransform(t string) {
	m.mu.Lock()
	m.state.Transform = t
	m.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (m *Memory) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
