package convert

import (
	"sync"
	"time"

	"github.com/ironsheep/svgcode-mcp/internal/acquire"
	"github.com/ironsheep/svgcode-mcp/internal/display"
	"github.com/ironsheep/svgcode-mcp/internal/task"
)

// Session is the per-surface state shared by successive runs: the surface
// itself, the input to convert, and the slot holding at most one live
// progress task.
//
// Session implements task.Registrar. Strategies start their progress task
// through it, and the orchestrator cancels whatever is in the slot before a
// new run starts converting.
type Session struct {
	Surface display.Surface

	mu       sync.Mutex
	input    acquire.Input
	progress *task.Periodic
}

// NewSession returns a session rendering into s.
func NewSession(s display.Surface) *Session {
	return &Session{Surface: s}
}

// SetInput replaces the image the next run will convert.
func (s *Session) SetInput(in acquire.Input) {
	s.mu.Lock()
	s.input = in
	s.mu.Unlock()
}

// Input returns the current input.
func (s *Session) Input() acquire.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// StartPeriodic cancels the task in the slot, if any, then starts and stores
// a new one.
func (s *Session) StartPeriodic(interval time.Duration, fn func()) *task.Periodic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress != nil {
		s.progress.Cancel()
	}
	s.progress = task.Start(interval, fn)
	return s.progress
}

// CancelStale cancels and clears the task in the slot. It reports whether a
// live task was cancelled.
func (s *Session) CancelStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return false
	}
	wasLive := s.progress.Live()
	s.progress.Cancel()
	s.progress = nil
	return wasLive
}

// Progress returns the task currently in the slot, or nil.
func (s *Session) Progress() *task.Periodic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}
