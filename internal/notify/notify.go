// Package notify delivers short-lived, user-facing messages such as the size
// of a freshly converted SVG.
package notify

import (
	"time"

	"github.com/rs/zerolog"
)

// Notifier displays message for roughly duration. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string, duration time.Duration)
}

// Func adapts a plain function to Notifier.
type Func func(message string, duration time.Duration)

// Notify calls f.
func (f Func) Notify(message string, duration time.Duration) {
	f(message, duration)
}

// Log writes notifications to a zerolog logger at info level.
type Log struct {
	Logger zerolog.Logger
}

// Notify logs the message with its display duration.
func (l Log) Notify(message string, duration time.Duration) {
	l.Logger.Info().Dur("duration", duration).Msg(message)
}

// Multi fans a notification out to every Notifier in order.
type Multi []Notifier

// Notify forwards to each wrapped Notifier.
func (m Multi) Notify(message string, duration time.Duration) {
	for _, n := range m {
		n.Notify(message, duration)
	}
}
