// Package notify reports user-facing outcomes of a publish run.
package notify

import (
	"sync"

	"github.com/dt-pm-tools/mdpub/internal/logging"
)

// Level classifies a notification.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Failure Level = "error"
)

// Notifier delivers short status messages to the operator.
type Notifier interface {
	Notify(level Level, msg string)
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier returns a Notifier backed by logger.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Discard
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(level Level, msg string) {
	switch level {
	case Failure:
		n.logger.Error(msg, "notification", string(level))
	default:
		n.logger.Info(msg, "notification", string(level))
	}
}

// Message is a recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
