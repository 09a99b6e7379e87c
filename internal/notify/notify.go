package notify

import (
	"log"

	"memodeck-client/internal/models"
)

// Notifier is the fire-and-forget sink for user-facing events. Core logic
// calls it but never depends on its effects.
type Notifier interface {
	Notify(msg models.WSMessage)
}

// LogNotifier writes events to the process log. Used when no UI is
// connected and as the always-on fallback sink.
type LogNotifier struct{}

func (LogNotifier) Notify(msg models.WSMessage) {
	log.Printf("event %s: %+v", msg.Type, msg.Payload)
}

// Multi fans one event out to several sinks.
type Multi []Notifier

func (m Multi) Notify(msg models.WSMessage) {
	for _, n := range m {
		n.Notify(msg)
	}
}
