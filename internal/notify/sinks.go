package notify

import (
	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/logging"
)

// EventSink republishes notifications on the event bus so any front-end can
// render them.
type EventSink struct {
	bus *events.EventBus
}

// NewEventSink creates a sink publishing to bus.
func NewEventSink(bus *events.EventBus) *EventSink {
	return &EventSink{bus: bus}
}

// Notify publishes n as a NotificationEvent.
func (s *EventSink) Notify(n Notification) {
	if s.bus == nil {
		return
	}
	s.bus.PublishNotification(n.Title, n.Description, string(n.Severity))
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink creates a sink logging through logger.
func NewLogSink(logger *logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs n; destructive notifications are logged as warnings.
func (s *LogSink) Notify(n Notification) {
	if s.logger == nil {
		return
	}
	ev := s.logger.Info()
	if n.Severity == SeverityDestructive {
		ev = s.logger.Warn()
	}
	ev.Str("title", n.Title).Str("severity", string(n.Severity)).Msg(n.Description)
}
