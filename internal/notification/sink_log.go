package notification

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. It is the sink when no Kafka
// brokers are configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, e Event) error {
	attrs := []any{
		"request_id", e.RequestID,
		"event_id", e.ID,
		"kind", e.Kind,
		"occurred_at", e.OccurredAt,
	}
	if e.SupervisorID != "" {
		attrs = append(attrs, "supervisor_id", e.SupervisorID)
	}
	if e.SubjectID != "" {
		attrs = append(attrs, "subject_id", e.SubjectID)
	}
	for k, v := range e.Attributes {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}
