package publisher

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes every snapshot as a structured log line.
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish logs the snapshot at info level.
func (p *LogPublisher) Publish(_ context.Context, s Snapshot) error {
	fields := []zap.Field{
		zap.String("entity", s.Entity),
		zap.String("state", s.State.String()),
		zap.String("trigger", s.Trigger),
		zap.String("subject", s.Attributes.Subject.String()),
		zap.String("issuer", s.Attributes.Issuer.String()),
	}
	if s.Attributes.EndDate != nil {
		fields = append(fields, zap.Time("end_date", *s.Attributes.EndDate))
	}
	if s.Error != "" {
		fields = append(fields, zap.String("error", s.Error))
	}
	p.log.Info("Certificate state published", fields...)
	return nil
}
