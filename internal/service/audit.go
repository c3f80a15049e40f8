package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// AuditEvent records a mutation for observability. Events carry only
// identifying fields (titles, ids), never full free-text content.
type AuditEvent struct {
	Action   string
	EntityID string
	Actor    string
	Fields   map[string]any
	At       time.Time
}

// AuditSink receives audit events.
type AuditSink interface {
	Log(ctx context.Context, event AuditEvent)
}

// NoopAuditSink ignores all events.
type NoopAuditSink struct{}

func (NoopAuditSink) Log(context.Context, AuditEvent) {}

type logAuditSink struct {
	logger *slog.Logger
}

// NewLogAuditSink writes audit events to the provided writer.
func NewLogAuditSink(w io.Writer) AuditSink {
	if w == nil {
		return NoopAuditSink{}
	}
	return &logAuditSink{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (s *logAuditSink) Log(ctx context.Context, event AuditEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"action", event.Action,
		"entity_id", event.EntityID,
	)
	if event.Actor != "" {
		attrs = append(attrs, "actor", event.Actor)
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "audit", attrs...)
}

// emitAudit dispatches an event fire-and-forget: a panicking or misbehaving
// sink must never fail the mutation that produced the event.
func emitAudit(ctx context.Context, sink AuditSink, event AuditEvent) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	event.At = time.Now().UTC()
	sink.Log(ctx, event)
}
