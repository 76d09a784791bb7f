// Package events publishes compile run notifications over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/nile/internal/compile"
	"git.home.luguber.info/inful/nile/internal/config"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
	"git.home.luguber.info/inful/nile/internal/logfields"
)

// RunCompleted is published after every compile run that produced a report.
type RunCompleted struct {
	RunID      string    `json:"run_id"`
	Artifacts  int       `json:"artifacts"`
	Failed     []string  `json:"failed"`
	Succeeded  bool      `json:"succeeded"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// FromReport builds the event for a finished run.
func FromReport(r *compile.Report) RunCompleted {
	failed := r.Failed
	if failed == nil {
		failed = []string{}
	}
	return RunCompleted{
		RunID:      r.RunID,
		Artifacts:  len(r.Results),
		Failed:     failed,
		Succeeded:  r.Succeeded(),
		DurationMS: r.Duration.Milliseconds(),
		Timestamp:  r.StartedAt.Add(r.Duration).UTC(),
	}
}

// Publisher delivers run events.
type Publisher interface {
	Publish(ctx context.Context, ev RunCompleted) error
	Close()
}

// NoopPublisher drops every event; used when events are not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RunCompleted) error { return nil }
func (NoopPublisher) Close()                                      {}

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events as JSON messages on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// New returns a publisher for cfg, or a NoopPublisher when events are disabled.
func New(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled() {
		return NoopPublisher{}, nil
	}
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("nile"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, nerrors.EventPublishFailed(cfg.Subject, fmt.Errorf("failed to connect to NATS: %w", err))
	}

	slog.Debug("NATS publisher connected", "url", cfg.NATSURL, logfields.Subject(cfg.Subject))
	return newNATSPublisher(nc, cfg.Subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject}
}

// Publish sends ev and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, ev RunCompleted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return nerrors.EventPublishFailed(p.subject, fmt.Errorf("marshal event: %w", err))
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return nerrors.EventPublishFailed(p.subject, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return nerrors.EventPublishFailed(p.subject, fmt.Errorf("flush: %w", err))
	}

	slog.Debug("Published run event", logfields.RunID(ev.RunID), logfields.Subject(p.subject))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() { p.conn.Close() }
