// Package audit keeps a buffered trail of document-lifecycle events:
// generations, verifications and filings.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/config"
)

// Event is one audit trail entry
type Event struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Resource  string            `json:"resource"`
	Actor     string            `json:"actor,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Actions recorded by the engine
const (
	AccionGeneracion   = "document.generated"
	AccionVerificacion = "document.verified"
	AccionRadicacion   = "complaint.filed"
	AccionExportacion  = "listing.exported"
)

// Logger buffers audit events and flushes them in batches to the structured
// log. Events are never dropped silently: a full buffer flushes inline.
type Logger struct {
	cfg      config.AuditConfig
	logger   *zap.Logger
	events   chan *Event
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewLogger creates a new audit logger instance
func NewLogger(cfg config.AuditConfig, logger *zap.Logger) *Logger {
	return &Logger{
		cfg:      cfg,
		logger:   logger,
		events:   make(chan *Event, cfg.BufferSize),
		stopChan: make(chan struct{}),
	}
}

// Start launches the background flush loop
func (l *Logger) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return fmt.Errorf("audit logger is already running")
	}

	l.wg.Add(1)
	go l.processLoop(ctx)
	l.running = true
	l.logger.Info("audit logger started")
	return nil
}

// Stop flushes pending events and stops the loop. Draining is bounded by the
// context; on expiry the loop is left to finish on its own.
func (l *Logger) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return nil
	}
	close(l.stopChan)
	l.running = false

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("audit logger stop: %w", ctx.Err())
	}
	l.logger.Info("audit logger stopped")
	return nil
}

// Record queues one event. When the buffer is full the event is written
// inline instead of being dropped.
func (l *Logger) Record(action, resource string, details map[string]string) {
	ev := &Event{
		ID:        uuid.New().String(),
		Action:    action,
		Resource:  resource,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	select {
	case l.events <- ev:
	default:
		l.write(ev)
	}
}

func (l *Logger) processLoop(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*Event, 0, l.cfg.BatchSize)
	flush := func() {
		for _, ev := range batch {
			l.write(ev)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-l.events:
			batch = append(batch, ev)
			if len(batch) >= l.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		case <-l.stopChan:
			for {
				select {
				case ev := <-l.events:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (l *Logger) write(ev *Event) {
	fields := []zap.Field{
		zap.String("audit_id", ev.ID),
		zap.String("action", ev.Action),
		zap.String("resource", ev.Resource),
		zap.Time("at", ev.Timestamp),
	}
	for k, v := range ev.Details {
		fields = append(fields, zap.String(k, v))
	}
	l.logger.Info("audit", fields...)
}
