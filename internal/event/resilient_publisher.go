package event

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/logger"
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
// Increment this when changing the DeadLetterEntry structure
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry represents an event that failed to publish after all retries
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// ResilientPublisher wraps an event Bus to add retry logic and dead-letter queuing.
type ResilientPublisher struct {
	inner          Bus
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
	wg             sync.WaitGroup
	mu             sync.Mutex // Protects file writes
}

// NewResilientPublisher creates a new ResilientPublisher. The dead-letter
// directory is created if missing.
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	if maxRetries <= 0 {
		maxRetries = RetryMaxAttempts
	}
	if retryDelay <= 0 {
		retryDelay = RetryInitialDelaySeconds * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create dead-letter directory: %w", err)
	}

	return &ResilientPublisher{
		inner:          inner,
		maxRetries:     maxRetries,
		retryDelay:     retryDelay,
		deadLetterPath: deadLetterPath,
	}, nil
}

// Publish attempts to publish an event. If the first attempt fails, a
// background retry loop takes over and the caller is not blocked; the error
// surface for the caller is therefore always nil once the event is accepted.
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	if err := p.inner.Publish(ctx, evt); err == nil {
		return nil
	} else {
		logger.Warn(LogMsgEventPublishFailed,
			"event_type", evt.Type,
			"error", err,
			"max_retries", p.maxRetries)
	}

	p.wg.Add(1)
	go p.retryLoop(evt)
	return nil
}

// Subscribe delegates to the wrapped bus so the publisher can stand in
// anywhere a Bus is expected.
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// PublishWithRetry is an alias kept for call-site readability where the
// retry behavior is the point.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	_ = p.Publish(ctx, evt)
}

func (p *ResilientPublisher) retryLoop(evt Event) {
	defer p.wg.Done()

	// Detached context: the original request context may already be cancelled.
	ctx := context.Background()

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.retryDelay, attempt))

		lastErr = p.inner.Publish(ctx, evt)
		if lastErr == nil {
			logger.Info(LogMsgEventRetrySucceeded,
				"event_type", evt.Type,
				"attempt", attempt)
			return
		}

		logger.Warn(LogMsgEventRetryFailed,
			"event_type", evt.Type,
			"attempt", attempt,
			"error", lastErr)
	}

	logger.Warn(LogMsgEventRetryExhausted, "event_type", evt.Type)
	p.writeToDeadLetter(evt, lastErr)
}

func (p *ResilientPublisher) writeToDeadLetter(evt Event, lastErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.deadLetterPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err, "path", p.deadLetterPath)
		return
	}
	defer f.Close()

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Event:         evt,
		Attempts:      p.maxRetries,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	data, _ := json.Marshal(entry)
	if _, err := f.Write(append(data, '\n')); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err, "path", p.deadLetterPath)
	}
}

// Shutdown waits for in-flight retry loops to finish or the context to expire.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
