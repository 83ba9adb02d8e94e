package proclog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
)

// Repo persists log entries.
type Repo interface {
	Append(ctx context.Context, entry Entry) error
}

// Logger buffers entries and appends them off the request path. Logging
// must never break the pipeline: when the buffer is full or a write fails,
// the entry is dropped and the drop is counted.
type Logger struct {
	repo    Repo
	entries chan Entry

	wg       sync.WaitGroup
	closeOne sync.Once
}

// NewLogger starts the drain goroutine. Close flushes and stops it.
func NewLogger(repo Repo) *Logger {
	l := &Logger{
		repo:    repo,
		entries: make(chan Entry, 256),
	}
	l.wg.Add(1)
	go l.drain()
	return l
}

// Log enqueues an entry, dropping it when the buffer is full.
func (l *Logger) Log(entry Entry) {
	entry.ID = uuid.NewString()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	select {
	case l.entries <- entry:
	default:
		metrics.IncLogDropped()
	}
}

// Info logs an informational entry linked to a result.
func (l *Logger) Info(message, sourceType, resultID string, ctx map[string]any) {
	l.Log(Entry{Level: LevelInfo, Message: message, SourceType: sourceType, AnalysisResultID: resultID, Context: ctx})
}

// Error logs an error entry linked to a result.
func (l *Logger) Error(message, sourceType, resultID string, ctx map[string]any) {
	l.Log(Entry{Level: LevelError, Message: message, SourceType: sourceType, AnalysisResultID: resultID, Context: ctx})
}

// Close flushes buffered entries and stops the logger.
func (l *Logger) Close() {
	l.closeOne.Do(func() {
		close(l.entries)
	})
	l.wg.Wait()
}

func (l *Logger) drain() {
	defer l.wg.Done()
	for entry := range l.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.repo.Append(ctx, entry); err != nil {
			metrics.IncLogDropped()
		}
		cancel()
	}
}
