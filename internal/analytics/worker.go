// Package analytics runs the dev backend's statistics sync job and checks
// submitted analytics batches.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultStepDelay is the pause between simulated per-account steps.
	DefaultStepDelay = 700 * time.Millisecond
)

// Sync log lines.
const (
	LineStarted    = "Запуск синхронизации..."
	LineNoAccounts = "Нет аккаунтов для синхронизации"
	LineFinished   = "Синхронизация завершена"
	LineAborted    = "Синхронизация прервана"
)

// ErrAlreadyRunning is returned by Start while a job is in progress.
var ErrAlreadyRunning = errors.New("sync already running")

// Store is the persistence the sync worker needs.
type Store interface {
	ListAccounts(ctx context.Context) ([]string, error)
	CountAnalytics(ctx context.Context) (int64, error)
	ResetLogs(ctx context.Context) error
	AppendLog(ctx context.Context, line string) error
}

// SyncWorker runs one simulated sync job at a time, writing progress to
// the store's sync log.
type SyncWorker struct {
	store     Store
	logger    *slog.Logger
	stepDelay time.Duration

	running bool
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewSyncWorker creates a worker. A non-positive stepDelay uses DefaultStepDelay.
func NewSyncWorker(store Store, logger *slog.Logger, stepDelay time.Duration) *SyncWorker {
	if stepDelay <= 0 {
		stepDelay = DefaultStepDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncWorker{
		store:     store,
		logger:    logger.With("component", "analytics.sync"),
		stepDelay: stepDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start clears the log and launches a job in the background. The job
// outlives ctx, which only bounds the initial log reset.
func (w *SyncWorker) Start(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", errors.New("sync worker stopped")
	}
	if w.running {
		w.mu.Unlock()
		return "", ErrAlreadyRunning
	}
	w.running = true
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	jobID := ulid.Make().String()

	if err := w.store.ResetLogs(ctx); err != nil {
		w.finish(done)
		return "", fmt.Errorf("reset sync logs: %w", err)
	}
	if err := w.store.AppendLog(ctx, LineStarted); err != nil {
		w.finish(done)
		return "", fmt.Errorf("append sync log: %w", err)
	}

	w.logger.Info("sync job started", "job_id", jobID)
	go w.run(jobID, done)
	return jobID, nil
}

// Running reports whether a job is in progress.
func (w *SyncWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Wait blocks until the current job finishes or ctx is done.
func (w *SyncWorker) Wait(ctx context.Context) error {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown aborts any running job and waits for it to exit.
// It implements server.ShutdownFunc for integration with graceful shutdown.
func (w *SyncWorker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.logger.Info("sync worker shutdown initiated")
	w.cancel()

	if err := w.Wait(ctx); err != nil {
		w.logger.Warn("sync worker shutdown timed out")
		return err
	}
	w.logger.Info("sync worker shutdown complete")
	return nil
}

func (w *SyncWorker) finish(done chan struct{}) {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	close(done)
}

func (w *SyncWorker) run(jobID string, done chan struct{}) {
	defer w.finish(done)

	logger := w.logger.With("job_id", jobID)
	ctx := w.ctx

	if err := w.process(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			// The worker context is gone; write the last line without it.
			_ = w.store.AppendLog(context.Background(), LineAborted)
			logger.Info("sync job aborted")
			return
		}
		logger.Error("sync job failed", "error", err)
		_ = w.store.AppendLog(context.Background(), "Ошибка синхронизации: "+err.Error())
		return
	}
	logger.Info("sync job finished")
}

func (w *SyncWorker) process(ctx context.Context) error {
	accounts, err := w.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return w.store.AppendLog(ctx, LineNoAccounts)
	}

	if err := w.store.AppendLog(ctx, fmt.Sprintf("Аккаунтов к обработке: %d", len(accounts))); err != nil {
		return err
	}

	for i, account := range accounts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.stepDelay):
		}
		line := fmt.Sprintf("[%d/%d] Сбор статистики: %s", i+1, len(accounts), account)
		if err := w.store.AppendLog(ctx, line); err != nil {
			return err
		}
	}

	links, err := w.store.CountAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("count analytics: %w", err)
	}
	if err := w.store.AppendLog(ctx, fmt.Sprintf("Ссылок в базе: %d", links)); err != nil {
		return err
	}
	return w.store.AppendLog(ctx, LineFinished)
}
