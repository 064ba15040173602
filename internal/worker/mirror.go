// Package worker copies the ledger from the primary store to a mirror store,
// driven by change events or a timer.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/log"
	"financas/internal/sheets"
)

// MirrorWorker keeps a mirror store identical to the primary one. Every sync
// copies the whole ledger, so a missed or duplicated event is harmless.
type MirrorWorker struct {
	source sheets.LedgerLoader
	mirror sheets.LedgerSaver
	logger *log.Logger

	mu       sync.Mutex
	lastSync time.Time
	syncs    int
}

func NewMirrorWorker(source sheets.LedgerLoader, mirror sheets.LedgerSaver, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		source: source,
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerChanged processes a single change event from AMQP.
func (w *MirrorWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.FieldMessageID, msg.ID,
		log.FieldOperation, msg.Op,
		log.FieldRows, len(msg.Rows))
	return w.SyncNow(ctx)
}

// SyncNow copies the primary ledger to the mirror. Calls are serialized.
func (w *MirrorWorker) SyncNow(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	rows, err := w.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load primary ledger: %w", err)
	}
	if err := w.mirror.Save(ctx, rows); err != nil {
		return fmt.Errorf("save mirror ledger: %w", err)
	}
	w.lastSync = time.Now()
	w.syncs++

	w.logger.InfoContext(ctx, "Ledger mirrored",
		log.FieldOperation, log.OpSync,
		log.FieldRows, len(rows),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Run resyncs every interval until ctx is done. Failed syncs are logged and
// retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncNow(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic mirror sync failed", log.FieldError, err.Error())
			}
		}
	}
}

// Stats returns the number of completed syncs and the time of the last one.
func (w *MirrorWorker) Stats() (int, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncs, w.lastSync
}
