package services

import (
	"context"
	"fmt"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/log"
	"financas/internal/sheets"
)

// Notifier announces ledger changes to other processes.
type Notifier interface {
	PublishLedgerChanged(ctx context.Context, op string, rows []core.Row) error
}

// View is everything the ledger page shows for one filter.
type View struct {
	Criteria     ledger.Criteria
	Years        []int
	Transactions core.Ledger
	ByType       ledger.TypeSummary
	ByCategory   ledger.CategorySummary
	Balance      core.Money
	Series       []ledger.PeriodBalance
}

// Empty reports whether no transaction matched the filter.
func (v View) Empty() bool {
	return len(v.Transactions) == 0
}

// LedgerService runs one load, mutate, persist and aggregate cycle per call.
// Nothing is cached between calls; the store is the source of truth.
type LedgerService struct {
	store    sheets.LedgerStore
	notifier Notifier
	logger   *log.Logger
}

// NewLedgerService wires a store with an optional notifier. A nil logger
// falls back to the default one.
func NewLedgerService(store sheets.LedgerStore, notifier Notifier, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		store:    store,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

// Add appends tx to the stored ledger. Invalid transactions are rejected
// before anything is read or written.
func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	rows, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	row := tx.Row()
	if err := s.store.Save(ctx, append(rows, row)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	fields := log.NewFields().
		WithTransaction(row.Date, row.Type, row.Category, tx.Amount.Cents).
		WithOperation(log.OpAppend)
	fields[log.FieldRows] = len(rows) + 1
	s.logger.InfoContext(ctx, "Ledger entry added", fields.ToSlice()...)

	s.publish(ctx, amqp.OpAppend, []core.Row{row})
	return nil
}

// Clear removes every entry from the stored ledger.
func (s *LedgerService) Clear(ctx context.Context) error {
	if err := s.store.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	s.logger.InfoContext(ctx, "Ledger cleared", log.FieldOperation, log.OpClear)

	s.publish(ctx, amqp.OpClear, nil)
	return nil
}

// View loads the ledger and computes the filtered table, the summaries and
// the balance. Years covers the whole ledger so the filter can offer every
// year present.
func (s *LedgerService) View(ctx context.Context, criteria ledger.Criteria) (View, error) {
	rows, err := s.store.Load(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load ledger: %w", err)
	}

	all := ledger.Normalize(rows)
	filtered := ledger.FilterByPeriod(all, criteria)
	byType := ledger.SummarizeByTypeAndPeriod(filtered)

	v := View{
		Criteria:     criteria,
		Years:        ledger.Years(all),
		Transactions: filtered,
		ByType:       byType,
		ByCategory:   ledger.SummarizeByTypeCategoryAndPeriod(filtered),
		Balance:      ledger.RunningBalance(byType),
		Series:       ledger.BalanceSeries(byType),
	}

	s.logger.DebugContext(ctx, "Ledger view computed",
		log.FieldOperation, log.OpView,
		log.FieldFilter, fmt.Sprint(criteria),
		log.FieldRows, len(rows),
		"matched", len(filtered))
	return v, nil
}

// Ready checks that the store can be read.
func (s *LedgerService) Ready(ctx context.Context) error {
	_, err := s.store.Load(ctx)
	return err
}

// publish sends a change event. Failures are logged only: the ledger is
// already saved.
func (s *LedgerService) publish(ctx context.Context, op string, rows []core.Row) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishLedgerChanged(ctx, op, rows); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger change",
			log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
	}
}
