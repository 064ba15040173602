package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound adapters. Every store treats a missing ledger as an empty
// one and replaces the whole ledger on Save.
type (
	LedgerLoader interface {
		// Load reads every stored row, in ledger order.
		Load(ctx context.Context) ([]core.Row, error)
	}

	LedgerSaver interface {
		// Save overwrites the stored ledger with rows.
		Save(ctx context.Context, rows []core.Row) error
	}

	LedgerStore interface {
		LedgerLoader
		LedgerSaver
	}
)
