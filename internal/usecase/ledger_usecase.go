package usecase

import (
	"context"
	"errors"
)

var (
	// ErrInconsistentLedger is returned when recorded balances disagree with transactions.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: recorded balances do not match transactions")
)

// LedgerUseCase handles store-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that the sum of all recorded balances equals the
// sum of all balances rebuilt from starting snapshots and transactions.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	recorded, calculated, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return false, err
	}

	// Individual drifts can cancel out here; ReconciliationUseCase checks accounts one by one.
	if !recorded.Equal(calculated) {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
