package usecase

//go:generate mockgen -source=tx.go -destination=mocks/mock_tx.go -package=mocks

import "context"

// Tx is one unit of work. Every balance change and the row changes it
// compensates for are committed or rolled back together.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager begins units of work.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}
