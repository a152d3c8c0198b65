package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stores an outbox event inside tx.
func (r *OutboxRepository) Create(_ context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	st.outbox[event.ID] = *event
	return nil
}

// GetUnpublished returns the oldest unpublished events.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	events := make([]*domain.OutboxEvent, 0)
	for _, e := range st.outbox {
		if e.Published {
			continue
		}
		events = append(events, &e)
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// MarkPublished flags an event as delivered. It writes to the committed state
// directly, outside any unit of work.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if err := r.store.acquire(ctx); err != nil {
		return err
	}
	defer r.store.release()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.data.outbox[id]
	if !ok {
		return nil
	}
	e.Published = true
	e.PublishedAt = &publishedAt
	r.store.data.outbox[id] = e
	return nil
}

// DeletePublished removes events published before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if err := r.store.acquire(ctx); err != nil {
		return err
	}
	defer r.store.release()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, e := range r.store.data.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(r.store.data.outbox, id)
		}
	}
	return nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Totals sums recorded balances and the balances implied by transactions.
func (r *LedgerRepository) Totals(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	recorded, calculated := decimal.Zero, decimal.Zero
	for _, acc := range st.accounts {
		recorded = recorded.Add(acc.Balance)
		calculated = calculated.Add(acc.StartingBalance)
	}

	for _, t := range st.transactions {
		acc, ok := st.accounts[t.AccountID]
		if ok && acc.ExistedOn(t.Date) {
			calculated = calculated.Add(t.Amount)
		}
	}

	return recorded, calculated, nil
}
