package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// lockAccounts locks the given accounts in sorted id order (deadlock
// prevention) and returns them keyed by id. Missing ids are absent from the map.
func lockAccounts(ctx context.Context, repo AccountRepository, tx Tx, ids ...string) (map[string]*domain.Account, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	accounts, err := repo.GetByIDsForUpdate(ctx, tx, unique)
	if err != nil {
		return nil, err
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.ID] = acc
	}

	return accountMap, nil
}

// ownedAccount resolves an account the user addressed directly by id.
func ownedAccount(accounts map[string]*domain.Account, id, userID string) (*domain.Account, error) {
	acc := accounts[id]
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	if !acc.OwnedBy(userID) {
		return nil, domain.ErrAccountAccessDenied
	}
	return acc, nil
}

// checkCategory verifies an optional category reference belongs to the user.
func checkCategory(ctx context.Context, repo CategoryRepository, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}

	category, err := repo.GetByID(ctx, *categoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnknownCategory
	}
	if err != nil {
		return err
	}

	if !category.OwnedBy(userID) {
		return domain.ErrUnknownCategory
	}

	return nil
}

// emit writes an outbox event inside the caller's unit of work.
func emit(
	ctx context.Context,
	repo OutboxRepository,
	tx Tx,
	idGen IDGenerator,
	aggregateType, aggregateID, eventType string,
	payload map[string]any,
	now time.Time,
) error {
	event := &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	}

	return repo.Create(ctx, tx, event)
}
