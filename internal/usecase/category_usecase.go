package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	txManager       TxManager
	categoryRepo    CategoryRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(
	txManager TxManager,
	categoryRepo CategoryRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
) *CategoryUseCase {
	return &CategoryUseCase{
		txManager:       txManager,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
	}
}

// CategoryInput represents the editable fields of a category.
// Empty Icon and Color take their defaults.
type CategoryInput struct {
	UserID string
	Name   string
	Kind   string
	Icon   string
	Color  string
}

func (in CategoryInput) build() (*domain.Category, error) {
	if err := domain.ValidateCategoryName(in.Name); err != nil {
		return nil, err
	}

	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = domain.DefaultCategoryIcon
	}
	if err := domain.ValidateText("icon", icon, domain.MaxIconLength); err != nil {
		return nil, err
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = domain.DefaultCategoryColor
	}
	if err := domain.ValidateColor(color); err != nil {
		return nil, err
	}

	return &domain.Category{
		UserID: in.UserID,
		Name:   strings.TrimSpace(in.Name),
		Kind:   kind,
		Icon:   icon,
		Color:  color,
	}, nil
}

// CreateCategory creates a category for the user.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category, err := input.build()
	if err != nil {
		return nil, err
	}
	category.ID = uc.idGen.Generate()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.categoryRepo.Create(txCtx, tx, category); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category owned by userID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !category.OwnedBy(userID) {
		return nil, domain.ErrCategoryAccessDenied
	}

	return category, nil
}

// ListCategories lists the user's categories, optionally filtered by kind.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, userID, kind string) ([]*domain.Category, error) {
	var filter *domain.Kind
	if kind != "" {
		k, err := domain.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		filter = &k
	}

	return uc.categoryRepo.ListByUser(ctx, userID, filter)
}

// UpdateCategory replaces a category's editable fields.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	updated, err := input.build()
	if err != nil {
		return nil, err
	}

	if _, err := uc.GetCategory(ctx, input.UserID, id); err != nil {
		return nil, err
	}
	updated.ID = id

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.categoryRepo.Update(txCtx, tx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCategory removes a category. Its transactions move to migrateTo when
// given, otherwise they become uncategorized. Balances are untouched.
// It returns the number of reassigned transactions.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, userID, id string, migrateTo *string) (int64, error) {
	category, err := uc.GetCategory(ctx, userID, id)
	if err != nil {
		return 0, err
	}

	if migrateTo != nil {
		if *migrateTo == id {
			return 0, domain.Invalid("cannot migrate a category into itself")
		}

		target, err := uc.categoryRepo.GetByID(ctx, *migrateTo)
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrUnknownCategory
		}
		if err != nil {
			return 0, err
		}
		if !target.OwnedBy(userID) {
			return 0, domain.ErrUnknownCategory
		}
		if target.Kind != category.Kind {
			return 0, domain.Invalid("cannot migrate %s transactions into a %s category", category.Kind, target.Kind)
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	moved, err := uc.transactionRepo.ReassignCategory(txCtx, tx, id, migrateTo)
	if err != nil {
		return 0, err
	}

	if err := uc.categoryRepo.Delete(txCtx, tx, id); err != nil {
		return 0, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Info().
		Str("category_id", id).
		Int64("reassigned", moved).
		Msg("category deleted")

	return moved, nil
}
