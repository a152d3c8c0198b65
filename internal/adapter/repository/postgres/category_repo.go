package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/postgres/generated"
	"github.com/iho/fintrack/internal/usecase"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

func (r *CategoryRepository) Create(ctx context.Context, tx usecase.Tx, c *domain.Category) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:     c.ID,
		UserID: c.UserID,
		Name:   c.Name,
		Kind:   string(c.Kind),
		Icon:   c.Icon,
		Color:  c.Color,
	})
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return rowToCategory(row), nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string, kind *domain.Kind) ([]*domain.Category, error) {
	params := generated.ListCategoriesByUserParams{UserID: userID}
	if kind != nil {
		params.Kind = pgtype.Text{String: string(*kind), Valid: true}
	}

	rows, err := r.queries.ListCategoriesByUser(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToCategory(row))
	}

	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, tx usecase.Tx, c *domain.Category) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.UpdateCategory(ctx, generated.UpdateCategoryParams{
		ID:    c.ID,
		Name:  c.Name,
		Kind:  string(c.Kind),
		Icon:  c.Icon,
		Color: c.Color,
	})
}

// Delete removes a category. Remaining references are cleared by ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.DeleteCategory(ctx, id)
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:     row.ID,
		UserID: row.UserID,
		Name:   row.Name,
		Kind:   domain.Kind(row.Kind),
		Icon:   row.Icon,
		Color:  row.Color,
	}
}
