package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) Create(_ context.Context, tx usecase.Tx, category *domain.Category) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.categories[category.ID]; ok {
		return fmt.Errorf("category %s already exists", category.ID)
	}

	st.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	c, ok := st.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) ListByUser(_ context.Context, userID string, kind *domain.Kind) ([]*domain.Category, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	out := make([]*domain.Category, 0)
	for _, c := range st.categories {
		if c.UserID != userID || (kind != nil && c.Kind != *kind) {
			continue
		}
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, tx usecase.Tx, category *domain.Category) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	existing, ok := st.categories[category.ID]
	if !ok {
		return domain.ErrCategoryNotFound
	}

	updated := *category
	updated.UserID = existing.UserID
	st.categories[category.ID] = updated
	return nil
}

// Delete removes a category and clears any remaining references to it.
func (r *CategoryRepository) Delete(_ context.Context, tx usecase.Tx, id string) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}

	delete(st.categories, id)
	for tid, t := range st.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			st.transactions[tid] = t
		}
	}
	return nil
}
