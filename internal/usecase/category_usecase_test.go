package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestCategoryUseCase_CreateCategory(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CategoryInput
		expectError error
	}{
		{name: "defaults applied", input: usecase.CategoryInput{Name: "Groceries", Kind: "expense"}},
		{name: "custom icon and color", input: usecase.CategoryInput{Name: "Salary", Kind: "income", Icon: "💰", Color: "#00FF00"}},
		{name: "empty name", input: usecase.CategoryInput{Name: "", Kind: "expense"}, expectError: domain.ErrInvalidCategoryName},
		{name: "unknown kind", input: usecase.CategoryInput{Name: "Misc", Kind: "transfer"}, expectError: domain.ErrInvalidKind},
		{name: "bad color", input: usecase.CategoryInput{Name: "Misc", Kind: "expense", Color: "red"}, expectError: domain.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.input.UserID = "user-1"

			category, err := env.categoryUC.CreateCategory(context.Background(), tt.input)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, category.ID)
			assert.NotEmpty(t, category.Icon)
			assert.NotEmpty(t, category.Color)
			if tt.input.Icon == "" {
				assert.Equal(t, domain.DefaultCategoryIcon, category.Icon)
				assert.Equal(t, domain.DefaultCategoryColor, category.Color)
			}
		})
	}
}

func TestCategoryUseCase_ListAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	food, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Food", Kind: "expense"})
	require.NoError(t, err)
	_, err = env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Salary", Kind: "income"})
	require.NoError(t, err)
	_, err = env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-2", Name: "Rent", Kind: "expense"})
	require.NoError(t, err)

	all, err := env.categoryUC.ListCategories(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	expenses, err := env.categoryUC.ListCategories(ctx, "user-1", "expense")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, food.ID, expenses[0].ID)

	_, err = env.categoryUC.ListCategories(ctx, "user-1", "other")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	updated, err := env.categoryUC.UpdateCategory(ctx, food.ID, usecase.CategoryInput{
		UserID: "user-1", Name: "Eating out", Kind: "expense", Color: "#112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "Eating out", updated.Name)
	assert.Equal(t, "#112233", updated.Color)

	_, err = env.categoryUC.UpdateCategory(ctx, food.ID, usecase.CategoryInput{UserID: "user-2", Name: "Stolen", Kind: "expense"})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = env.categoryUC.GetCategory(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUseCase_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *domain.Account, *domain.Category, *domain.Transaction) {
		env := newTestEnv(t)
		acc := env.newAccount(t, "user-1", "Checking", "100", nil)
		food, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Food", Kind: "expense"})
		require.NoError(t, err)
		txn, err := env.txnUC.CreateTransaction(ctx, usecase.TransactionInput{
			UserID: "user-1", AccountID: acc.ID, CategoryID: &food.ID,
			Amount: amt("12"), Kind: "expense", Date: date("2024-05-05"),
		})
		require.NoError(t, err)
		return env, acc, food, txn
	}

	t.Run("uncategorizes without a target", func(t *testing.T) {
		env, acc, food, txn := setup(t)

		moved, err := env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), moved)

		got, err := env.transactions.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
		assert.Equal(t, "88", env.balance(t, acc.ID))

		_, err = env.categoryUC.GetCategory(ctx, "user-1", food.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("migrates to a target", func(t *testing.T) {
		env, acc, food, txn := setup(t)
		dining, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Dining", Kind: "expense"})
		require.NoError(t, err)

		moved, err := env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, &dining.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), moved)

		got, err := env.transactions.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, dining.ID, *got.CategoryID)
		assert.Equal(t, "88", env.balance(t, acc.ID))
	})

	t.Run("rejects invalid targets", func(t *testing.T) {
		env, _, food, txn := setup(t)
		salary, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Salary", Kind: "income"})
		require.NoError(t, err)
		foreign, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-2", Name: "Food", Kind: "expense"})
		require.NoError(t, err)
		missing := "missing"

		_, err = env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, &food.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, &salary.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, &foreign.ID)
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
		_, err = env.categoryUC.DeleteCategory(ctx, "user-1", food.ID, &missing)
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
		_, err = env.categoryUC.DeleteCategory(ctx, "user-2", food.ID, nil)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)

		got, err := env.transactions.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, food.ID, *got.CategoryID)
	})
}
