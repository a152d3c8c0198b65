package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Everyday Checking"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation kind, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		err := ValidateAccountName(tooLong)
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})

	t.Run("length counted in runes", func(t *testing.T) {
		name := strings.Repeat("ß", MaxAccountNameLength)
		if err := ValidateAccountName(name); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestValidateCategoryName(t *testing.T) {
	t.Parallel()

	if err := ValidateCategoryName("Groceries"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ValidateCategoryName(""); !errors.Is(err, ErrInvalidCategoryName) {
		t.Fatalf("expected ErrInvalidCategoryName, got %v", err)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	t.Parallel()

	got, err := NormalizeCurrency("thb")
	if err != nil || got != "THB" {
		t.Fatalf("expected THB, got %q (%v)", got, err)
	}

	got, err = NormalizeCurrency("  ")
	if err != nil || got != DefaultCurrency {
		t.Fatalf("expected default currency, got %q (%v)", got, err)
	}

	if err := ValidateCurrency("XYZ"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateColor(t *testing.T) {
	t.Parallel()

	if err := ValidateColor(DefaultCategoryColor); err != nil {
		t.Fatalf("expected default color to be valid, got %v", err)
	}

	for _, c := range []string{"", "red", "#12345", "#GGGGGG"} {
		if err := ValidateColor(c); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("expected ErrInvalidColor for %q, got %v", c, err)
		}
	}
}

func TestValidateTransferAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateTransferAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateTransferAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateTransferAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateTransferAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	if err := ValidateText("description", strings.Repeat("x", MaxDescriptionLength), MaxDescriptionLength); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := ValidateText("location", strings.Repeat("x", MaxLocationLength+1), MaxLocationLength)
	if !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", limit: 0, offset: 0, wantLimit: DefaultPageLimit},
		{name: "clamped", limit: 500, offset: 10, wantLimit: MaxPageLimit, wantOffset: 10},
		{name: "explicit", limit: 5, offset: 3, wantLimit: 5, wantOffset: 3},
		{name: "negative offset", limit: 5, offset: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ValidatePagination(tt.limit, tt.offset)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("expected (%d,%d), got (%d,%d)", tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}
