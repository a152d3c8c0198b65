package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName  = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrInvalidCategoryName = fmt.Errorf("%w: invalid category name", ErrValidation)
	ErrInvalidCurrency     = fmt.Errorf("%w: invalid currency code", ErrValidation)
	ErrInvalidColor        = fmt.Errorf("%w: invalid color", ErrValidation)
	ErrAmountTooLarge      = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrTextTooLong         = fmt.Errorf("%w: text too long", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength  = 100
	MaxCategoryNameLength = 50
	MaxDescriptionLength  = 255
	MaxLocationLength     = 100
	MaxIconLength         = 10
	MaxAmount             = "1000000000000" // 1 trillion

	DefaultCurrency      = "USD"
	DefaultCategoryIcon  = "📦"
	DefaultCategoryColor = "#6366f1"

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"THB": true,
}

var colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	return validateName(name, MaxAccountNameLength, ErrInvalidAccountName)
}

// ValidateCategoryName validates category name
func ValidateCategoryName(name string) error {
	return validateName(name, MaxCategoryNameLength, ErrInvalidCategoryName)
}

func validateName(name string, max int, sentinel error) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", sentinel)
	}

	if utf8.RuneCountInString(name) > max {
		return fmt.Errorf("%w: name exceeds %d characters", sentinel, max)
	}

	return nil
}

// NormalizeCurrency upper-cases the code and applies the default for blanks.
func NormalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency, nil
	}

	if !validCurrencies[currency] {
		return "", fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return currency, nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	_, err := NormalizeCurrency(currency)
	return err
}

// ValidateColor accepts #RRGGBB hex colors.
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: %q is not a #RRGGBB color", ErrInvalidColor, color)
	}
	return nil
}

// ValidateMagnitude bounds the absolute value of an amount.
func ValidateMagnitude(amount decimal.Decimal) error {
	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxAmount)
	}
	return nil
}

// ValidateTransferAmount requires a strictly positive, bounded amount.
func ValidateTransferAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return ValidateMagnitude(amount)
}

// ValidateText bounds free-form text fields.
func ValidateText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrTextTooLong, field, max)
	}
	return nil
}

// ValidatePagination applies defaults and bounds to list parameters.
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if offset < 0 {
		return 0, 0, Invalid("offset cannot be negative")
	}

	return limit, offset, nil
}
