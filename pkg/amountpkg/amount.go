// Package amountpkg provides parsing and validation of monetary amounts.
package amountpkg

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fractional digits stored for every amount.
	Scale = 2
	// MaxIntegerDigits is the number of integer digits a stored amount can hold.
	MaxIntegerDigits = 18
)

var (
	// ErrInvalidAmount indicates that the amount is not a decimal number that fits the
	// storage precision and scale.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates that the amount is below zero.
	ErrNegativeAmount = errors.New("negative amount")
)

// Parse parses s as a decimal amount with at most Scale fractional digits and
// at most MaxIntegerDigits integer digits.
//
// Bounds are checked on the digit count and exponent before any rescaling, so
// exponent notation such as "1e10000000" is rejected without expanding it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if d.IsZero() {
		return decimal.Zero, nil
	}

	digits, exp := d.NumDigits(), int(d.Exponent())

	if digits+exp > MaxIntegerDigits {
		return decimal.Zero, ErrInvalidAmount
	}

	// A coefficient of n digits has at most n-1 trailing zeros to drop.
	if -exp-Scale >= digits {
		return decimal.Zero, ErrInvalidAmount
	}

	if !d.Truncate(Scale).Equal(d) {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

// ParseNonNegative parses s like Parse and rejects amounts below zero.
func ParseNonNegative(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return d, err
	}

	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	return d, nil
}

// ValidAmount validates whether the field holds a non-negative amount.
//
// It accepts string kinds, which covers both string and json.Number fields.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	_, err := ParseNonNegative(field.String())

	return err == nil
}
