package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput wraps every rejection so callers can map it to a 400.
var ErrInvalidInput = errors.New("invalid input")

const (
	MaxCodeLen     = 64
	MaxNameLen     = 255
	MaxCategoryLen = 50
	MaxCustomerLen = 120

	MaxPrice int64 = 1_000_000_000_000
	MaxStock int64 = 1_000_000
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// Message strips the sentinel prefix for display.
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
}

// ValidateCode checks an operator-chosen product code.
func ValidateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid("code required")
	}
	if len(code) > MaxCodeLen {
		return invalid("code too long")
	}
	// codes end up in file names and CDN ids
	if strings.ContainsAny(code, `/\`) {
		return invalid("code must not contain slashes")
	}
	return nil
}

// ValidateProduct checks the editable fields of a product.
func ValidateProduct(name string, price, stock int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return invalid("name too long")
	}
	if price < 0 {
		return invalid("price must be >= 0")
	}
	if price > MaxPrice {
		return invalid("price too large")
	}
	if stock < 0 {
		return invalid("stock must be >= 0")
	}
	if stock > MaxStock {
		return invalid("stock too large")
	}
	return nil
}

func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("category required")
	}
	if utf8.RuneCountInString(name) > MaxCategoryLen {
		return invalid("category too long")
	}
	return nil
}

func ValidateCustomer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("customer name required")
	}
	if utf8.RuneCountInString(name) > MaxCustomerLen {
		return invalid("customer name too long")
	}
	return nil
}
