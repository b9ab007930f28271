package catalog

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidSKU         = errors.New("invalid sku format")
	ErrEmptyProductName   = errors.New("product name cannot be empty")
	ErrProductNameTooLong = errors.New("product name is too long (max 255 characters)")
	ErrNegativeCategory   = errors.New("category id cannot be negative")
)

const MaxProductNameLength = 255

var skuRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{1,62}[A-Z0-9]$`)

type SKU string

func NewSKU(s string) (SKU, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if !skuRegex.MatchString(s) {
		return SKU(""), ErrInvalidSKU
	}
	return SKU(s), nil
}

func (s SKU) String() string {
	return string(s)
}
