package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const priceScale = 2

var (
	ErrEmptyPrice     = errors.New("price is empty")
	ErrMalformedPrice = errors.New("price is not a decimal number")
	ErrNegativePrice  = errors.New("price cannot be negative")
	ErrPriceTooLarge  = errors.New("price is too large")
)

// MaxPrice is the largest amount a NUMERIC(10,2) price column holds.
var MaxPrice = NewPriceFromCents(9_999_999_999)

// optional leading minus, digits with at most one decimal point
var priceSyntax = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// Price is a non-negative currency amount held at two decimal places.
// The zero value is 0.00.
type Price struct {
	amount decimal.Decimal
}

func newPrice(amount decimal.Decimal) Price {
	return Price{amount: amount.Round(priceScale)}
}

// ParsePrice accepts the text an operator types into a price field.
// Comma grouping separators and blanks are ignored.
func ParsePrice(raw string) (Price, error) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return Price{}, ErrEmptyPrice
	}
	if !priceSyntax.MatchString(cleaned) {
		return Price{}, ErrMalformedPrice
	}
	if strings.HasSuffix(cleaned, ".") {
		cleaned += "0"
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %s", ErrMalformedPrice, err.Error())
	}
	if amount.IsNegative() {
		return Price{}, ErrNegativePrice
	}

	price := newPrice(amount)
	if price.Exceeds(MaxPrice) {
		return Price{}, fmt.Errorf("%w: maximum is %s", ErrPriceTooLarge, MaxPrice)
	}

	return price, nil
}

func MustPrice(raw string) Price {
	p, err := ParsePrice(raw)
	if err != nil {
		panic(fmt.Sprintf("invalid price %q: %v", raw, err))
	}
	return p
}

func NewPriceFromCents(cents int64) Price {
	return newPrice(decimal.New(cents, -priceScale))
}

func (p Price) Decimal() decimal.Decimal {
	return p.amount
}

// String formats the price with exactly two decimals, e.g. "900.00".
func (p Price) String() string {
	return p.amount.StringFixed(priceScale)
}

func (p Price) Equal(other Price) bool {
	return p.amount.Equal(other.amount)
}

func (p Price) Exceeds(other Price) bool {
	return p.amount.GreaterThan(other.amount)
}

func (p Price) Mul(quantity int) Price {
	return newPrice(p.amount.Mul(decimal.NewFromInt(int64(quantity))))
}

func (p *Price) Scan(value interface{}) error {
	var amount decimal.Decimal
	if err := amount.Scan(value); err != nil {
		return fmt.Errorf("could not scan price: %w", err)
	}
	*p = newPrice(amount)
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// bare JSON numbers are accepted too
		raw = string(data)
	}

	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
