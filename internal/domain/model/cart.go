package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects how the customer pays at checkout.
type PaymentMethod string

const (
	PaymentMethodBank      PaymentMethod = "bank"
	PaymentMethodTrueMoney PaymentMethod = "truemoney"
)

// Valid reports whether the method is one of the supported options.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodBank || m == PaymentMethodTrueMoney
}

// CartLine is a single product entry of a session cart or an order.
type CartLine struct {
	ProductID     string              `json:"product_id"`
	Name          string              `json:"name"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	Quantity      int                 `json:"quantity"`
	IsPreorder    bool                `json:"is_preorder"`
	DepositAmount decimal.NullDecimal `json:"deposit_amount"`
}

// LineTotal returns unit price multiplied by quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShippingInfo carries the recipient details captured at checkout.
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// MissingField returns the first blank field name, or empty string when complete.
func (s ShippingInfo) MissingField() string {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return "name"
	case strings.TrimSpace(s.Phone) == "":
		return "phone"
	case strings.TrimSpace(s.Address) == "":
		return "address"
	}
	return ""
}
