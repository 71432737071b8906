// Package pricing holds the checkout arithmetic and the static FX table.
package pricing

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

var (
	// FreeShippingThreshold must be strictly exceeded for shipping to be free.
	FreeShippingThreshold = decimal.NewFromInt(1000)
	FlatShippingFee       = decimal.NewFromInt(50)
	TrueMoneySurcharge    = decimal.NewFromInt(10)
	// DomesticShippingCost is charged when an arrived pre-order is forwarded to the customer.
	DomesticShippingCost = decimal.NewFromInt(50)

	pointsUnit = decimal.NewFromInt(100)
)

// MoneyPlaces is the number of decimal places every stored amount keeps.
const MoneyPlaces = 2

// Money rounds amount to MoneyPlaces.
func Money(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// Quote is the price breakdown of a cart for a payment method.
type Quote struct {
	Subtotal         decimal.Decimal
	ShippingFee      decimal.Decimal
	PaymentSurcharge decimal.Decimal
	Total            decimal.Decimal
}

// Calculate prices lines for the chosen payment method.
func Calculate(lines []model.CartLine, method model.PaymentMethod) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	surcharge := decimal.Zero
	if method == model.PaymentMethodTrueMoney {
		surcharge = TrueMoneySurcharge
	}

	return Quote{
		Subtotal:         subtotal,
		ShippingFee:      shipping,
		PaymentSurcharge: surcharge,
		Total:            subtotal.Add(shipping).Add(surcharge),
	}
}

// PointsFor returns loyalty points earned by an order total: one point per full 100.
func PointsFor(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(pointsUnit).Floor().IntPart()
}

// RemainderAmount computes the second payment due once a pre-order has arrived.
func RemainderAmount(order model.Order, option model.PaymentOption) (decimal.Decimal, error) {
	switch option {
	case model.PaymentOptionFull:
		return DomesticShippingCost.Add(order.ShippingFee), nil
	case model.PaymentOptionShippingOnly:
		return DomesticShippingCost, nil
	}
	return decimal.Zero, domainErrors.NewValidationError("payment_option", "must be full or shipping_only")
}
