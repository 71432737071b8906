package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartLineRequest describes a product put into the cart.
type CartLineRequest struct {
	ProductID     string              `json:"product_id"`
	Name          string              `json:"name"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	Quantity      int                 `json:"quantity"`
	IsPreorder    bool                `json:"is_preorder"`
	DepositAmount decimal.NullDecimal `json:"deposit_amount"`
}

// Line converts the request into a cart line.
func (r CartLineRequest) Line() model.CartLine {
	return model.CartLine{
		ProductID:     r.ProductID,
		Name:          r.Name,
		UnitPrice:     r.UnitPrice,
		Quantity:      r.Quantity,
		IsPreorder:    r.IsPreorder,
		DepositAmount: r.DepositAmount,
	}
}

// QuoteResponse is the price breakdown of a cart.
type QuoteResponse struct {
	PaymentMethod    string          `json:"payment_method"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	PaymentSurcharge decimal.Decimal `json:"payment_surcharge"`
	Total            decimal.Decimal `json:"total"`
}

// CartResponse lists cart lines.
type CartResponse struct {
	Lines []model.CartLine `json:"lines"`
}

// PurchasedResponse lists products bought by the user.
type PurchasedResponse struct {
	ProductIDs []string `json:"product_ids"`
}
