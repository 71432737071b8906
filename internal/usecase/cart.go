package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/pricing"
)

// CartUseCase manages the session cart that checkout turns into an order.
type CartUseCase struct {
	carts   repository.CartRepository
	history repository.PurchaseHistoryRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(factory repository.Factory) *CartUseCase {
	return &CartUseCase{carts: factory.Carts(), history: factory.PurchaseHistory()}
}

// Lines returns the cart of user.
func (u *CartUseCase) Lines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, err := u.carts.Lines(ctx, userID)
	if err != nil {
		return nil, domainErrors.Persistence("load cart", err)
	}
	return lines, nil
}

// Add puts line into the cart, adding to the quantity of the same product when present.
func (u *CartUseCase) Add(ctx context.Context, userID int64, line model.CartLine) ([]model.CartLine, error) {
	line.ProductID = strings.TrimSpace(line.ProductID)
	if line.ProductID == "" {
		return nil, domainErrors.NewValidationError("product_id", "must not be empty")
	}
	if err := validateLines([]model.CartLine{line}); err != nil {
		return nil, err
	}

	lines, err := u.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, existing := range lines {
		if existing.ProductID == line.ProductID {
			line.Quantity += existing.Quantity
			break
		}
	}

	if err := u.carts.Put(ctx, userID, line); err != nil {
		return nil, domainErrors.Persistence("put cart line", err)
	}
	return u.Lines(ctx, userID)
}

// Remove drops product from the cart.
func (u *CartUseCase) Remove(ctx context.Context, userID int64, productID string) ([]model.CartLine, error) {
	if err := u.carts.Remove(ctx, userID, productID); err != nil {
		return nil, domainErrors.Persistence("remove cart line", err)
	}
	return u.Lines(ctx, userID)
}

// Clear empties the cart.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	if err := u.carts.Clear(ctx, userID); err != nil {
		return domainErrors.Persistence("clear cart", err)
	}
	return nil
}

// Quote prices the current cart for method.
func (u *CartUseCase) Quote(ctx context.Context, userID int64, method model.PaymentMethod) (pricing.Quote, error) {
	if !method.Valid() {
		return pricing.Quote{}, domainErrors.NewValidationError("payment_method", fmt.Sprintf("unsupported method %q", method))
	}
	lines, err := u.Lines(ctx, userID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Calculate(lines, method), nil
}

// PurchasedProducts lists products the user has bought through non-cancelled orders.
func (u *CartUseCase) PurchasedProducts(ctx context.Context, userID int64) ([]string, error) {
	ids, err := u.history.List(ctx, userID)
	if err != nil {
		return nil, domainErrors.Persistence("list purchase history", err)
	}
	return ids, nil
}
