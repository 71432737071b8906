package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// CartHandler manages the cart, purchase history and points of the current user.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	lines, err := h.facade.CartLines(c.Request.Context(), CurrentUserID(c))
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

// Add handles POST /api/cart/lines.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.CartLineRequest
	if !bindJSON(c, &req) {
		return
	}
	lines, err := h.facade.AddToCart(c.Request.Context(), CurrentUserID(c), req.Line())
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

// Remove handles DELETE /api/cart/lines/:productID.
func (h *CartHandler) Remove(c *gin.Context) {
	lines, err := h.facade.RemoveFromCart(c.Request.Context(), CurrentUserID(c), c.Param("productID"))
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if abortOnError(c, h.facade.ClearCart(c.Request.Context(), CurrentUserID(c))) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Quote handles GET /api/cart/quote?payment_method=bank.
func (h *CartHandler) Quote(c *gin.Context) {
	method := model.PaymentMethod(c.DefaultQuery("payment_method", string(model.PaymentMethodBank)))
	quote, err := h.facade.CartQuote(c.Request.Context(), CurrentUserID(c), method)
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, dto.QuoteResponse{
		PaymentMethod:    string(method),
		Subtotal:         quote.Subtotal,
		ShippingFee:      quote.ShippingFee,
		PaymentSurcharge: quote.PaymentSurcharge,
		Total:            quote.Total,
	})
}

// Purchased handles GET /api/purchases.
func (h *CartHandler) Purchased(c *gin.Context) {
	ids, err := h.facade.PurchasedProducts(c.Request.Context(), CurrentUserID(c))
	if abortOnError(c, err) {
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, dto.PurchasedResponse{ProductIDs: ids})
}

// Points handles GET /api/points.
func (h *CartHandler) Points(c *gin.Context) {
	balance, err := h.facade.Points(c.Request.Context(), CurrentUserID(c))
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, dto.PointsResponse{Balance: balance})
}

func cartResponse(lines []model.CartLine) dto.CartResponse {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return dto.CartResponse{Lines: lines}
}
