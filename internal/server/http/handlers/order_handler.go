package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/adapter/tracking"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	actor := CurrentActor(c)
	method := model.PaymentMethod(req.PaymentMethod)

	var (
		order *model.Order
		err   error
	)
	if len(req.Lines) > 0 {
		lines := make([]model.CartLine, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, l.Line())
		}
		order, err = h.facade.PlaceOrder(c.Request.Context(), actor, lines, req.Shipping, method)
	} else {
		order, err = h.facade.Checkout(c.Request.Context(), actor, req.Shipping, method)
	}
	h.respond(c, http.StatusCreated, order, err)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if abortOnError(c, err) {
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

// ConfirmDelivery handles POST /api/orders/:id/delivered.
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	order, err := h.facade.ConfirmDelivery(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

// SubmitSlip handles POST /api/orders/:id/slip.
func (h *OrderHandler) SubmitSlip(c *gin.Context) {
	var req dto.SlipRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.SubmitPaymentSlip(c.Request.Context(), CurrentActor(c), c.Param("id"), req.SlipRef)
	h.respond(c, http.StatusOK, order, err)
}

// RequestRemainder handles POST /api/orders/:id/remainder.
func (h *OrderHandler) RequestRemainder(c *gin.Context) {
	var req dto.RemainderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.RequestRemainderPayment(c.Request.Context(), CurrentActor(c), c.Param("id"), model.PaymentOption(req.Option))
	h.respond(c, http.StatusCreated, order, err)
}

// RejectSlip handles POST /api/admin/orders/:id/slip/reject.
func (h *OrderHandler) RejectSlip(c *gin.Context) {
	order, err := h.facade.RejectPaymentSlip(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

// ConfirmPayment handles POST /api/admin/orders/:id/confirm.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	order, err := h.facade.ConfirmPayment(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

// Ship handles POST /api/admin/orders/:id/ship.
func (h *OrderHandler) Ship(c *gin.Context) {
	var req dto.ShipRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.ShipOrder(c.Request.Context(), CurrentActor(c), c.Param("id"), req.Carrier, req.TrackingNumber)
	h.respond(c, http.StatusOK, order, err)
}

// MarkArrived handles POST /api/admin/orders/:id/arrived.
func (h *OrderHandler) MarkArrived(c *gin.Context) {
	order, err := h.facade.MarkOrderArrived(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, order, err)
}

func (h *OrderHandler) respond(c *gin.Context, status int, order *model.Order, err error) {
	if abortOnError(c, err) {
		return
	}
	c.JSON(status, toOrderResponse(*order))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	stage, visible := model.TrackingStage(order.Status)
	link, _ := tracking.Link(order.Carrier, order.TrackingNumber)
	lines := order.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	return dto.OrderResponse{
		ID:                 order.ID,
		Status:             string(order.Status),
		Lines:              lines,
		Subtotal:           order.Subtotal,
		ShippingFee:        order.ShippingFee,
		PaymentSurcharge:   order.PaymentSurcharge,
		TotalAmount:        order.TotalAmount,
		PaymentMethod:      string(order.PaymentMethod),
		Shipping:           order.Shipping,
		Carrier:            order.Carrier,
		TrackingNumber:     order.TrackingNumber,
		PaymentSlipRef:     order.PaymentSlipRef,
		IsRemainingPayment: order.IsRemainingPayment,
		PaymentOption:      string(order.PaymentOption),
		ParentOrderID:      order.ParentOrderID,
		CustomRequestID:    order.CustomRequestID,
		Tracking:           dto.TrackingResponse{Stage: stage, Visible: visible, Link: link},
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}
